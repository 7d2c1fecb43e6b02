package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/api/metrics"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type PayrollHandler struct {
	calculator ports.PayrollCalculator
}

func NewPayrollHandler(calculator ports.PayrollCalculator) *PayrollHandler {
	return &PayrollHandler{calculator: calculator}
}

// Breakdown handles POST /v1/payroll/breakdown.
//
// @Summary      Gross-to-net salary breakdown
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      breakdownRequest  true  "Subject and gross amount"
// @Success      200   {object}  breakdownResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/payroll/breakdown [post]
func (h *PayrollHandler) Breakdown(c echo.Context) error {
	var req breakdownRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.PayrollComputationsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	gross, err := parseAmount("gross_basis", req.GrossBasis)
	if err != nil {
		metrics.PayrollComputationsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	b, err := h.calculator.ComputeBreakdown(req.SubjectID, gross)
	if err != nil {
		metrics.PayrollComputationsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.PayrollComputationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, toBreakdownResponse(b))
}
