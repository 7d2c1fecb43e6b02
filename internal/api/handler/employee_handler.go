package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/api/metrics"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /v1/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        q               query     string  false  "Search in name or surname"
// @Param        active          query     bool    false  "true for current, false for former employees"
// @Param        company_id      query     string  false  "Only employees of this company"
// @Param        started_after   query     string  false  "Start date on or after (YYYY-MM-DD)"
// @Param        started_before  query     string  false  "Start date on or before (YYYY-MM-DD)"
// @Success      200             {array}   employeeResponse
// @Router       /v1/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	f, err := orgFilter(c)
	if err != nil {
		return err
	}
	employees, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

// Get handles GET /v1/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	e, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(e))
}

// Create handles POST /v1/employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeRequest  true  "Employee"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toEmployeeInput(req)
	if err != nil {
		return err
	}
	e, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(e))
}

// Update handles PUT /v1/employees/:id.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Employee id"
// @Param        body  body      employeeRequest  true  "Employee"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req employeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toEmployeeInput(req)
	if err != nil {
		return err
	}
	e, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(e))
}

// Delete handles DELETE /v1/employees/:id by marking the employee not employed.
//
// @Summary      End an employment
// @Tags         employees
// @Security     BearerAuth
// @Param        id  path  string  true  "Employee id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Salary handles GET /v1/employees/:id/salary.
//
// @Summary      Salary breakdown for an employee
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Employee id"
// @Param        gross_basis  query     string  false  "What-if gross amount overriding the stored salary"
// @Success      200          {object}  breakdownResponse
// @Failure      400          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /v1/employees/{id}/salary [get]
func (h *EmployeeHandler) Salary(c echo.Context) error {
	var override *decimal.Decimal
	if raw := c.QueryParam("gross_basis"); raw != "" {
		d, err := parseAmount("gross_basis", raw)
		if err != nil {
			metrics.PayrollComputationsTotal.WithLabelValues("rejected").Inc()
			return err
		}
		override = &d
	}

	b, err := h.service.Salary(c.Request().Context(), c.Param("id"), override)
	if err != nil {
		metrics.PayrollComputationsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.PayrollComputationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, toBreakdownResponse(b))
}
