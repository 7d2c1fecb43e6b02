package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/core/ports"
)

type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// List handles GET /v1/companies.
//
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Case-insensitive name search"
// @Param        location  query     string  false  "Case-insensitive location search"
// @Param        active    query     bool    false  "true for solvent, false for bankrupt"
// @Success      200       {array}   companyResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	f, err := orgFilter(c)
	if err != nil {
		return err
	}
	companies, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponses(companies))
}

// Get handles GET /v1/companies/:id.
//
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Company id"
// @Success      200  {object}  companyResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	company, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Create handles POST /v1/companies.
//
// @Summary      Create a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company"
// @Success      201   {object}  companyResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	company, err := h.service.Create(c.Request().Context(), ports.CompanyInput{
		Name:     req.Name,
		Location: req.Location,
		Bankrupt: req.Bankrupt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCompanyResponse(company))
}

// Update handles PUT /v1/companies/:id.
//
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company id"
// @Param        body  body      companyRequest  true  "Company"
// @Success      200   {object}  companyResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	company, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.CompanyInput{
		Name:     req.Name,
		Location: req.Location,
		Bankrupt: req.Bankrupt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Delete handles DELETE /v1/companies/:id by marking the company bankrupt.
//
// @Summary      Mark a company bankrupt
// @Tags         companies
// @Security     BearerAuth
// @Param        id  path  string  true  "Company id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/companies/stats.
//
// @Summary      Company count by solvency
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  companyStatsResponse
// @Router       /v1/companies/stats [get]
func (h *CompanyHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyStatsResponse{Total: s.Total, Bankrupt: s.Bankrupt, Solvent: s.Solvent})
}
