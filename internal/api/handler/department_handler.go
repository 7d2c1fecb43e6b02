package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/core/ports"
)

type DepartmentHandler struct {
	service ports.DepartmentService
}

func NewDepartmentHandler(service ports.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// List handles GET /v1/departments.
//
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        q           query     string  false  "Case-insensitive name search"
// @Param        location    query     string  false  "Case-insensitive location search"
// @Param        active      query     bool    false  "true for active, false for deactivated"
// @Param        company_id  query     string  false  "Only departments of this company"
// @Success      200         {array}   departmentResponse
// @Router       /v1/departments [get]
func (h *DepartmentHandler) List(c echo.Context) error {
	f, err := orgFilter(c)
	if err != nil {
		return err
	}
	departments, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDepartmentResponses(departments))
}

// Get handles GET /v1/departments/:id.
//
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department id"
// @Success      200  {object}  departmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/departments/{id} [get]
func (h *DepartmentHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDepartmentResponse(d))
}

// Create handles POST /v1/departments.
//
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      departmentRequest  true  "Department"
// @Success      201   {object}  departmentResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/departments [post]
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req departmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.Create(c.Request().Context(), toDepartmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDepartmentResponse(d))
}

// Update handles PUT /v1/departments/:id.
//
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Department id"
// @Param        body  body      departmentRequest  true  "Department"
// @Success      200   {object}  departmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/departments/{id} [put]
func (h *DepartmentHandler) Update(c echo.Context) error {
	var req departmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.Update(c.Request().Context(), c.Param("id"), toDepartmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDepartmentResponse(d))
}

// Delete handles DELETE /v1/departments/:id by deactivating the department.
//
// @Summary      Deactivate a department
// @Tags         departments
// @Security     BearerAuth
// @Param        id  path  string  true  "Department id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toDepartmentInput(req departmentRequest) ports.DepartmentInput {
	return ports.DepartmentInput{
		Name:      req.Name,
		Location:  req.Location,
		CompanyID: req.CompanyID,
		Active:    req.Active,
	}
}
