package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/core/ports"
)

// IdentityHandler serves the caller's own profile and the admin identity
// management endpoints.
type IdentityHandler struct {
	service ports.IdentityService
}

func NewIdentityHandler(service ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Me handles GET /v1/me.
//
// @Summary      Current identity
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	identity, err := h.service.Get(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// List handles GET /v1/users.
//
// @Summary      List identities
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Filter by active flag"
// @Success      200     {array}   identityResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/users [get]
func (h *IdentityHandler) List(c echo.Context) error {
	active, err := boolQuery(c, "active")
	if err != nil {
		return err
	}
	identities, err := h.service.List(c.Request().Context(), active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponses(identities))
}

// Get handles GET /v1/users/:username.
//
// @Summary      Get an identity
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  identityResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/users/{username} [get]
func (h *IdentityHandler) Get(c echo.Context) error {
	identity, err := h.service.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// Create handles POST /v1/users. Unlike registration it may set the role.
//
// @Summary      Create an identity
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIdentityRequest  true  "Identity"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *IdentityHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createIdentityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.Create(c.Request().Context(), p, ports.CreateIdentityInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toIdentityResponse(identity))
}

// Update handles PUT /v1/users/:username.
//
// @Summary      Update an identity's email or role
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string                 true  "Username"
// @Param        body      body      updateIdentityRequest  true  "Fields to change"
// @Success      200       {object}  identityResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /v1/users/{username} [put]
func (h *IdentityHandler) Update(c echo.Context) error {
	var req updateIdentityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.Update(c.Request().Context(), c.Param("username"), ports.UpdateIdentityInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// Deactivate handles DELETE /v1/users/:username. The identity is kept but
// can no longer authenticate.
//
// @Summary      Deactivate an identity
// @Tags         identities
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{username} [delete]
func (h *IdentityHandler) Deactivate(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Deactivate(c.Request().Context(), p, c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Activate handles POST /v1/users/:username/activate.
//
// @Summary      Reactivate an identity
// @Tags         identities
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{username}/activate [post]
func (h *IdentityHandler) Activate(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Activate(c.Request().Context(), p, c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/users/stats.
//
// @Summary      Identity head count
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityStatsResponse
// @Router       /v1/users/stats [get]
func (h *IdentityHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityStatsResponse{Total: s.Total, Active: s.Active, Inactive: s.Inactive})
}
