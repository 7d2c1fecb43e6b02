package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/api/middleware"
	"github.com/skroflin/workforce-api/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware. Handlers
// mounted behind Auth always have one; its absence means the route was
// wired without authentication.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be true or false: %w", name, domain.ErrInvalidInput)
	}
	return &v, nil
}

// orgFilter reads the shared list filters. active=false selects the
// bankrupt, inactive or former records, the same way it does on /v1/users.
// started_after and started_before only apply to employees.
func orgFilter(c echo.Context) (domain.OrgFilter, error) {
	active, err := boolQuery(c, "active")
	if err != nil {
		return domain.OrgFilter{}, err
	}
	from, err := dateQuery(c, "started_after")
	if err != nil {
		return domain.OrgFilter{}, err
	}
	to, err := dateQuery(c, "started_before")
	if err != nil {
		return domain.OrgFilter{}, err
	}
	return domain.OrgFilter{
		NameContains:     c.QueryParam("q"),
		LocationContains: c.QueryParam("location"),
		Active:           active,
		CompanyID:        c.QueryParam("company_id"),
		StartedFrom:      from,
		StartedTo:        to,
	}, nil
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return parseDate(name, raw)
}
