package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/api/middleware"
	"github.com/skroflin/workforce-api/internal/core/domain"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asAdmin(c echo.Context) echo.Context {
	middleware.SetPrincipal(c, domain.Principal{Username: "root", Role: domain.RoleAdmin})
	return c
}
