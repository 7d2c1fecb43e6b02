package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/api/metrics"
	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/policy"
)

// Require admits the request only when the principal's role may perform op.
// It must run after Auth.
func Require(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if err := policy.Check(p.Role, op); err != nil {
				metrics.PolicyDenialsTotal.WithLabelValues(string(op)).Inc()
				return err
			}
			return next(c)
		}
	}
}
