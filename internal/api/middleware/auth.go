package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/api/metrics"
	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

const principalKey = "principal"

// TokenValidator is the part of the token authority the middleware needs.
type TokenValidator interface {
	ValidateAndDecode(ctx context.Context, token string) (domain.Principal, error)
}

// Auth validates the bearer token and injects the resolved principal into
// the context. Every rejection reaches the client as the same 401; the
// reason is only logged, counted and audited.
func Auth(tokens TokenValidator, audit ports.AuditRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				reject(c, audit, log, "missing_header", nil)
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				err := domain.NewAuthError(domain.MalformedToken, errors.New("authorization header is not a bearer token"))
				reject(c, audit, log, domain.MalformedToken.String(), err)
				return err
			}

			principal, err := tokens.ValidateAndDecode(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				kind, ok := domain.AuthErrorKindOf(err)
				if !ok {
					// Store failure rather than a bad token: let it surface as a 500.
					return err
				}
				reject(c, audit, log, kind.String(), err)
				return err
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

func reject(c echo.Context, audit ports.AuditRecorder, log zerolog.Logger, reason string, err error) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()

	log.Warn().
		Err(err).
		Str("reason", reason).
		Str("remote_ip", c.RealIP()).
		Str("path", c.Path()).
		Msg("token rejected")

	if audit != nil && reason != "missing_header" {
		audit.Record(domain.AuditEvent{
			Action:     domain.AuditTokenRejected,
			Reason:     reason,
			RemoteAddr: c.RealIP(),
		})
	}
}

// SetPrincipal stores the authenticated principal on the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal injected by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok && p.Username != ""
}
