package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/policy"
)

func newRBACContext(p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		SetPrincipal(c, *p)
	}
	return c, rec
}

func TestRequire_Allows(t *testing.T) {
	c, rec := newRBACContext(&domain.Principal{Username: "alice", Role: domain.RoleAdmin})

	called := false
	handler := Require(policy.Write)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequire_Forbids(t *testing.T) {
	c, _ := newRBACContext(&domain.Principal{Username: "bob", Role: domain.RoleUser})

	handler := Require(policy.DeleteAny)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrPolicyDenied) {
		t.Fatalf("expected ErrPolicyDenied, got %v", err)
	}
}

func TestRequire_UnknownRoleIsDenied(t *testing.T) {
	c, _ := newRBACContext(&domain.Principal{Username: "mallory", Role: domain.Role("superuser")})

	handler := Require(policy.ReadOwn)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrPolicyDenied) {
		t.Fatalf("expected ErrPolicyDenied, got %v", err)
	}
}

func TestRequire_NoPrincipal(t *testing.T) {
	c, _ := newRBACContext(nil)

	handler := Require(policy.Read)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
