package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/skroflin/workforce-api/internal/api/middleware"
	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

type stubIdentityService struct {
	createFn     func(ctx context.Context, actor domain.Principal, in ports.CreateIdentityInput) (*domain.Identity, error)
	getFn        func(ctx context.Context, username string) (*domain.Identity, error)
	listFn       func(ctx context.Context, active *bool) ([]domain.Identity, error)
	updateFn     func(ctx context.Context, username string, in ports.UpdateIdentityInput) (*domain.Identity, error)
	deactivateFn func(ctx context.Context, actor domain.Principal, username string) error
	activateFn   func(ctx context.Context, actor domain.Principal, username string) error
	statsFn      func(ctx context.Context) (domain.IdentityStats, error)
}

func (s *stubIdentityService) Create(ctx context.Context, actor domain.Principal, in ports.CreateIdentityInput) (*domain.Identity, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubIdentityService) Get(ctx context.Context, username string) (*domain.Identity, error) {
	return s.getFn(ctx, username)
}

func (s *stubIdentityService) List(ctx context.Context, active *bool) ([]domain.Identity, error) {
	return s.listFn(ctx, active)
}

func (s *stubIdentityService) Update(ctx context.Context, username string, in ports.UpdateIdentityInput) (*domain.Identity, error) {
	return s.updateFn(ctx, username, in)
}

func (s *stubIdentityService) Deactivate(ctx context.Context, actor domain.Principal, username string) error {
	return s.deactivateFn(ctx, actor, username)
}

func (s *stubIdentityService) Activate(ctx context.Context, actor domain.Principal, username string) error {
	return s.activateFn(ctx, actor, username)
}

func (s *stubIdentityService) Stats(ctx context.Context) (domain.IdentityStats, error) {
	return s.statsFn(ctx)
}

func TestIdentityHandler_Me(t *testing.T) {
	stub := &stubIdentityService{
		getFn: func(ctx context.Context, username string) (*domain.Identity, error) {
			if username != "bob" {
				t.Fatalf("expected caller's own username, got %q", username)
			}
			return &domain.Identity{Username: "bob", Role: domain.RoleUser, Active: true}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/me", "")
	middleware.SetPrincipal(c, domain.Principal{Username: "bob", Role: domain.RoleUser})

	if err := NewIdentityHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdentityHandler_Me_WithoutPrincipal(t *testing.T) {
	stub := &stubIdentityService{}
	c, _ := newContext(http.MethodGet, "/v1/me", "")

	if err := NewIdentityHandler(stub).Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestIdentityHandler_List_ActiveFilter(t *testing.T) {
	cases := []struct {
		query string
		want  *bool
	}{
		{"", nil},
		{"?active=true", boolPtr(true)},
		{"?active=false", boolPtr(false)},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			stub := &stubIdentityService{
				listFn: func(ctx context.Context, active *bool) ([]domain.Identity, error) {
					if (active == nil) != (tc.want == nil) || (active != nil && *active != *tc.want) {
						t.Fatalf("unexpected filter %v", active)
					}
					return []domain.Identity{{Username: "a"}, {Username: "b"}}, nil
				},
			}
			c, rec := newContext(http.MethodGet, "/v1/users"+tc.query, "")

			if err := NewIdentityHandler(stub).List(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			var resp []map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(resp) != 2 {
				t.Fatalf("expected 2 identities, got %d", len(resp))
			}
		})
	}
}

func TestIdentityHandler_List_BadFilter(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/v1/users?active=maybe", "")
	if err := NewIdentityHandler(&stubIdentityService{}).List(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIdentityHandler_Create_PassesRoleAndActor(t *testing.T) {
	stub := &stubIdentityService{
		createFn: func(ctx context.Context, actor domain.Principal, in ports.CreateIdentityInput) (*domain.Identity, error) {
			if actor.Username != "root" {
				t.Fatalf("unexpected actor %+v", actor)
			}
			if in.Role != "ROLE_ADMIN" {
				t.Fatalf("role should reach the service unparsed, got %q", in.Role)
			}
			return &domain.Identity{Username: in.Username, Role: domain.RoleAdmin, Active: true}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/users",
		`{"username":"dave","password":"long-enough","email":"d@example.com","role":"ROLE_ADMIN"}`)

	if err := NewIdentityHandler(stub).Create(asAdmin(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestIdentityHandler_Update(t *testing.T) {
	stub := &stubIdentityService{
		updateFn: func(ctx context.Context, username string, in ports.UpdateIdentityInput) (*domain.Identity, error) {
			if username != "erin" {
				t.Fatalf("unexpected username %q", username)
			}
			if in.Email != nil || in.Role == nil || *in.Role != "admin" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Identity{Username: "erin", Role: domain.RoleAdmin}, nil
		},
	}
	c, rec := newContext(http.MethodPut, "/", `{"role":"admin"}`)
	c.SetParamNames("username")
	c.SetParamValues("erin")

	if err := NewIdentityHandler(stub).Update(asAdmin(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdentityHandler_DeactivateAndActivate(t *testing.T) {
	var calls []string
	stub := &stubIdentityService{
		deactivateFn: func(ctx context.Context, actor domain.Principal, username string) error {
			calls = append(calls, "deactivate:"+actor.Username+":"+username)
			return nil
		},
		activateFn: func(ctx context.Context, actor domain.Principal, username string) error {
			calls = append(calls, "activate:"+actor.Username+":"+username)
			return nil
		},
	}
	h := NewIdentityHandler(stub)

	c, rec := newContext(http.MethodDelete, "/", "")
	c.SetParamNames("username")
	c.SetParamValues("frank")
	if err := h.Deactivate(asAdmin(c)); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodPost, "/", "")
	c.SetParamNames("username")
	c.SetParamValues("frank")
	if err := h.Activate(asAdmin(c)); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if len(calls) != 2 || calls[0] != "deactivate:root:frank" || calls[1] != "activate:root:frank" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestIdentityHandler_Stats(t *testing.T) {
	stub := &stubIdentityService{
		statsFn: func(ctx context.Context) (domain.IdentityStats, error) {
			return domain.IdentityStats{Total: 3, Active: 2, Inactive: 1}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/users/stats", "")

	if err := NewIdentityHandler(stub).Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp identityStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (identityStatsResponse{Total: 3, Active: 2, Inactive: 1}) {
		t.Fatalf("unexpected stats %+v", resp)
	}
}

func boolPtr(b bool) *bool { return &b }
