package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

var adminActor = domain.Principal{Username: "root", Role: domain.RoleAdmin}

func seedIdentity(t *testing.T, svc *IdentityService, username, role string) *domain.Identity {
	t.Helper()
	u, err := svc.Create(context.Background(), adminActor, ports.CreateIdentityInput{
		Username: username,
		Password: "pass1234",
		Email:    username + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestIdentityService_Create_NormalizesRole(t *testing.T) {
	svc := NewIdentityService(newStubIdentityRepo(), nil, discardLogger)

	for in, want := range map[string]domain.Role{
		"ROLE_ADMIN": domain.RoleAdmin,
		"Admin":      domain.RoleAdmin,
		"user":       domain.RoleUser,
		"":           domain.RoleUser,
	} {
		u := seedIdentity(t, svc, "u"+string(want)+in, in)
		if u.Role != want {
			t.Fatalf("role %q: expected %s, got %s", in, want, u.Role)
		}
	}
}

func TestIdentityService_Create_UnknownRole(t *testing.T) {
	svc := NewIdentityService(newStubIdentityRepo(), nil, discardLogger)

	_, err := svc.Create(context.Background(), adminActor, ports.CreateIdentityInput{
		Username: "x", Password: "p", Email: "x@example.com", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIdentityService_Update(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewIdentityService(repo, nil, discardLogger)
	seedIdentity(t, svc, "ivy", "user")
	seedIdentity(t, svc, "jack", "user")

	email := "IVY@corp.example"
	role := "ADMIN"
	updated, err := svc.Update(context.Background(), "ivy", ports.UpdateIdentityInput{Email: &email, Role: &role})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "ivy@corp.example" || updated.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity after update: %+v", updated)
	}

	clash := "jack@example.com"
	if _, err := svc.Update(context.Background(), "ivy", ports.UpdateIdentityInput{Email: &clash}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	bad := "owner"
	if _, err := svc.Update(context.Background(), "ivy", ports.UpdateIdentityInput{Role: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := svc.Update(context.Background(), "nobody", ports.UpdateIdentityInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIdentityService_DeactivateAndActivate(t *testing.T) {
	repo := newStubIdentityRepo()
	audit := &recordingAudit{}
	svc := NewIdentityService(repo, audit, discardLogger)
	seedIdentity(t, svc, "kate", "user")

	if err := svc.Deactivate(context.Background(), adminActor, "kate"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.users["kate"].Active {
		t.Fatalf("expected kate to be inactive")
	}
	if _, ok := repo.users["kate"]; !ok {
		t.Fatalf("deactivation must not remove the record")
	}

	stats, _ := svc.Stats(context.Background())
	if stats != (domain.IdentityStats{Total: 1, Active: 0, Inactive: 1}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := svc.Activate(context.Background(), adminActor, "kate"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !repo.users["kate"].Active {
		t.Fatalf("expected kate to be active again")
	}

	actions := audit.actions()
	want := []domain.AuditAction{domain.AuditRegister, domain.AuditDeactivated, domain.AuditActivated}
	if len(actions) != len(want) {
		t.Fatalf("unexpected audit trail: %v", actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("audit[%d]: expected %s, got %s", i, want[i], actions[i])
		}
	}
}

func TestIdentityService_CannotDeactivateSelf(t *testing.T) {
	svc := NewIdentityService(newStubIdentityRepo(), nil, discardLogger)
	seedIdentity(t, svc, "root", "admin")

	if err := svc.Deactivate(context.Background(), adminActor, "ROOT"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIdentityService_ListByStatus(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewIdentityService(repo, nil, discardLogger)
	seedIdentity(t, svc, "liam", "user")
	seedIdentity(t, svc, "mona", "user")
	repo.users["mona"].Active = false

	active := true
	got, err := svc.List(context.Background(), &active)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Username != "liam" {
		t.Fatalf("unexpected active list: %+v", got)
	}

	all, _ := svc.List(context.Background(), nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(all))
	}
}
