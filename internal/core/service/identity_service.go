package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

// IdentityService is the admin surface over identities. Route guards
// enforce who may call it.
type IdentityService struct {
	repo  ports.IdentityRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
	now   func() time.Time
}

func NewIdentityService(repo ports.IdentityRepository, audit ports.AuditRecorder, log zerolog.Logger) *IdentityService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &IdentityService{repo: repo, audit: audit, log: log, now: time.Now}
}

// Create adds an identity with an explicit role.
func (s *IdentityService) Create(ctx context.Context, actor domain.Principal, in ports.CreateIdentityInput) (*domain.Identity, error) {
	role := domain.RoleUser
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("unknown role %q: %w", in.Role, domain.ErrInvalidInput)
		}
		role = r
	}

	created, err := createIdentity(ctx, s.repo, s.now, in.Username, in.Password, in.Email, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(role)).Str("actor", actor.Username).Msg("identity created")
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditRegister,
		Username:   created.Username,
		Actor:      actor.Username,
		OccurredAt: s.now().UTC(),
	})
	return created, nil
}

func (s *IdentityService) Get(ctx context.Context, username string) (*domain.Identity, error) {
	return s.repo.FindByUsername(ctx, normalizeUsername(username))
}

func (s *IdentityService) List(ctx context.Context, active *bool) ([]domain.Identity, error) {
	return s.repo.List(ctx, active)
}

// Update changes email and/or role.
func (s *IdentityService) Update(ctx context.Context, username string, in ports.UpdateIdentityInput) (*domain.Identity, error) {
	current, err := s.repo.FindByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("email must not be empty: %w", domain.ErrInvalidInput)
		}
		current.Email = email
	}
	if in.Role != nil {
		role, ok := domain.ParseRole(*in.Role)
		if !ok {
			return nil, fmt.Errorf("unknown role %q: %w", *in.Role, domain.ErrInvalidInput)
		}
		current.Role = role
	}
	current.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, current)
}

// Deactivate is the logical delete. Tokens already issued for the identity
// stop validating on their next use.
func (s *IdentityService) Deactivate(ctx context.Context, actor domain.Principal, username string) error {
	username = normalizeUsername(username)
	if username == actor.Username {
		return fmt.Errorf("cannot deactivate own account: %w", domain.ErrInvalidInput)
	}
	return s.setActive(ctx, actor, username, false)
}

func (s *IdentityService) Activate(ctx context.Context, actor domain.Principal, username string) error {
	return s.setActive(ctx, actor, normalizeUsername(username), true)
}

func (s *IdentityService) setActive(ctx context.Context, actor domain.Principal, username string, active bool) error {
	at := s.now().UTC()
	if err := s.repo.SetActive(ctx, username, active, at); err != nil {
		return err
	}

	action := domain.AuditDeactivated
	if active {
		action = domain.AuditActivated
	}
	s.log.Info().Str("username", username).Str("actor", actor.Username).Bool("active", active).Msg("identity status changed")
	s.audit.Record(domain.AuditEvent{
		Action:     action,
		Username:   username,
		Actor:      actor.Username,
		OccurredAt: at,
	})
	return nil
}

func (s *IdentityService) Stats(ctx context.Context) (domain.IdentityStats, error) {
	return s.repo.Stats(ctx)
}
