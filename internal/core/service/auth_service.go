package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

// TokenIssuer signs a session token for an active identity.
type TokenIssuer interface {
	IssueToken(identity *domain.Identity) (string, time.Time, error)
}

// LoginThrottle counts failed logins per username (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) (int64, error)
	Reset(ctx context.Context, username string) error
}

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.IdentityRepository
	tokens   TokenIssuer
	throttle LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the service. throttle and audit may be nil.
func NewAuthService(
	repo ports.IdentityRepository,
	tokens TokenIssuer,
	throttle LoginThrottle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an active identity with the user role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	created, err := createIdentity(ctx, s.repo, s.now, in.Username, in.Password, in.Email, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("identity registered")
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditRegister,
		Username:   created.Username,
		Actor:      created.Username,
		OccurredAt: s.now().UTC(),
	})
	return created, nil
}

// Login verifies credentials for an active identity and issues a token.
// Unknown users, inactive users and wrong passwords all return
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	username := normalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, continuing")
		} else if blocked {
			s.recordFailure(ctx, username, in.RemoteAddr, "throttled", false)
			return ports.LoginResult{}, domain.ErrThrottled
		}
	}

	identity, err := s.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username, in.RemoteAddr, "unknown_or_inactive", true)
			return ports.LoginResult{}, domain.ErrInvalidCredentials
		}
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(ctx, username, in.RemoteAddr, "bad_password", true)
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueToken(identity)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
		}
	}
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLoginSuccess,
		Username:   username,
		Actor:      username,
		RemoteAddr: in.RemoteAddr,
		OccurredAt: s.now().UTC(),
	})

	return ports.LoginResult{Token: token, ExpiresAt: expiresAt, Identity: identity}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username, remoteAddr, reason string, count bool) {
	if count && s.throttle != nil {
		if _, err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		}
	}
	s.log.Info().Str("username", username).Str("reason", reason).Msg("login rejected")
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLoginFailure,
		Username:   username,
		Reason:     reason,
		RemoteAddr: remoteAddr,
		OccurredAt: s.now().UTC(),
	})
}

// createIdentity is shared by self-registration and the admin create path.
func createIdentity(
	ctx context.Context,
	repo ports.IdentityRepository,
	now func() time.Time,
	username, password, email string,
	role domain.Role,
) (*domain.Identity, error) {
	username = normalizeUsername(username)
	email = normalizeEmail(email)
	if username == "" || password == "" || email == "" {
		return nil, fmt.Errorf("username, password and email are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ts := now().UTC()
	return repo.Create(ctx, &domain.Identity{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		Role:         role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
}

// normalizeUsername case-folds so "Alice" and "alice" are one account.
func normalizeUsername(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func normalizeEmail(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

type discardAudit struct{}

func (discardAudit) Record(domain.AuditEvent) {}
