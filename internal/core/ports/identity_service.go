package ports

import (
	"context"
	"time"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// RegisterInput is self-service registration. The role is always user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// CreateIdentityInput is the admin path, which may pick the role.
type CreateIdentityInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

// UpdateIdentityInput carries the fields a profile update may change.
// Nil fields are left as they are.
type UpdateIdentityInput struct {
	Email *string
	Role  *string
}

// LoginInput carries credentials plus the caller address for the audit trail.
type LoginInput struct {
	Username   string
	Password   string
	RemoteAddr string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
}

type IdentityService interface {
	Create(ctx context.Context, actor domain.Principal, in CreateIdentityInput) (*domain.Identity, error)
	Get(ctx context.Context, username string) (*domain.Identity, error)
	List(ctx context.Context, active *bool) ([]domain.Identity, error)
	Update(ctx context.Context, username string, in UpdateIdentityInput) (*domain.Identity, error)
	Deactivate(ctx context.Context, actor domain.Principal, username string) error
	Activate(ctx context.Context, actor domain.Principal, username string) error
	Stats(ctx context.Context) (domain.IdentityStats, error)
}
