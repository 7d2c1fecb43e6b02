package ports

import (
	"context"
	"time"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// IdentityRepository persists identities. Usernames and emails are unique;
// Create and Update return domain.ErrUserExists on a clash. Lookups return
// domain.ErrUserNotFound when nothing matches.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindActiveByUsername(ctx context.Context, username string) (*domain.Identity, error)
	List(ctx context.Context, active *bool) ([]domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	SetActive(ctx context.Context, username string, active bool, at time.Time) error
	Stats(ctx context.Context) (domain.IdentityStats, error)
}
