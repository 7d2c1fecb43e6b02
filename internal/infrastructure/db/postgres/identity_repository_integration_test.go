//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

func startPostgres(t *testing.T) *IdentityRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Connect(ctx, Config{URL: connStr, ConnectAttempts: 3})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run must be a no-op")

	return NewIdentityRepository(db)
}

func TestIdentityRepository_Lifecycle(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	alice, err := repo.Create(ctx, &domain.Identity{
		Username: "alice", Email: "alice@example.com", PasswordHash: "h",
		Active: true, Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)

	_, err = repo.Create(ctx, &domain.Identity{
		Username: "alice", Email: "other@example.com", PasswordHash: "h",
		Active: true, Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = repo.Create(ctx, &domain.Identity{
		Username: "bob", Email: "alice@example.com", PasswordHash: "h",
		Active: true, Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := repo.FindActiveByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, domain.RoleAdmin, found.Role)

	require.NoError(t, repo.SetActive(ctx, "alice", false, now.Add(time.Minute)))
	_, err = repo.FindActiveByUsername(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityStats{Total: 1, Active: 0, Inactive: 1}, stats)

	found.Role = domain.RoleUser
	found.UpdatedAt = now.Add(2 * time.Minute)
	_, err = repo.Update(ctx, found)
	require.NoError(t, err)

	inactive := false
	list, err := repo.List(ctx, &inactive)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleUser, list[0].Role)
}
