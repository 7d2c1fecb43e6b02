// Package postgres provides the PostgreSQL identity store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skroflin/workforce-api/pkg/logger"
)

// Config contains PostgreSQL connection configuration.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int
}

// Connect opens a connection pool and retries the initial ping with
// exponential backoff.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	log := logger.FromContext(ctx)

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			log.Info().Int("attempts", attempt).Msg("connected to postgres")
			return db, nil
		}

		if attempt < attempts {
			backoff := calcBackoff(attempt)
			log.Warn().Err(lastErr).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("backoff", backoff).
				Msg("failed to ping postgres, retrying")
			if !sleep(ctx, backoff) {
				_ = db.Close()
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", attempts, lastErr)
}

// calcBackoff returns exponential backoff capped at 16 seconds.
func calcBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<(attempt-1)) * time.Second
	if backoff > 16*time.Second {
		backoff = 16 * time.Second
	}
	return backoff
}

// sleep waits for d or ctx cancellation. Returns false if cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
