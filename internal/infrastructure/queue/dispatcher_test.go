package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	events  []domain.AuditEvent
	started chan struct{}
	gate    chan struct{}
	err     error
}

func (r *recordingRepo) Insert(ctx context.Context, e *domain.AuditEvent) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestAuditDispatcher_PersistsEverything(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(3, 64, repo, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 30; i++ {
		d.Record(domain.AuditEvent{
			Action:   domain.AuditLoginFailure,
			Username: fmt.Sprintf("user-%d", i%5),
			Reason:   fmt.Sprintf("%d", i),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	events := repo.snapshot()
	assert.Len(t, events, 30)
	assert.Zero(t, d.Dropped())
	for _, e := range events {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.OccurredAt.IsZero())
	}
}

func TestAuditDispatcher_PerUserOrdering(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(4, 128, repo, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditLoginFailure, Username: "alice", Reason: fmt.Sprintf("%02d", i)})
		d.Record(domain.AuditEvent{Action: domain.AuditLoginFailure, Username: "bob", Reason: fmt.Sprintf("%02d", i)})
	}
	require.NoError(t, d.Shutdown(context.Background()))

	seen := map[string][]string{}
	for _, e := range repo.snapshot() {
		seen[e.Username] = append(seen[e.Username], e.Reason)
	}
	for _, user := range []string{"alice", "bob"} {
		require.Len(t, seen[user], 50)
		for i, reason := range seen[user] {
			assert.Equal(t, fmt.Sprintf("%02d", i), reason, "user %s", user)
		}
	}
}

func TestAuditDispatcher_DropsWhenQueueFull(t *testing.T) {
	repo := &recordingRepo{started: make(chan struct{}, 4), gate: make(chan struct{})}
	d := NewAuditDispatcher(1, 1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEvent{Action: domain.AuditRegister, Username: "a"})
	<-repo.started // worker is now blocked inside Insert

	d.Record(domain.AuditEvent{Action: domain.AuditRegister, Username: "b"})
	d.Record(domain.AuditEvent{Action: domain.AuditRegister, Username: "c"})
	assert.Equal(t, uint64(1), d.Dropped())

	close(repo.gate)
	require.NoError(t, d.Shutdown(context.Background()))

	var names []string
	for _, e := range repo.snapshot() {
		names = append(names, e.Username)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestAuditDispatcher_RecordAfterShutdown(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(1, 4, repo, zerolog.Nop())
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		d.Record(domain.AuditEvent{Action: domain.AuditLoginSuccess, Username: "late"})
	})
	assert.Equal(t, uint64(1), d.Dropped())
	assert.ErrorIs(t, d.Shutdown(context.Background()), ErrClosed)
	assert.Empty(t, repo.snapshot())
}

func TestAuditDispatcher_DrainsAfterStartContextCancelled(t *testing.T) {
	repo := &recordingRepo{started: make(chan struct{}, 16), gate: make(chan struct{})}
	d := NewAuditDispatcher(2, 16, repo, zerolog.Nop())

	startCtx, cancelStart := context.WithCancel(context.Background())
	d.Start(startCtx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditLoginFailure, Username: "dave", Reason: fmt.Sprintf("%02d", i)})
	}
	<-repo.started
	cancelStart()
	close(repo.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.Len(t, repo.snapshot(), 10)
	assert.Zero(t, d.Dropped())
}

func TestAuditDispatcher_ShutdownDeadlineCountsAbandoned(t *testing.T) {
	repo := &recordingRepo{started: make(chan struct{}, 16), gate: make(chan struct{})}
	d := NewAuditDispatcher(1, 16, repo, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditLoginFailure, Username: "erin"})
	}
	<-repo.started // first write is stuck behind the gate

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := d.Shutdown(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Empty(t, repo.snapshot())
	assert.Equal(t, uint64(9), d.Dropped())
}

func TestAuditDispatcher_WriteErrorsDoNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, 8, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEvent{Action: domain.AuditLoginSuccess, Username: "x"})
	d.Record(domain.AuditEvent{Action: domain.AuditLoginSuccess, Username: "x"})
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Len(t, repo.snapshot(), 2)
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewAuditDispatcher(8, 1, &recordingRepo{}, zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("alice"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}
