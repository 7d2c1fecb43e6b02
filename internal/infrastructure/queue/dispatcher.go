package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skroflin/workforce-api/internal/api/metrics"
	"github.com/skroflin/workforce-api/internal/core/domain"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// ErrClosed is returned by Shutdown when called twice.
var ErrClosed = errors.New("dispatcher already closed")

// AuditDispatcher persists audit events off the request path. Events for the
// same username always land on the same worker, so they are written in the
// order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	now     func() time.Time

	// workCtx outlives the context passed to Start. Only Shutdown cancels it.
	workCtx context.Context
	stop    context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers,
// each with a queue of bufferSize events. Non-positive values fall back to
// the defaults.
func NewAuditDispatcher(numWorkers, bufferSize int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
		now:     time.Now,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx does not stop them:
// workers keep draining until Shutdown closes their queues.
func (d *AuditDispatcher) Start(ctx context.Context) {
	d.workCtx, d.stop = context.WithCancel(context.WithoutCancel(ctx))
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record queues an event without blocking. When the worker queue is full the
// event is dropped and counted.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = d.now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action)).Inc()
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(event, "queue full")
	}
}

// Dropped returns how many events were discarded so far.
func (d *AuditDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Shutdown stops accepting events and waits for queued ones to be written.
// If ctx ends first, in-flight writes are cancelled, whatever is still queued
// is counted as dropped, and ctx.Err() is returned.
func (d *AuditDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancelWork()
		return nil
	case <-ctx.Done():
		d.cancelWork()
		<-done
		return ctx.Err()
	}
}

func (d *AuditDispatcher) cancelWork() {
	if d.stop != nil {
		d.stop()
	}
}

func (d *AuditDispatcher) drop(event domain.AuditEvent, reason string) {
	d.dropped.Add(1)
	metrics.AuditDroppedTotal.WithLabelValues(string(event.Action)).Inc()
	d.log.Warn().
		Str("action", string(event.Action)).
		Str("username", event.Username).
		Str("reason", reason).
		Msg("audit event dropped")
}

// shardIndex maps a username deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for event := range ch {
		depth.Dec()
		if d.workCtx.Err() != nil {
			d.drop(event, "shutdown deadline exceeded")
			continue
		}
		d.write(d.workCtx, id, event)
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err := d.repo.Insert(ctx, &event)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Str("username", event.Username).
			Int("worker_id", id).
			Msg("audit write failed")
	}
	metrics.AuditWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
