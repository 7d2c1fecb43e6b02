package ports

import (
	"context"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// AuditRepository stores audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder hands events off for asynchronous persistence. Record must
// not block the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
