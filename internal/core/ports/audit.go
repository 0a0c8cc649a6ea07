package ports

import (
	"context"

	"github.com/carrental/admin-api/internal/core/domain"
)

// AuditSink persists audit events.
type AuditSink interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// Auditor accepts audit events without blocking the caller.
type Auditor interface {
	Record(event domain.AuthEvent)
}
