package persistence

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// AuditSink accepts structured append-only events. Implementations may write
// to the audit table, publish to a message broker, or fan out to both.
type AuditSink interface {
	// Record appends the event. It must never mutate or delete prior events.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the sink cannot be reached
	Record(ctx context.Context, event *entity.AuditEvent) error
}
