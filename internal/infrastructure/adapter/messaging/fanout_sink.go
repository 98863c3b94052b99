package messaging

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/persistence"
)

// FanoutSink records audit events to a primary sink (the audit table) and
// best-effort mirrors them to secondary sinks (the broker). The primary's
// error is the caller's error; secondary failures only produce log lines, so
// a down broker never blocks a takeover's audit trail.
type FanoutSink struct {
	primary   persistence.AuditSink
	secondary []persistence.AuditSink
	logger    coreport.Logger
}

// NewFanoutSink creates a fanout over the primary and secondary sinks
func NewFanoutSink(primary persistence.AuditSink, logger coreport.Logger, secondary ...persistence.AuditSink) *FanoutSink {
	return &FanoutSink{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Record appends the event to every sink
func (s *FanoutSink) Record(ctx context.Context, event *entity.AuditEvent) error {
	err := s.primary.Record(ctx, event)

	for _, sink := range s.secondary {
		if mirrorErr := sink.Record(ctx, event); mirrorErr != nil {
			s.logger.Warn("Secondary audit sink failed", map[string]any{
				"event_id": event.ID,
				"error":    mirrorErr.Error(),
			})
		}
	}

	return err
}
