package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/model"
)

// AuditRepository implements the append-only audit table using GORM
type AuditRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAuditRepository creates a new AuditRepository instance
func NewAuditRepository(db *gorm.DB, logger coreport.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends the event to the audit table. Insert only; there is no
// update or delete path.
func (r *AuditRepository) Record(ctx context.Context, event *entity.AuditEvent) error {
	row := &model.AuditEvent{
		ID:                  event.ID,
		EventType:           event.EventType,
		InvoiceID:           event.InvoiceID,
		ActorUserID:         event.ActorUserID,
		ActorEmail:          event.ActorEmail,
		PreviousHolderID:    event.PreviousHolderID,
		PreviousHolderEmail: event.PreviousHolderEmail,
		Reason:              event.Reason,
		OccurredAt:          event.OccurredAt,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.Error("Database error recording audit event", map[string]any{
			"event_id":   event.ID,
			"event_type": event.EventType,
			"invoice_id": event.InvoiceID,
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	r.logger.Debug("Audit event recorded", map[string]any{
		"event_id":   event.ID,
		"event_type": event.EventType,
		"invoice_id": event.InvoiceID,
	})
	return nil
}
