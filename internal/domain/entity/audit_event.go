package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// Audit event types recorded by the lock manager
const (
	// EventLockForceTakeover is recorded when a privileged user dispossesses
	// the current lock holder
	EventLockForceTakeover = "lock.force_takeover"
)

// AuditEvent is an append-only record of a privileged action. Takeovers are
// the only lock operation that must leave a trace: acquiring over a stale
// lock is an ordinary acquire and is deliberately not audited.
type AuditEvent struct {
	ID                  string    `json:"id"`
	EventType           string    `json:"event_type"`
	InvoiceID           string    `json:"invoice_id"`
	ActorUserID         string    `json:"actor_user_id"`
	ActorEmail          string    `json:"actor_email"`
	PreviousHolderID    string    `json:"previous_holder_id,omitempty"`
	PreviousHolderEmail string    `json:"previous_holder_email,omitempty"`
	Reason              string    `json:"reason"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// NewTakeoverAuditEvent builds the audit record for a forced takeover. The
// reason is mandatory: an empty reason is a validation error, never silently
// accepted.
func NewTakeoverAuditEvent(invoiceID string, actor Identity, dispossessed *Lock, reason string, timeProvider coreport.TimeProvider) (*AuditEvent, error) {
	if reason == "" {
		return nil, errs.ErrTakeoverReasonRequired
	}

	event := &AuditEvent{
		ID:          uuid.NewString(),
		EventType:   EventLockForceTakeover,
		InvoiceID:   invoiceID,
		ActorUserID: actor.UserID,
		ActorEmail:  actor.Email,
		Reason:      reason,
		OccurredAt:  timeProvider.Now(),
	}
	if dispossessed != nil {
		event.PreviousHolderID = dispossessed.LockedByUserID
		event.PreviousHolderEmail = dispossessed.LockedByEmail
	}
	return event, nil
}
