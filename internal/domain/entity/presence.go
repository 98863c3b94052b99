package entity

import (
	"time"

	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// PresenceStatus describes what a user is doing with an invoice
type PresenceStatus string

const (
	// StatusViewing means the user has the invoice open read-only
	StatusViewing PresenceStatus = "viewing"
	// StatusEditing means the user has an active edit session
	StatusEditing PresenceStatus = "editing"
	// StatusIdle means the user is connected but not on any invoice
	StatusIdle PresenceStatus = "idle"
)

// Validate checks the status is one of the allowed values
func (s PresenceStatus) Validate() error {
	switch s {
	case StatusViewing, StatusEditing, StatusIdle:
		return nil
	default:
		return errs.ErrInvalidPresenceStatus
	}
}

// PresenceEntry is one user's ephemeral roster record. It is never persisted
// to the relational store: the realtime channel owns its lifetime and the
// entry disappears when the underlying connection drops.
//
// An editing entry is only a signal that a Lock is expected to exist for the
// same user; the two are eventually consistent, not transactionally linked.
type PresenceEntry struct {
	UserID           string         `json:"user_id"`
	UserEmail        string         `json:"user_email"`
	CurrentInvoiceID string         `json:"current_invoice_id,omitempty"`
	Status           PresenceStatus `json:"status"`
	LastActivity     time.Time      `json:"last_activity"`
}

// NewPresenceEntry creates the initial idle entry announced on channel join
func NewPresenceEntry(user Identity, timeProvider coreport.TimeProvider) PresenceEntry {
	return PresenceEntry{
		UserID:       user.UserID,
		UserEmail:    user.Email,
		Status:       StatusIdle,
		LastActivity: timeProvider.Now(),
	}
}

// SameClaim reports whether two entries announce the same invoice and status.
// Used to skip redundant re-announcements.
func (e PresenceEntry) SameClaim(other PresenceEntry) bool {
	return e.CurrentInvoiceID == other.CurrentInvoiceID && e.Status == other.Status
}

// OnInvoice reports whether the entry points at the given invoice
func (e PresenceEntry) OnInvoice(invoiceID string) bool {
	return e.CurrentInvoiceID != "" && e.CurrentInvoiceID == invoiceID
}

// PresenceEventKind identifies a presence channel event
type PresenceEventKind string

const (
	// PresenceJoin means a user subscribed to the shared channel
	PresenceJoin PresenceEventKind = "join"
	// PresenceUpdate means a user re-announced their entry
	PresenceUpdate PresenceEventKind = "update"
	// PresenceLeave means a user's entry expired or was withdrawn
	PresenceLeave PresenceEventKind = "leave"
	// PresenceSync carries the full roster for reconciliation
	PresenceSync PresenceEventKind = "sync"
)

// PresenceEvent is the wire payload on the shared presence channel
type PresenceEvent struct {
	Kind   PresenceEventKind `json:"kind"`
	Entry  *PresenceEntry    `json:"entry,omitempty"`
	Roster []PresenceEntry   `json:"roster,omitempty"`
}
