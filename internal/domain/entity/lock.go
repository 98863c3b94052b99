package entity

import (
	"time"

	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// Lock represents the authoritative edit claim one user holds on one invoice.
// At most one row exists per invoice; a row older than the staleness
// threshold must be treated as absent by every reader.
type Lock struct {
	InvoiceID      string    `json:"invoice_id"`
	LockedByUserID string    `json:"locked_by_user_id"`
	LockedByEmail  string    `json:"locked_by_email"`
	LockedAt       time.Time `json:"locked_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLock creates a lock claim for the given invoice and holder
func NewLock(invoiceID string, holder Identity, timeProvider coreport.TimeProvider) (*Lock, error) {
	if invoiceID == "" {
		return nil, errs.ErrInvalidInvoiceID
	}
	if err := holder.Validate(); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Lock{
		InvoiceID:      invoiceID,
		LockedByUserID: holder.UserID,
		LockedByEmail:  holder.Email,
		LockedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsStale reports whether the lock is older than the staleness threshold at
// the given instant. Release-on-unload from browsers is best-effort, so every
// reader applies this check instead of trusting the row's existence.
func (l *Lock) IsStale(threshold time.Duration, now time.Time) bool {
	return now.Sub(l.LockedAt) > threshold
}

// HeldBy reports whether the lock belongs to the given user
func (l *Lock) HeldBy(userID string) bool {
	return l.LockedByUserID == userID
}

// Refresh bumps the lock timestamp for the current holder
func (l *Lock) Refresh(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	l.LockedAt = now
	l.UpdatedAt = now
}
