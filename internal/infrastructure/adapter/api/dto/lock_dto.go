package dto

import "time"

// LockResponse represents an invoice lock row on the wire
type LockResponse struct {
	InvoiceID      string    `json:"invoiceId"`
	LockedByUserID string    `json:"lockedByUserId"`
	LockedByEmail  string    `json:"lockedByEmail"`
	LockedAt       time.Time `json:"lockedAt"`
}

// LockStateResponse represents the GET lock endpoint payload. Lock is null
// when the invoice is free.
type LockStateResponse struct {
	Locked bool          `json:"locked"`
	Lock   *LockResponse `json:"lock"`
}

// AcquireLockResponse represents the outcome of an acquire or takeover
// attempt. A conflict is a success-false payload, not an error response.
type AcquireLockResponse struct {
	Success bool          `json:"success"`
	Lock    *LockResponse `json:"lock,omitempty"`
	Holder  *LockResponse `json:"holder,omitempty"`
}

// TakeoverRequest represents the API request for a force takeover
type TakeoverRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VerifyOwnershipResponse represents the save-time ownership check result
type VerifyOwnershipResponse struct {
	Owned bool `json:"owned"`
}

// ReleaseLockResponse confirms a release request was processed
type ReleaseLockResponse struct {
	Released bool `json:"released"`
}
