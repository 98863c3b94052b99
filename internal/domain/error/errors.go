package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidInvoiceID       = 4001
	CodeInvalidIdentity        = 4002
	CodeInvalidPresenceStatus  = 4003
	CodeTakeoverReasonRequired = 4004
	CodeInsufficientRole       = 4030
	CodeLockConflict           = 4090
	CodeNotLockHolder          = 4091

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidInvoiceID is returned when the invoice identifier is empty or malformed
	ErrInvalidInvoiceID = errors.New("invoice ID cannot be empty")

	// ErrInvalidIdentity is returned when the acting user is missing an ID or email
	ErrInvalidIdentity = errors.New("user identity requires both ID and email")

	// ErrInvalidPresenceStatus is returned when the presence status is not viewing, editing or idle
	ErrInvalidPresenceStatus = errors.New("invalid presence status")

	// ErrLockConflict is returned when another user holds a non-stale lock on the invoice
	ErrLockConflict = errors.New("invoice is locked by another user")

	// ErrNotLockHolder is returned when a save-time ownership check finds the
	// caller no longer holds the lock
	ErrNotLockHolder = errors.New("lock is not held by this user")

	// ErrTakeoverReasonRequired is returned when a forced takeover is requested without a reason
	ErrTakeoverReasonRequired = errors.New("takeover reason cannot be empty")

	// ErrInsufficientRole is returned when a non-privileged user requests a forced takeover
	ErrInsufficientRole = errors.New("user role does not permit forced takeover")

	// ErrDatabaseConnection is returned when there's a problem talking to the lock store
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrChannelUnavailable is returned when the realtime channel cannot be reached.
	// Presence callers swallow it; lock watchers fall back to polling.
	ErrChannelUnavailable = errors.New("realtime channel unavailable")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInvoiceID):
		return CodeInvalidInvoiceID
	case errors.Is(err, ErrInvalidIdentity):
		return CodeInvalidIdentity
	case errors.Is(err, ErrInvalidPresenceStatus):
		return CodeInvalidPresenceStatus
	case errors.Is(err, ErrTakeoverReasonRequired):
		return CodeTakeoverReasonRequired
	case errors.Is(err, ErrInsufficientRole):
		return CodeInsufficientRole
	case errors.Is(err, ErrLockConflict):
		return CodeLockConflict
	case errors.Is(err, ErrNotLockHolder):
		return CodeNotLockHolder
	default:
		return CodeInternalServer
	}
}

// LockConflictError carries the conflicting holder's identity so the UI can
// name who currently has the invoice open
type LockConflictError struct {
	InvoiceID   string
	RequestedBy string
	HolderID    string
	HolderEmail string
}

// Error implements the error interface for LockConflictError
func (e *LockConflictError) Error() string {
	return fmt.Sprintf("invoice %s is locked by %s (requested by %s)",
		e.InvoiceID, e.HolderEmail, e.RequestedBy)
}

// Is checks if the target error is an ErrLockConflict
func (e *LockConflictError) Is(target error) bool {
	return target == ErrLockConflict
}

// LogFields returns a map of fields for structured logging
func (e *LockConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "lock_conflict",
		"invoice_id":   e.InvoiceID,
		"requested_by": e.RequestedBy,
		"holder_id":    e.HolderID,
		"holder_email": e.HolderEmail,
		"error_code":   CodeLockConflict,
	}
}

// NewLockConflictError creates a detailed lock conflict error
func NewLockConflictError(invoiceID, requestedBy, holderID, holderEmail string) error {
	return &LockConflictError{
		InvoiceID:   invoiceID,
		RequestedBy: requestedBy,
		HolderID:    holderID,
		HolderEmail: holderEmail,
	}
}

// TakeoverError carries the context of a rejected or failed forced takeover
type TakeoverError struct {
	InvoiceID string
	ActorID   string
	Reason    string
	Err       error
}

// Error implements the error interface for TakeoverError
func (e *TakeoverError) Error() string {
	return fmt.Sprintf("takeover of invoice %s by %s failed: %v", e.InvoiceID, e.ActorID, e.Err)
}

// Unwrap returns the underlying error
func (e *TakeoverError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TakeoverError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "takeover_error",
		"invoice_id": e.InvoiceID,
		"actor_id":   e.ActorID,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewTakeoverError creates a detailed takeover error
func NewTakeoverError(invoiceID, actorID, reason string, err error) error {
	return &TakeoverError{
		InvoiceID: invoiceID,
		ActorID:   actorID,
		Reason:    reason,
		Err:       err,
	}
}

// IsLockConflictError checks if the error is a lock conflict
func IsLockConflictError(err error) bool {
	return errors.Is(err, ErrLockConflict)
}

// IsNotLockHolderError checks if the error is a failed ownership check
func IsNotLockHolderError(err error) bool {
	return errors.Is(err, ErrNotLockHolder)
}

// IsValidationError checks if the error is any client-side validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInvoiceID) ||
		errors.Is(err, ErrInvalidIdentity) ||
		errors.Is(err, ErrInvalidPresenceStatus) ||
		errors.Is(err, ErrTakeoverReasonRequired)
}
