package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Invalid invoice ID", ErrInvalidInvoiceID, CodeInvalidInvoiceID},
		{"Invalid identity", ErrInvalidIdentity, CodeInvalidIdentity},
		{"Invalid presence status", ErrInvalidPresenceStatus, CodeInvalidPresenceStatus},
		{"Takeover reason required", ErrTakeoverReasonRequired, CodeTakeoverReasonRequired},
		{"Insufficient role", ErrInsufficientRole, CodeInsufficientRole},
		{"Lock conflict", ErrLockConflict, CodeLockConflict},
		{"Not lock holder", ErrNotLockHolder, CodeNotLockHolder},
		{"Internal server", ErrInternalServer, CodeInternalServer},
		{"Unknown error", errors.New("something else"), CodeInternalServer},
		{"Wrapped sentinel", fmt.Errorf("%w: invoice INV-001", ErrNotLockHolder), CodeNotLockHolder},
		{"Rich conflict error", NewLockConflictError("INV-001", "user-1", "user-2", "user2@example.com"), CodeLockConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestLockConflictError(t *testing.T) {
	err := NewLockConflictError("INV-001", "user-1", "user-2", "user2@example.com")

	t.Run("Matches the sentinel", func(t *testing.T) {
		assert.True(t, errors.Is(err, ErrLockConflict))
		assert.True(t, IsLockConflictError(err))
	})

	t.Run("Message names the holder", func(t *testing.T) {
		assert.Contains(t, err.Error(), "INV-001")
		assert.Contains(t, err.Error(), "user2@example.com")
	})

	t.Run("Log fields carry the full context", func(t *testing.T) {
		var conflictErr *LockConflictError
		assert.True(t, errors.As(err, &conflictErr))

		fields := conflictErr.LogFields()
		assert.Equal(t, "INV-001", fields["invoice_id"])
		assert.Equal(t, "user-1", fields["requested_by"])
		assert.Equal(t, "user-2", fields["holder_id"])
		assert.Equal(t, CodeLockConflict, fields["error_code"])
	})
}

func TestTakeoverError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewTakeoverError("INV-001", "admin-1", "urgent fix", underlying)

	t.Run("Unwraps to the underlying error", func(t *testing.T) {
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("Log fields carry the takeover context", func(t *testing.T) {
		var takeoverErr *TakeoverError
		assert.True(t, errors.As(err, &takeoverErr))

		fields := takeoverErr.LogFields()
		assert.Equal(t, "INV-001", fields["invoice_id"])
		assert.Equal(t, "admin-1", fields["actor_id"])
		assert.Equal(t, "urgent fix", fields["reason"])
	})
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidInvoiceID))
	assert.True(t, IsValidationError(ErrInvalidIdentity))
	assert.True(t, IsValidationError(ErrInvalidPresenceStatus))
	assert.True(t, IsValidationError(ErrTakeoverReasonRequired))

	assert.False(t, IsValidationError(ErrLockConflict))
	assert.False(t, IsValidationError(ErrInsufficientRole))
	assert.False(t, IsValidationError(errors.New("other")))
}

func TestIsNotLockHolderError(t *testing.T) {
	assert.True(t, IsNotLockHolderError(ErrNotLockHolder))
	assert.True(t, IsNotLockHolderError(fmt.Errorf("%w: invoice INV-001", ErrNotLockHolder)))
	assert.False(t, IsNotLockHolderError(ErrLockConflict))
}
