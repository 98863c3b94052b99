package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coremocks "github.com/summitaiAU/invoice-lockd/mocks/port/core"
)

func TestNewTakeoverAuditEvent(t *testing.T) {
	fixedTime := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	actor := Identity{UserID: "admin-1", Email: "accounts@summitplumbing.com.au"}
	dispossessed := &Lock{
		InvoiceID:      "INV-001",
		LockedByUserID: "user-2",
		LockedByEmail:  "user2@example.com",
		LockedAt:       fixedTime.Add(-5 * time.Minute),
	}

	t.Run("Valid takeover event", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)
		mockTime.EXPECT().Now().Return(fixedTime).Once()

		event, err := NewTakeoverAuditEvent("INV-001", actor, dispossessed, "urgent correction before payment run", mockTime)

		require.NoError(t, err)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, EventLockForceTakeover, event.EventType)
		assert.Equal(t, "INV-001", event.InvoiceID)
		assert.Equal(t, "admin-1", event.ActorUserID)
		assert.Equal(t, "accounts@summitplumbing.com.au", event.ActorEmail)
		assert.Equal(t, "user-2", event.PreviousHolderID)
		assert.Equal(t, "user2@example.com", event.PreviousHolderEmail)
		assert.Equal(t, "urgent correction before payment run", event.Reason)
		assert.Equal(t, fixedTime, event.OccurredAt)
	})

	t.Run("Empty reason should return error", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)

		event, err := NewTakeoverAuditEvent("INV-001", actor, dispossessed, "", mockTime)

		assert.Error(t, err)
		assert.Equal(t, errs.ErrTakeoverReasonRequired, err)
		assert.Nil(t, event)
	})

	t.Run("Takeover of an already absent lock leaves holder fields empty", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)
		mockTime.EXPECT().Now().Return(fixedTime).Once()

		event, err := NewTakeoverAuditEvent("INV-001", actor, nil, "holder left for the day", mockTime)

		require.NoError(t, err)
		assert.Empty(t, event.PreviousHolderID)
		assert.Empty(t, event.PreviousHolderEmail)
	})

	t.Run("Event IDs are unique", func(t *testing.T) {
		mockTime := coremocks.NewMockTimeProvider(t)
		mockTime.EXPECT().Now().Return(fixedTime).Times(2)

		first, err := NewTakeoverAuditEvent("INV-001", actor, nil, "reason", mockTime)
		require.NoError(t, err)
		second, err := NewTakeoverAuditEvent("INV-001", actor, nil, "reason", mockTime)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})
}
