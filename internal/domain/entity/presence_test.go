package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coremocks "github.com/summitaiAU/invoice-lockd/mocks/port/core"
)

func TestPresenceStatusValidate(t *testing.T) {
	t.Run("Allowed statuses", func(t *testing.T) {
		for _, status := range []PresenceStatus{StatusViewing, StatusEditing, StatusIdle} {
			assert.NoError(t, status.Validate())
		}
	})

	t.Run("Rejected statuses", func(t *testing.T) {
		for _, status := range []PresenceStatus{"", "away", "EDITING", "typing"} {
			err := status.Validate()
			assert.Error(t, err)
			assert.Equal(t, errs.ErrInvalidPresenceStatus, err)
		}
	})
}

func TestNewPresenceEntry(t *testing.T) {
	fixedTime := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Once()

	user := Identity{UserID: "user-1", Email: "user1@example.com"}
	entry := NewPresenceEntry(user, mockTime)

	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "user1@example.com", entry.UserEmail)
	assert.Equal(t, StatusIdle, entry.Status)
	assert.Empty(t, entry.CurrentInvoiceID)
	assert.Equal(t, fixedTime, entry.LastActivity)
}

func TestPresenceEntrySameClaim(t *testing.T) {
	base := PresenceEntry{
		UserID:           "user-1",
		CurrentInvoiceID: "INV-001",
		Status:           StatusEditing,
	}

	t.Run("Same invoice and status match", func(t *testing.T) {
		other := PresenceEntry{
			UserID:           "user-1",
			CurrentInvoiceID: "INV-001",
			Status:           StatusEditing,
			LastActivity:     time.Now(),
		}
		assert.True(t, base.SameClaim(other))
	})

	t.Run("Different status does not match", func(t *testing.T) {
		other := base
		other.Status = StatusViewing
		assert.False(t, base.SameClaim(other))
	})

	t.Run("Different invoice does not match", func(t *testing.T) {
		other := base
		other.CurrentInvoiceID = "INV-002"
		assert.False(t, base.SameClaim(other))
	})
}

func TestPresenceEntryOnInvoice(t *testing.T) {
	entry := PresenceEntry{
		UserID:           "user-1",
		CurrentInvoiceID: "INV-001",
		Status:           StatusViewing,
	}

	assert.True(t, entry.OnInvoice("INV-001"))
	assert.False(t, entry.OnInvoice("INV-002"))

	// An idle entry with no invoice never matches, not even an empty query
	idle := PresenceEntry{UserID: "user-2", Status: StatusIdle}
	assert.False(t, idle.OnInvoice(""))
	assert.False(t, idle.OnInvoice("INV-001"))
}
