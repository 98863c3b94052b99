package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerrs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	mcore "github.com/summitaiAU/invoice-lockd/mocks/port/core"
	mrt "github.com/summitaiAU/invoice-lockd/mocks/port/realtime"
)

type trackerMocks struct {
	channel      *mrt.MockPresenceChannel
	timeProvider *mcore.MockTimeProvider
	logger       *mcore.MockLogger
}

func newTrackerMocks(now time.Time) *trackerMocks {
	m := &trackerMocks{
		channel:      new(mrt.MockPresenceChannel),
		timeProvider: new(mcore.MockTimeProvider),
		logger:       new(mcore.MockLogger),
	}

	m.timeProvider.On("Now").Return(now).Maybe()

	m.logger.On("Info", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Error", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Debug", mock.Anything, mock.Anything).Maybe()

	return m
}

// tracker builds a tracker with announcements applied synchronously so tests
// can assert on Track calls without sleeping
func (m *trackerMocks) tracker() *Tracker {
	return NewTracker(m.channel, m.timeProvider, m.logger, Config{
		Debounce:           0,
		RosterSyncInterval: time.Minute,
	})
}

func claimMatcher(userID, invoiceID string, status entity.PresenceStatus) interface{} {
	return mock.MatchedBy(func(e entity.PresenceEntry) bool {
		return e.UserID == userID && e.CurrentInvoiceID == invoiceID && e.Status == status
	})
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("announces an idle entry", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", ctx, claimMatcher("user-1", "", entity.StatusIdle)).Return(nil)

		err := m.tracker().Join(ctx, user)

		require.NoError(t, err)
		m.channel.AssertNumberOfCalls(t, "Track", 1)
	})

	t.Run("rejoining with the same identity is a no-op", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", ctx, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Join(ctx, user))
		require.NoError(t, tr.Join(ctx, user))

		m.channel.AssertNumberOfCalls(t, "Track", 1)
	})

	t.Run("a changed email re-announces", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", ctx, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Join(ctx, user))
		require.NoError(t, tr.Join(ctx, entity.Identity{UserID: "user-1", Email: "renamed@example.com"}))

		m.channel.AssertNumberOfCalls(t, "Track", 2)
	})

	t.Run("rejects an incomplete identity", func(t *testing.T) {
		m := newTrackerMocks(now)

		err := m.tracker().Join(ctx, entity.Identity{UserID: "user-1"})

		assert.ErrorIs(t, err, domainerrs.ErrInvalidIdentity)
		m.channel.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("channel failure is swallowed", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", ctx, mock.Anything).Return(domainerrs.ErrChannelUnavailable)

		err := m.tracker().Join(ctx, user)

		assert.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("announces the new claim", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()

		err := tr.Update(ctx, user, "INV-001", entity.StatusViewing)

		require.NoError(t, err)
		// One idle announce from the implicit join, one for the claim
		m.channel.AssertCalled(t, "Track", mock.Anything, claimMatcher("user-1", "INV-001", entity.StatusViewing))
		m.channel.AssertNumberOfCalls(t, "Track", 2)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		m := newTrackerMocks(now)

		err := m.tracker().Update(ctx, user, "INV-001", entity.PresenceStatus("typing"))

		assert.ErrorIs(t, err, domainerrs.ErrInvalidPresenceStatus)
		m.channel.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("an unchanged claim is not re-announced", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))
		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))

		m.channel.AssertNumberOfCalls(t, "Track", 2)
	})

	t.Run("a changed claim is announced", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))
		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusEditing))

		m.channel.AssertCalled(t, "Track", mock.Anything, claimMatcher("user-1", "INV-001", entity.StatusEditing))
		m.channel.AssertNumberOfCalls(t, "Track", 3)
	})

	t.Run("a debounced announce outlives the caller's request context", func(t *testing.T) {
		m := newTrackerMocks(now)
		// Reject announcements on dead contexts the way a real client would
		m.channel.On("Track", mock.Anything, mock.Anything).Return(
			func(callCtx context.Context, _ entity.PresenceEntry) error {
				return callCtx.Err()
			},
		)
		tr := NewTracker(m.channel, m.timeProvider, m.logger, Config{
			Debounce:           20 * time.Millisecond,
			RosterSyncInterval: time.Minute,
		})

		require.NoError(t, tr.Join(ctx, user))

		reqCtx, cancel := context.WithCancel(context.Background())
		require.NoError(t, tr.Update(reqCtx, user, "INV-001", entity.StatusEditing))
		// The request ends before the debounce window elapses
		cancel()

		require.Eventually(t, func() bool {
			return len(m.channel.Calls) >= 2
		}, time.Second, 5*time.Millisecond)

		m.channel.AssertCalled(t, "Track",
			mock.MatchedBy(func(callCtx context.Context) bool { return callCtx.Err() == nil }),
			claimMatcher("user-1", "INV-001", entity.StatusEditing))
	})

	t.Run("a burst of updates collapses to the final claim", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := NewTracker(m.channel, m.timeProvider, m.logger, Config{
			Debounce:           20 * time.Millisecond,
			RosterSyncInterval: time.Minute,
		})

		require.NoError(t, tr.Join(ctx, user))
		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))
		require.NoError(t, tr.Update(ctx, user, "INV-002", entity.StatusViewing))
		require.NoError(t, tr.Update(ctx, user, "INV-003", entity.StatusEditing))

		require.Eventually(t, func() bool {
			return len(m.channel.Calls) >= 2
		}, time.Second, 5*time.Millisecond)

		// The join announce plus exactly one debounced announce with the last claim
		m.channel.AssertNumberOfCalls(t, "Track", 2)
		m.channel.AssertCalled(t, "Track", mock.Anything, claimMatcher("user-1", "INV-003", entity.StatusEditing))
	})
}

func TestSuspendResume(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("suspend announces idle and resume restores the prior claim", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusEditing))

		tr.Suspend(ctx, user)
		m.channel.AssertCalled(t, "Track", ctx, claimMatcher("user-1", "", entity.StatusIdle))
		assert.Empty(t, tr.UsersOnInvoice("INV-001", "someone-else"))

		tr.Resume(ctx, user)
		m.channel.AssertCalled(t, "Track", ctx, claimMatcher("user-1", "INV-001", entity.StatusEditing))
		assert.Len(t, tr.UsersOnInvoice("INV-001", "someone-else"), 1)
	})

	t.Run("suspend without a session is a no-op", func(t *testing.T) {
		m := newTrackerMocks(now)

		m.tracker().Suspend(ctx, user)

		m.channel.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("resume without a prior suspend is a no-op", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))
		tr.Resume(ctx, user)

		// Join announce and the claim announce only
		m.channel.AssertNumberOfCalls(t, "Track", 2)
	})
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("withdraws the entry and drops the session", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		m.channel.On("Untrack", ctx, "user-1").Return(nil)
		tr := m.tracker()

		require.NoError(t, tr.Update(ctx, user, "INV-001", entity.StatusViewing))
		tr.Leave(ctx, user)

		m.channel.AssertCalled(t, "Untrack", ctx, "user-1")
		assert.Empty(t, tr.UsersOnInvoice("INV-001", "someone-else"))
	})

	t.Run("leaving without a session is a no-op", func(t *testing.T) {
		m := newTrackerMocks(now)

		m.tracker().Leave(ctx, user)

		m.channel.AssertNotCalled(t, "Untrack", mock.Anything, mock.Anything)
	})

	t.Run("withdraw failure is swallowed", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Track", ctx, mock.Anything).Return(nil)
		m.channel.On("Untrack", ctx, "user-1").Return(domainerrs.ErrChannelUnavailable)
		tr := m.tracker()

		require.NoError(t, tr.Join(ctx, user))
		tr.Leave(ctx, user)

		assert.Empty(t, tr.UsersOnInvoice("INV-001", "someone-else"))
	})
}

func TestRosterQueries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := entity.Identity{UserID: "user-1", Email: "alice@example.com"}
	bob := entity.Identity{UserID: "user-2", Email: "bob@example.com"}
	carol := entity.Identity{UserID: "user-3", Email: "carol@example.com"}

	seed := func(t *testing.T) (*trackerMocks, *Tracker) {
		t.Helper()
		m := newTrackerMocks(now)
		m.channel.On("Track", mock.Anything, mock.Anything).Return(nil)
		tr := m.tracker()
		require.NoError(t, tr.Update(ctx, alice, "INV-001", entity.StatusViewing))
		require.NoError(t, tr.Update(ctx, bob, "INV-001", entity.StatusEditing))
		require.NoError(t, tr.Join(ctx, carol))
		return m, tr
	}

	t.Run("excludes the asking user and idle sessions", func(t *testing.T) {
		_, tr := seed(t)

		entries := tr.UsersOnInvoice("INV-001", "user-1")

		require.Len(t, entries, 1)
		assert.Equal(t, "user-2", entries[0].UserID)
	})

	t.Run("reports no users for an untouched invoice", func(t *testing.T) {
		_, tr := seed(t)

		assert.Empty(t, tr.UsersOnInvoice("INV-999", "user-1"))
	})

	t.Run("being edited reflects other editors only", func(t *testing.T) {
		_, tr := seed(t)

		assert.True(t, tr.IsInvoiceBeingEdited("INV-001", "user-1"))
		assert.False(t, tr.IsInvoiceBeingEdited("INV-001", "user-2"))
	})

	t.Run("being edited clears when the editor moves away", func(t *testing.T) {
		_, tr := seed(t)

		require.NoError(t, tr.Update(ctx, bob, "INV-002", entity.StatusViewing))

		assert.False(t, tr.IsInvoiceBeingEdited("INV-001", "user-1"))
	})
}

func TestTrackerEventStream(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	remote := entity.PresenceEntry{
		UserID:           "remote-1",
		UserEmail:        "remote1@example.com",
		CurrentInvoiceID: "INV-001",
		Status:           entity.StatusEditing,
		LastActivity:     now,
	}

	t.Run("seeds the roster and applies channel events", func(t *testing.T) {
		m := newTrackerMocks(now)
		events := make(chan entity.PresenceEvent, 4)
		m.channel.On("Subscribe", mock.Anything).Return((<-chan entity.PresenceEvent)(events), func() {}, nil)
		m.channel.On("Roster", mock.Anything).Return([]entity.PresenceEntry{remote}, nil)

		tr := m.tracker()
		tr.Start(ctx)
		defer tr.Close()

		require.Eventually(t, func() bool {
			return tr.IsInvoiceBeingEdited("INV-001", "someone-else")
		}, time.Second, 5*time.Millisecond)

		gone := remote
		events <- entity.PresenceEvent{Kind: entity.PresenceLeave, Entry: &gone}

		require.Eventually(t, func() bool {
			return !tr.IsInvoiceBeingEdited("INV-001", "someone-else")
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("a sync event replaces the roster wholesale", func(t *testing.T) {
		m := newTrackerMocks(now)
		events := make(chan entity.PresenceEvent, 4)
		m.channel.On("Subscribe", mock.Anything).Return((<-chan entity.PresenceEvent)(events), func() {}, nil)
		m.channel.On("Roster", mock.Anything).Return([]entity.PresenceEntry{remote}, nil)

		tr := m.tracker()
		tr.Start(ctx)
		defer tr.Close()

		require.Eventually(t, func() bool {
			return len(tr.UsersOnInvoice("INV-001", "someone-else")) == 1
		}, time.Second, 5*time.Millisecond)

		events <- entity.PresenceEvent{Kind: entity.PresenceSync, Roster: []entity.PresenceEntry{}}

		require.Eventually(t, func() bool {
			return len(tr.UsersOnInvoice("INV-001", "someone-else")) == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("subscribe failure degrades to periodic sync", func(t *testing.T) {
		m := newTrackerMocks(now)
		m.channel.On("Subscribe", mock.Anything).Return(nil, nil, domainerrs.ErrChannelUnavailable)
		m.channel.On("Roster", mock.Anything).Return([]entity.PresenceEntry{remote}, nil)

		tr := m.tracker()
		tr.Start(ctx)
		defer tr.Close()

		require.Eventually(t, func() bool {
			return tr.IsInvoiceBeingEdited("INV-001", "someone-else")
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		m := newTrackerMocks(now)
		events := make(chan entity.PresenceEvent)
		m.channel.On("Subscribe", mock.Anything).Return((<-chan entity.PresenceEvent)(events), func() {}, nil)
		m.channel.On("Roster", mock.Anything).Return([]entity.PresenceEntry{}, nil)

		tr := m.tracker()
		tr.Start(ctx)

		tr.Close()
		tr.Close()
	})
}
