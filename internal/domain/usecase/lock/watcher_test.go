package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerrs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
)

// watchConfig shrinks the timings so fallback behaviour is observable in tests
func watchConfig() Config {
	return Config{
		StaleThreshold: 15 * time.Minute,
		PollInterval:   10 * time.Millisecond,
		FeedSilence:    50 * time.Millisecond,
		SweepInterval:  time.Minute,
	}
}

func (m *serviceMocks) watchService() *Service {
	return NewService(m.locks, m.roles, m.audit, m.feed, m.timeProvider, m.logger, watchConfig())
}

// waitForLock reads one onChange delivery or fails the test
func waitForLock(t *testing.T, changes <-chan *entity.Lock) *entity.Lock {
	t.Helper()
	select {
	case lock := <-changes:
		return lock
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a lock state delivery")
		return nil
	}
}

func TestWatchDeliversInitialState(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	m.timeProvider.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()

	current := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-1", LockedAt: now.Add(-time.Minute)}
	m.locks.On("Get", mock.Anything, invoiceID).Return(current, nil)

	events := make(chan entity.LockEvent)
	m.feed.On("Subscribe", mock.Anything, invoiceID).Return((<-chan entity.LockEvent)(events), func() {}, nil)

	changes := make(chan *entity.Lock, 16)
	stop, err := m.watchService().Watch(ctx, invoiceID, func(lock *entity.Lock) {
		changes <- lock
	})
	require.NoError(t, err)
	defer stop()

	delivered := waitForLock(t, changes)
	assert.Equal(t, "user-1", delivered.LockedByUserID)
}

func TestWatchRefetchesOnFeedEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	// Feed is live, so the poller stays quiet
	m.timeProvider.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()

	first := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-1", LockedAt: now.Add(-time.Minute)}
	second := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-2", LockedAt: now.Add(-time.Second)}
	m.locks.On("Get", mock.Anything, invoiceID).Return(first, nil).Once()
	m.locks.On("Get", mock.Anything, invoiceID).Return(second, nil)

	events := make(chan entity.LockEvent, 1)
	m.feed.On("Subscribe", mock.Anything, invoiceID).Return((<-chan entity.LockEvent)(events), func() {}, nil)

	changes := make(chan *entity.Lock, 16)
	stop, err := m.watchService().Watch(ctx, invoiceID, func(lock *entity.Lock) {
		changes <- lock
	})
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, "user-1", waitForLock(t, changes).LockedByUserID)

	// The event payload is deliberately stale; the fetched row wins
	events <- entity.LockEvent{Action: entity.LockUpdated, InvoiceID: invoiceID, Lock: first}

	assert.Equal(t, "user-2", waitForLock(t, changes).LockedByUserID)
}

func TestWatchDeduplicatesUnchangedState(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	m.timeProvider.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()

	current := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-1", LockedAt: now.Add(-time.Minute)}
	m.locks.On("Get", mock.Anything, invoiceID).Return(current, nil)

	events := make(chan entity.LockEvent, 2)
	m.feed.On("Subscribe", mock.Anything, invoiceID).Return((<-chan entity.LockEvent)(events), func() {}, nil)

	changes := make(chan *entity.Lock, 16)
	stop, err := m.watchService().Watch(ctx, invoiceID, func(lock *entity.Lock) {
		changes <- lock
	})
	require.NoError(t, err)
	defer stop()

	waitForLock(t, changes)

	// Two events that re-fetch the same row must not produce deliveries
	events <- entity.LockEvent{Action: entity.LockUpdated, InvoiceID: invoiceID}
	events <- entity.LockEvent{Action: entity.LockUpdated, InvoiceID: invoiceID}

	select {
	case lock := <-changes:
		t.Fatalf("unexpected delivery for unchanged state: %+v", lock)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchPollsWhenSubscribeFails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	m.timeProvider.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()

	first := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-1", LockedAt: now.Add(-time.Minute)}
	var released *entity.Lock
	m.locks.On("Get", mock.Anything, invoiceID).Return(first, nil).Once()
	m.locks.On("Get", mock.Anything, invoiceID).Return(released, nil)

	m.feed.On("Subscribe", mock.Anything, invoiceID).
		Return(nil, nil, domainerrs.ErrChannelUnavailable)

	changes := make(chan *entity.Lock, 16)
	stop, err := m.watchService().Watch(ctx, invoiceID, func(lock *entity.Lock) {
		changes <- lock
	})
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, "user-1", waitForLock(t, changes).LockedByUserID)

	// The poller alone must surface the release
	assert.Nil(t, waitForLock(t, changes))
}

func TestWatchFallsBackToPollingOnFeedSilence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	// Report the feed as silent beyond the window on every tick
	m.timeProvider.On("Since", mock.Anything).Return(time.Minute).Maybe()

	first := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-1", LockedAt: now.Add(-time.Minute)}
	second := &entity.Lock{InvoiceID: invoiceID, LockedByUserID: "user-2", LockedAt: now.Add(-time.Second)}
	m.locks.On("Get", mock.Anything, invoiceID).Return(first, nil).Once()
	m.locks.On("Get", mock.Anything, invoiceID).Return(second, nil)

	// Subscribed but silent channel
	events := make(chan entity.LockEvent)
	m.feed.On("Subscribe", mock.Anything, invoiceID).Return((<-chan entity.LockEvent)(events), func() {}, nil)

	changes := make(chan *entity.Lock, 16)
	stop, err := m.watchService().Watch(ctx, invoiceID, func(lock *entity.Lock) {
		changes <- lock
	})
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, "user-1", waitForLock(t, changes).LockedByUserID)
	assert.Equal(t, "user-2", waitForLock(t, changes).LockedByUserID)
}

func TestWatchStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	invoiceID := "INV-001"

	m := newServiceMocks(now)
	m.timeProvider.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()
	m.locks.On("Get", mock.Anything, invoiceID).Return(nil, nil)

	events := make(chan entity.LockEvent)
	stopped := make(chan struct{}, 2)
	m.feed.On("Subscribe", mock.Anything, invoiceID).Return(
		(<-chan entity.LockEvent)(events),
		func() { stopped <- struct{}{} },
		nil,
	)

	stop, err := m.watchService().Watch(ctx, invoiceID, func(*entity.Lock) {})
	require.NoError(t, err)

	stop()
	stop()

	// The feed teardown ran exactly once
	assert.Len(t, stopped, 1)
}
