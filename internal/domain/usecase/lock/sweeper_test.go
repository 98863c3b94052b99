package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerrs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
)

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	cutoff := now.Add(-DefaultConfig().StaleThreshold)

	t.Run("publishes a delete event per swept invoice", func(t *testing.T) {
		m := newServiceMocks(now)
		m.locks.On("DeleteStale", ctx, cutoff).Return([]string{"INV-001", "INV-002"}, nil)
		m.feed.On("Publish", ctx, mock.MatchedBy(func(e entity.LockEvent) bool {
			return e.Action == entity.LockDeleted && e.InvoiceID == "INV-001" && e.Lock == nil
		})).Return(nil).Once()
		m.feed.On("Publish", ctx, mock.MatchedBy(func(e entity.LockEvent) bool {
			return e.Action == entity.LockDeleted && e.InvoiceID == "INV-002" && e.Lock == nil
		})).Return(nil).Once()

		NewSweeper(m.service()).SweepOnce(ctx)

		m.feed.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("does not publish when nothing was swept", func(t *testing.T) {
		m := newServiceMocks(now)
		m.locks.On("DeleteStale", ctx, cutoff).Return([]string{}, nil)

		NewSweeper(m.service()).SweepOnce(ctx)

		m.feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("delete failure is swallowed and publishes nothing", func(t *testing.T) {
		m := newServiceMocks(now)
		m.locks.On("DeleteStale", ctx, cutoff).Return(nil, domainerrs.ErrChannelUnavailable)

		NewSweeper(m.service()).SweepOnce(ctx)

		m.feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not abort remaining invoices", func(t *testing.T) {
		m := newServiceMocks(now)
		m.locks.On("DeleteStale", ctx, cutoff).Return([]string{"INV-001", "INV-002"}, nil)
		m.feed.On("Publish", ctx, mock.Anything).Return(domainerrs.ErrChannelUnavailable)

		NewSweeper(m.service()).SweepOnce(ctx)

		m.feed.AssertNumberOfCalls(t, "Publish", 2)
	})
}
