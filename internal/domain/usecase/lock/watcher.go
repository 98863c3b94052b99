package lock

import (
	"context"
	"sync"
	"time"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// Watch streams the invoice's lock state to onChange. It always performs an
// immediate one-shot fetch first, because the feed only delivers changes made
// after subscribe time; without the fetch the consumer would show "unlocked"
// until the next change.
//
// A fallback poller bounds the worst-case staleness of the consumer's view:
// it re-fetches on a fixed interval whenever the feed has been silent longer
// than the silence window (or could not be subscribed at all). Feed events
// themselves only ever trigger a re-fetch; the fetched row is trusted over
// any buffered event payload, which tolerates out-of-order delivery.
//
// The returned stop function tears everything down deterministically and is
// safe to call multiple times.
func (s *Service) Watch(ctx context.Context, invoiceID string, onChange func(*entity.Lock)) (func(), error) {
	w := &watcher{
		service:   s,
		invoiceID: invoiceID,
		onChange:  onChange,
	}

	wctx, cancel := context.WithCancel(ctx)

	events, stopFeed, err := s.feed.Subscribe(wctx, invoiceID)
	if err != nil {
		s.logger.Warn("Lock feed unavailable, watch runs in poll-only mode", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		events = nil
		stopFeed = func() {}
	}

	w.wg.Add(1)
	go w.run(wctx, events)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			stopFeed()
			w.wg.Wait()
		})
	}
	return stop, nil
}

// watcher is the per-subscription state. All onChange invocations happen on
// its single goroutine, so consumers observe a serialized stream.
type watcher struct {
	service   *Service
	invoiceID string
	onChange  func(*entity.Lock)
	wg        sync.WaitGroup

	delivered bool
	lastSeen  *entity.Lock
}

func (w *watcher) run(ctx context.Context, events <-chan entity.LockEvent) {
	defer w.wg.Done()

	s := w.service

	// Initial one-shot fetch, delivered before any feed event
	w.refetch(ctx)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	lastEventAt := s.timeProvider.Now()

	for {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-events:
			if !ok {
				// Feed died mid-watch; the poller carries on alone
				s.logger.Warn("Lock feed closed, watch falls back to polling", map[string]any{
					"invoice_id": w.invoiceID,
				})
				events = nil
				continue
			}
			lastEventAt = s.timeProvider.Now()
			w.refetch(ctx)

		case <-ticker.C:
			if events == nil || s.timeProvider.Since(lastEventAt) >= s.config.FeedSilence {
				w.refetch(ctx)
			}
		}
	}
}

// refetch reads the authoritative row and notifies the consumer when the
// observed state changed. Fetch failures are logged and skipped; the next
// tick or event retries.
func (w *watcher) refetch(ctx context.Context) {
	current, err := w.service.Get(ctx, w.invoiceID)
	if err != nil {
		w.service.logger.Warn("Watch fetch failed", map[string]any{
			"invoice_id": w.invoiceID,
			"error":      err.Error(),
		})
		return
	}

	if w.delivered && sameLock(w.lastSeen, current) {
		return
	}
	w.delivered = true
	w.lastSeen = current
	w.onChange(current)
}

// sameLock compares two observed lock states for change detection
func sameLock(a, b *entity.Lock) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.InvoiceID == b.InvoiceID &&
		a.LockedByUserID == b.LockedByUserID &&
		a.LockedAt.Equal(b.LockedAt)
}
