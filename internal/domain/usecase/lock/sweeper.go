package lock

import (
	"context"
	"sync"
	"time"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// Sweeper periodically deletes stale lock rows and broadcasts delete events
// for them. Readers never depend on the sweep (they filter staleness on every
// read); it exists so abandoned rows don't pile up and so viewers of an
// abandoned invoice see the banner clear without polling the row themselves.
type Sweeper struct {
	service *Service

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper bound to the lock manager's store and feed
func NewSweeper(service *Service) *Sweeper {
	return &Sweeper{
		service: service,
		stop:    make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (sw *Sweeper) Start() {
	sw.wg.Add(1)
	go sw.run()

	sw.service.logger.Info("Stale lock sweeper started", map[string]any{
		"interval":        sw.service.config.SweepInterval.String(),
		"stale_threshold": sw.service.config.StaleThreshold.String(),
	})
}

// Stop terminates the sweep loop and waits for it to finish
func (sw *Sweeper) Stop() {
	sw.stopOnce.Do(func() {
		close(sw.stop)
	})
	sw.wg.Wait()
}

func (sw *Sweeper) run() {
	defer sw.wg.Done()

	ticker := time.NewTicker(sw.service.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sw.stop:
			return
		case <-ticker.C:
			sw.SweepOnce(context.Background())
		}
	}
}

// SweepOnce deletes every stale lock row and publishes a delete event per
// affected invoice. Failures are logged only; the next interval retries.
func (sw *Sweeper) SweepOnce(ctx context.Context) {
	s := sw.service

	invoiceIDs, err := s.locks.DeleteStale(ctx, s.staleBefore())
	if err != nil {
		s.logger.Error("Stale lock sweep failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if len(invoiceIDs) == 0 {
		return
	}

	for _, invoiceID := range invoiceIDs {
		s.publish(ctx, entity.LockDeleted, invoiceID, nil)
	}

	s.logger.Info("Stale locks swept", map[string]any{
		"count":    len(invoiceIDs),
		"invoices": invoiceIDs,
	})
}
