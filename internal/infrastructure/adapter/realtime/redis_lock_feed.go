package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

const lockChannelPrefix = "locks:events:"

// RedisLockFeed implements the lock change feed on Redis pub/sub. One channel
// per invoice keeps subscriptions scoped; events are fire-and-forget JSON,
// which matches the feed's best-effort contract.
type RedisLockFeed struct {
	client *redis.Client
	logger coreport.Logger
}

// NewRedisLockFeed creates a lock feed on the given Redis client
func NewRedisLockFeed(client *redis.Client, logger coreport.Logger) *RedisLockFeed {
	return &RedisLockFeed{
		client: client,
		logger: logger,
	}
}

func lockChannel(invoiceID string) string {
	return lockChannelPrefix + invoiceID
}

// Publish broadcasts a lock change to every subscriber of the invoice
func (f *RedisLockFeed) Publish(ctx context.Context, event entity.LockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lock event: %w", err)
	}

	if err := f.client.Publish(ctx, lockChannel(event.InvoiceID), payload).Err(); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}
	return nil
}

// Subscribe opens an event stream scoped to one invoice. The pump goroutine
// decodes messages until the subscription closes; malformed payloads are
// dropped with a log line rather than killing the stream.
func (f *RedisLockFeed) Subscribe(ctx context.Context, invoiceID string) (<-chan entity.LockEvent, func(), error) {
	sub := f.client.Subscribe(ctx, lockChannel(invoiceID))

	// Confirm the subscription before handing the stream out; Subscribe
	// itself never fails, only the first receive does.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}

	out := make(chan entity.LockEvent)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event entity.LockEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Warn("Dropping malformed lock event", map[string]any{
					"invoice_id": invoiceID,
					"error":      err.Error(),
				})
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				f.logger.Warn("Failed to close lock feed subscription", map[string]any{
					"invoice_id": invoiceID,
					"error":      err.Error(),
				})
			}
		})
	}
	return out, stop, nil
}
