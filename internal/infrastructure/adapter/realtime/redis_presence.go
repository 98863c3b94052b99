package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

const (
	presenceEventsChannel = "presence:events"
	presenceKeyPrefix     = "presence:entry:"
)

// RedisPresenceChannel implements the shared presence channel on Redis. Each
// entry lives under its own key with a TTL renewed on every announce, which
// gives presence its connection-scoped lifetime: stop announcing and the
// entry evaporates without any explicit deletion. Announcements additionally
// fan out on a single pub/sub channel for low-latency roster updates.
type RedisPresenceChannel struct {
	client *redis.Client
	logger coreport.Logger
	ttl    time.Duration
}

// NewRedisPresenceChannel creates a presence channel with the given entry TTL
func NewRedisPresenceChannel(client *redis.Client, logger coreport.Logger, ttl time.Duration) *RedisPresenceChannel {
	return &RedisPresenceChannel{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func presenceKey(userID string) string {
	return presenceKeyPrefix + userID
}

// Track announces the entry and renews its lease
func (p *RedisPresenceChannel) Track(ctx context.Context, entry entity.PresenceEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal presence entry: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, presenceKey(entry.UserID), payload, p.ttl)
	event, err := json.Marshal(entity.PresenceEvent{Kind: entity.PresenceUpdate, Entry: &entry})
	if err != nil {
		return fmt.Errorf("marshal presence event: %w", err)
	}
	pipe.Publish(ctx, presenceEventsChannel, event)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}
	return nil
}

// Untrack withdraws the entry ahead of its lease expiry
func (p *RedisPresenceChannel) Untrack(ctx context.Context, userID string) error {
	pipe := p.client.Pipeline()
	pipe.Del(ctx, presenceKey(userID))
	event, err := json.Marshal(entity.PresenceEvent{
		Kind:  entity.PresenceLeave,
		Entry: &entity.PresenceEntry{UserID: userID},
	})
	if err != nil {
		return fmt.Errorf("marshal presence event: %w", err)
	}
	pipe.Publish(ctx, presenceEventsChannel, event)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}
	return nil
}

// Subscribe opens the shared presence event stream
func (p *RedisPresenceChannel) Subscribe(ctx context.Context) (<-chan entity.PresenceEvent, func(), error) {
	sub := p.client.Subscribe(ctx, presenceEventsChannel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}

	out := make(chan entity.PresenceEvent)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event entity.PresenceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.logger.Warn("Dropping malformed presence event", map[string]any{
					"error": err.Error(),
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
				p.logger.Warn("Failed to close presence subscription", map[string]any{
					"error": err.Error(),
				})
			}
		})
	}
	return out, stop, nil
}

// Roster scans the live entry keys and returns every current entry. Keys for
// expired entries are gone by definition, so the scan is self-cleaning.
func (p *RedisPresenceChannel) Roster(ctx context.Context) ([]entity.PresenceEntry, error) {
	var entries []entity.PresenceEntry

	iter := p.client.Scan(ctx, 0, presenceKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := p.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			// Expired between scan and read
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
		}

		var entry entity.PresenceEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			p.logger.Warn("Dropping malformed presence entry", map[string]any{
				"key":   iter.Val(),
				"error": err.Error(),
			})
			continue
		}
		entries = append(entries, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrChannelUnavailable, err.Error())
	}

	return entries, nil
}
