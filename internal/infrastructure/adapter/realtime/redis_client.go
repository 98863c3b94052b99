package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

// Config contains Redis connection settings for the realtime channels
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
// Both channels (lock feed and presence) share one client; pub/sub
// subscriptions take dedicated connections from its pool.
func NewRedisClient(cfg Config, logger coreport.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Connected to Redis", map[string]any{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})
	return client, nil
}
