package lock

import "time"

// Config holds the tunable timings of the lock manager. The defaults mirror
// what the invoice console ships with, but none of them is a business
// invariant, so deployments may override all of them.
type Config struct {
	// StaleThreshold is the age beyond which a lock reads as absent
	StaleThreshold time.Duration
	// PollInterval is how often the fallback poller re-fetches lock state
	PollInterval time.Duration
	// FeedSilence is how long the realtime feed must be quiet before the
	// fallback poller activates
	FeedSilence time.Duration
	// SweepInterval is how often stale rows are deleted from the store
	SweepInterval time.Duration
}

// DefaultConfig returns the standard lock manager timings
func DefaultConfig() Config {
	return Config{
		StaleThreshold: 15 * time.Minute,
		PollInterval:   5 * time.Second,
		FeedSilence:    10 * time.Second,
		SweepInterval:  time.Minute,
	}
}
