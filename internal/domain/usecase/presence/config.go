package presence

import "time"

// Config holds the tunable timings of the presence tracker
type Config struct {
	// Debounce is the quiet period applied to bursts of presence updates
	Debounce time.Duration
	// RosterSyncInterval is how often the full roster is re-read from the
	// channel to reconcile missed events
	RosterSyncInterval time.Duration
}

// DefaultConfig returns the standard presence timings
func DefaultConfig() Config {
	return Config{
		Debounce:           100 * time.Millisecond,
		RosterSyncInterval: 30 * time.Second,
	}
}
