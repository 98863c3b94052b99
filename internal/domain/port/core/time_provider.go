package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain.
// Lock staleness and presence expiry are pure functions of the clock, so all
// time reads go through this port to keep them testable without sleeping.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Until(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
