package presence

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of calls into one execution of the most recent
// function after a quiet period. Rapid invoice navigation would otherwise
// flood the presence channel with announcements.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing any not-yet-fired call.
// Only the last fn of a burst runs. A zero delay executes synchronously.
func (d *debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs the pending call immediately, if any. Used on suspend/leave so
// the final state is announced before the session goes away.
func (d *debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any pending call without running it
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
