// Package scheduler provides trigger scheduling for sync passes. Webhook
// bursts are debounced so that a run of notifications close together causes
// one pass instead of one pass per notification.
package scheduler

import (
	"sync"
	"time"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
)

// Debouncer coalesces bursts of triggers into a single callback per key.
// Each trigger during the delay window discards the earlier callback and
// restarts the window, so the callback runs once the key has been quiet
// for the full delay.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer creates a debouncer with the given delay. A non-positive
// delay falls back to the default.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = constants.DefaultDebounceDelay
	}
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Delay returns the configured delay window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn to run after the delay. Retriggering the same key
// before the delay elapses replaces fn and restarts the window.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops a pending trigger for the key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Pending reports whether a trigger is waiting for the key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.timers[key]
	return ok
}

// Stop cancels all pending triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
