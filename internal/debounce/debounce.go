// Package debounce coalesces bursts of calls into one call after a quiet
// period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger has
// arrived for the configured delay. Each trigger gets a generation number;
// IsCurrent tells a running function (or its late result) whether it has been
// superseded since.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels the pending call, if any, and schedules fn. It returns the
// generation passed to fn. After Stop it does nothing and returns 0.
func (d *Debouncer) Trigger(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return 0
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		if d.IsCurrent(gen) {
			fn(gen)
		}
	})
	return gen
}

// Invalidate bumps the generation so anything in flight becomes stale, and
// returns the new generation. Used when a call bypasses the timer.
func (d *Debouncer) Invalidate() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	return d.gen
}

func (d *Debouncer) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && gen == d.gen
}

// Stop cancels the pending call and rejects later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
