// Package debounce coalesces bursts of triggers into a single call after a
// quiet period. Time is taken from a clock.Clock so tests can drive it with
// clock.NewMock.
package debounce

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = time.Second

// Debouncer runs fn once the quiet period has elapsed since the last Trigger.
// Each Trigger re-arms the timer; a pending run is never queued behind another.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *clock.Timer
	gen     uint64
	stopped bool
}

// New builds a Debouncer. A nil clock uses the wall clock; a non-positive delay
// falls back to DefaultDelay.
func New(clk clock.Clock, delay time.Duration, fn func()) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{clock: clk, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops a pending run. Later triggers schedule normally.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels a pending run without executing it and disables the Debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a timer that lost the race against Trigger or Stop must not run
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
