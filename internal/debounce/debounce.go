// Package debounce delays an action until its trigger has been quiet for a
// fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs action once per quiet period. Every Trigger cancels the
// pending run and schedules a new one delay after the latest call, so any
// burst of triggers collapses into a single run.
//
// The action always runs on a timer goroutine (or on the goroutine calling
// Flush), never inside Trigger. A delay of zero still defers.
type Debouncer struct {
	delay  time.Duration
	action func()

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64 // bumped on every schedule; a firing timer must match it
	pending bool
	stopped bool
}

// New creates a Debouncer. A negative delay is treated as zero.
func New(delay time.Duration, action func()) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay, action: action}
}

// Func wraps action in a fire-and-forget trigger.
func Func(action func(), delay time.Duration) func() {
	return New(delay, action).Trigger
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.pending = true
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
}

// fire runs the action if no newer Trigger, Flush or Stop intervened.
// A timer that already fired cannot be stopped, hence the sequence check.
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.action()
}

// Flush runs a pending action now, on the calling goroutine, and reports
// whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
	d.mu.Unlock()

	d.action()
	return true
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending run. Later triggers are ignored.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
