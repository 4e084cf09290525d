// Package debounce provides a resettable delayed call.
package debounce

import (
	"sync"
	"time"
)

// AfterFunc matches time.AfterFunc. Tests substitute it to fire timers by
// hand.
type AfterFunc func(d time.Duration, f func()) Stopper

// Stopper is the part of *time.Timer the debouncer needs.
type Stopper interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }

// Debouncer runs fn once the calls to Trigger have been quiet for Delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	after   AfterFunc
	timer   Stopper
	gen     uint64
	pending bool
}

// New returns a debouncer calling fn after delay of inactivity.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn, after: realAfterFunc}
}

// WithAfterFunc replaces the timer source.
func (d *Debouncer) WithAfterFunc(af AfterFunc) *Debouncer {
	d.mu.Lock()
	d.after = af
	d.mu.Unlock()
	return d
}

// Trigger (re)starts the countdown.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Cancel stops a pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return was
}

// Flush runs a pending call immediately on the calling goroutine.
func (d *Debouncer) Flush() bool {
	if !d.Cancel() {
		return false
	}
	d.fn()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
