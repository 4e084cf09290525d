package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

type manualTimer struct {
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) after(_ time.Duration, f func()) Stopper {
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) fireAll() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func TestTriggerCoalesces(t *testing.T) {
	var calls int32
	clock := &manualClock{}
	d := New(time.Second, func() { atomic.AddInt32(&calls, 1) }).WithAfterFunc(clock.after)
	d.Trigger()
	d.Trigger()
	d.Trigger()
	clock.fireAll()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if d.Pending() {
		t.Fatal("nothing should be pending after firing")
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	var calls int32
	clock := &manualClock{}
	d := New(time.Second, func() { atomic.AddInt32(&calls, 1) }).WithAfterFunc(clock.after)
	d.Trigger()
	first := clock.timers[0]
	d.Trigger()
	first.f()
	if calls != 0 {
		t.Fatalf("stale timer ran the callback")
	}
	clock.fireAll()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestCancelAndFlush(t *testing.T) {
	var calls int32
	clock := &manualClock{}
	d := New(time.Second, func() { atomic.AddInt32(&calls, 1) }).WithAfterFunc(clock.after)
	d.Trigger()
	if !d.Cancel() {
		t.Fatal("Cancel should report a pending call")
	}
	clock.fireAll()
	if calls != 0 {
		t.Fatal("cancelled call ran")
	}
	d.Trigger()
	if !d.Flush() {
		t.Fatal("Flush should run the pending call")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after flush, got %d", calls)
	}
	if d.Flush() {
		t.Fatal("Flush with nothing pending should be a no-op")
	}
}

func TestRealTimer(t *testing.T) {
	done := make(chan struct{})
	d := New(5*time.Millisecond, func() { close(done) })
	d.Trigger()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
}
