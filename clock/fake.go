package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for deterministic tests.
//
// Timers fire synchronously inside Advance, in deadline order, on the
// goroutine that called Advance.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewFake creates a Fake starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After returns a channel that receives the fake time once Advance moves
// past d.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	f.AfterFunc(d, func() {
		ch <- f.Now()
	})
	return ch
}

// AfterFunc schedules fn to run when Advance moves the clock past d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
		active:   true,
	}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Callbacks run with the clock set to their deadline, so work they
// schedule lands at the correct fake time.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		t := f.nextDueLocked(target)
		if t == nil {
			break
		}
		if t.deadline.After(f.now) {
			f.now = t.deadline
		}
		t.active = false
		fn := t.fn
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// nextDueLocked returns the earliest active timer due at or before target.
func (f *Fake) nextDueLocked(target time.Time) *fakeTimer {
	var due *fakeTimer
	for _, t := range f.timers {
		if !t.active || t.deadline.After(target) {
			continue
		}
		if due == nil || t.deadline.Before(due.deadline) {
			due = t
		}
	}
	return due
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
	active   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasActive := t.active
	t.active = false
	return wasActive
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasActive := t.active
	t.deadline = t.clock.now.Add(d)
	t.active = true
	return wasActive
}

// Ensure Fake implements Clock
var _ Clock = (*Fake)(nil)
