// Package clock abstracts time sources for components that schedule work,
// such as rate-limit replenishment timers and circuit breaker cooldowns.
// Production code uses the real clock; tests drive a deterministic Fake.
package clock

import "time"

// Timer is the subset of *time.Timer behavior used by this module.
type Timer interface {
	// Stop prevents the timer from firing. Returns false if the timer
	// already fired or was stopped.
	Stop() bool

	// Reset reschedules the timer to fire after d. Returns true if the
	// timer was still active.
	Reset(d time.Duration) bool
}

// Clock provides the current time and timer scheduling.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - AfterFunc callbacks may run on any goroutine and must not block.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the time after d elapses.
	After(d time.Duration) <-chan time.Time

	// AfterFunc schedules fn to run after d elapses.
	AfterFunc(d time.Duration, fn func()) Timer
}

// New returns a Clock backed by the time package.
func New() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Ensure realClock implements Clock
var _ Clock = realClock{}
