package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/content-architect/outbound/clock"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// MaxRequests is the call budget per window.
	// Default: 60
	MaxRequests int

	// Window is the budget replenishment window.
	// Default: 1 minute
	Window time.Duration

	// QueueLimit caps the pending queue; calls beyond it fail fast with
	// ErrQueueFull, bounding memory and latency under sustained overload.
	// Default: 100
	QueueLimit int

	// DefaultBackoff is applied when the provider reports rate limiting
	// without a retry-after duration.
	// Default: Window
	DefaultBackoff time.Duration

	// Clock is the time source. Default: the real clock.
	Clock clock.Clock
}

// RateLimiter tracks the remaining call budget for one remote dependency
// and defers excess calls into a FIFO queue.
//
// When the budget is exhausted, Admit parks the caller in the pending
// queue. A replenishment timer restores the budget after the window (or
// after a provider-supplied reset) and drains the queue in arrival order,
// spacing releases by Window/MaxRequests so the restored budget is not
// consumed in a single burst.
//
// Provider responses feed back through Observe (remaining-quota and
// reset headers) and Backoff (429 with optional retry-after).
type RateLimiter struct {
	config RateLimiterConfig
	clock  clock.Clock

	mu        sync.Mutex
	remaining int
	pending   []*waiter
	resetTimer clock.Timer
	resetAt    time.Time
	draining   bool
}

// waiter parks one queued call until the limiter releases it.
type waiter struct {
	ready    chan struct{}
	canceled bool
}

// NewRateLimiter creates a new rate limiter with a full budget.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.MaxRequests <= 0 {
		config.MaxRequests = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.QueueLimit <= 0 {
		config.QueueLimit = 100
	}
	if config.DefaultBackoff <= 0 {
		config.DefaultBackoff = config.Window
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}

	return &RateLimiter{
		config:    config,
		clock:     config.Clock,
		remaining: config.MaxRequests,
	}
}

// Admit consumes one unit of budget, blocking in FIFO order when the
// budget is exhausted. It returns ErrQueueFull when the pending queue is
// at capacity, or ctx.Err() if the caller gives up while queued.
func (rl *RateLimiter) Admit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rl.mu.Lock()

	// Queued calls always go first; a fresh arrival may not overtake them.
	if rl.remaining > 0 && len(rl.pending) == 0 {
		rl.remaining--
		rl.ensureResetScheduledLocked()
		rl.mu.Unlock()
		return nil
	}

	if len(rl.pending) >= rl.config.QueueLimit {
		rl.mu.Unlock()
		return ErrQueueFull
	}

	w := &waiter{ready: make(chan struct{})}
	rl.pending = append(rl.pending, w)
	rl.ensureResetScheduledLocked()
	rl.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		rl.mu.Lock()
		w.canceled = true
		rl.mu.Unlock()
		return ctx.Err()
	}
}

// Execute admits the operation through the limiter, then runs it.
// The operation never runs when Admit fails, and never runs twice.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Admit(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// Observe applies provider-reported quota state from a successful
// response: remaining overrides the local budget (values below zero are
// ignored, values above MaxRequests are clamped), and resetIn reschedules
// the replenishment timer when positive.
func (rl *RateLimiter) Observe(remaining int, resetIn time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if remaining >= 0 {
		if remaining > rl.config.MaxRequests {
			remaining = rl.config.MaxRequests
		}
		rl.remaining = remaining
	}
	if resetIn > 0 {
		rl.rescheduleLocked(resetIn)
	}
	if rl.remaining > 0 && len(rl.pending) > 0 {
		rl.startDrainLocked()
	}
}

// Backoff handles an explicit rate-limited response: the budget is
// zeroed and replenishment is rescheduled to the provider's retry-after
// duration, or DefaultBackoff when none was supplied.
func (rl *RateLimiter) Backoff(retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.remaining = 0
	if retryAfter <= 0 {
		retryAfter = rl.config.DefaultBackoff
	}
	rl.rescheduleLocked(retryAfter)
}

// Metrics returns a snapshot of the limiter state.
func (rl *RateLimiter) Metrics() RateLimiterMetrics {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	queued := 0
	for _, w := range rl.pending {
		if !w.canceled {
			queued++
		}
	}

	return RateLimiterMetrics{
		Remaining: rl.remaining,
		Queued:    queued,
		ResetAt:   rl.resetAt,
	}
}

// RateLimiterMetrics contains rate limiter statistics.
type RateLimiterMetrics struct {
	Remaining int
	Queued    int
	ResetAt   time.Time
}

// ensureResetScheduledLocked arms the replenishment timer for the current
// window if it is not already pending.
func (rl *RateLimiter) ensureResetScheduledLocked() {
	if rl.resetTimer != nil {
		return
	}
	rl.resetAt = rl.clock.Now().Add(rl.config.Window)
	rl.resetTimer = rl.clock.AfterFunc(rl.config.Window, rl.replenish)
}

// rescheduleLocked moves the replenishment timer to fire after d.
func (rl *RateLimiter) rescheduleLocked(d time.Duration) {
	rl.resetAt = rl.clock.Now().Add(d)
	if rl.resetTimer != nil {
		rl.resetTimer.Reset(d)
		return
	}
	rl.resetTimer = rl.clock.AfterFunc(d, rl.replenish)
}

// replenish restores the budget and begins draining the pending queue.
func (rl *RateLimiter) replenish() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.resetTimer = nil
	rl.resetAt = time.Time{}
	rl.remaining = rl.config.MaxRequests
	rl.startDrainLocked()
}

// startDrainLocked releases the head of the queue immediately, then paces
// further releases at Window/MaxRequests intervals.
func (rl *RateLimiter) startDrainLocked() {
	if rl.draining {
		return
	}
	rl.releaseNextLocked()
	rl.scheduleDrainStepLocked()
}

func (rl *RateLimiter) scheduleDrainStepLocked() {
	if len(rl.pending) == 0 || rl.remaining == 0 {
		return
	}
	rl.draining = true
	rl.clock.AfterFunc(rl.spacing(), rl.drainStep)
}

func (rl *RateLimiter) drainStep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.draining = false
	rl.releaseNextLocked()
	rl.scheduleDrainStepLocked()
}

// releaseNextLocked pops abandoned waiters, then releases the first live
// one if budget remains. The budget never goes negative.
func (rl *RateLimiter) releaseNextLocked() {
	for len(rl.pending) > 0 && rl.remaining > 0 {
		w := rl.pending[0]
		rl.pending = rl.pending[1:]
		if w.canceled {
			continue
		}
		rl.remaining--
		rl.ensureResetScheduledLocked()
		close(w.ready)
		return
	}
}

func (rl *RateLimiter) spacing() time.Duration {
	return rl.config.Window / time.Duration(rl.config.MaxRequests)
}
