package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/content-architect/outbound/clock"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through to the dependency.
	StateClosed State = iota
	// StateOpen means calls are rejected without reaching the dependency.
	StateOpen
	// StateHalfOpen means the breaker is probing whether the dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is how long an open breaker waits before probing.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// SuccessThreshold is the number of consecutive probe successes
	// required to close a half-open breaker.
	// Default: 1
	SuccessThreshold int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// Clock is the time source. Default: the real clock.
	Clock clock.Clock
}

// CircuitBreaker guards one remote dependency.
//
// Closed: calls pass through; consecutive failures are counted and the
// breaker opens once FailureThreshold is reached. A success resets the count.
//
// Open: calls are rejected with ErrCircuitOpen until ResetTimeout has
// elapsed since the breaker opened, at which point the next call becomes
// a probe and the breaker transitions to half-open.
//
// HalfOpen: exactly one probe is in flight at a time; concurrent callers
// are rejected with ErrCircuitOpen so a recovering dependency is not
// flooded. SuccessThreshold consecutive probe successes close the breaker;
// a single probe failure reopens it.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	clock  clock.Clock

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	openedAt      time.Time
	probeInFlight bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}

	return &CircuitBreaker{
		config: config,
		clock:  config.Clock,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker.
// Returns ErrCircuitOpen without invoking op when gating.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	probe, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = op(ctx)
	cb.afterRequest(probe, err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset forces the circuit breaker back to closed with zeroed counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.probeInFlight = false

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

// beforeRequest admits or rejects the call. The returned bool reports
// whether this call is a half-open probe.
func (cb *CircuitBreaker) beforeRequest() (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return false, ErrCircuitOpen
	case StateHalfOpen:
		if cb.probeInFlight {
			return false, ErrCircuitOpen
		}
		cb.probeInFlight = true
		return true, nil
	}

	return false, nil
}

func (cb *CircuitBreaker) afterRequest(probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	if probe {
		cb.probeInFlight = false
	}

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.openLocked()
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		// Only the probe outcome moves the state machine. A non-probe
		// call landing here was admitted while the breaker was still
		// closed and carries stale evidence.
		if !probe {
			break
		}
		if isFailure {
			cb.successes = 0
			cb.openLocked()
		} else {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.state = StateClosed
				cb.failures = 0
				cb.successes = 0
			}
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) openLocked() {
	cb.state = StateOpen
	cb.openedAt = cb.clock.Now()
	cb.probeInFlight = false
}

// currentStateLocked transitions an expired open breaker to half-open.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && cb.clock.Now().Sub(cb.openedAt) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.probeInFlight = false
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// Metrics returns a snapshot of the breaker state.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:                cb.currentStateLocked(),
		ConsecutiveFailures:  cb.failures,
		ConsecutiveSuccesses: cb.successes,
		OpenedAt:             cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	OpenedAt             time.Time
}
