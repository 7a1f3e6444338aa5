package resilience

import (
	"context"
	"time"
)

// layer is one resilience wrapper around an outbound operation. Every
// component in this package satisfies it.
type layer interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Executor composes the resilience layers around an outbound call.
type Executor struct {
	rateLimiter    *RateLimiter
	bulkhead       *Bulkhead
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead adds bulkhead isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.circuitBreaker = cb }
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithTimeout adds a per-attempt timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout}) }
}

// WithTimeoutConfig adds a timeout with custom config to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) { e.timeout = t }
}

// Execute runs the operation through all configured layers.
//
// The layer order, outermost first, is:
//  1. Rate Limiter - one budget admission per logical call; queued calls
//     never reach the layers below, so only calls that actually attempt
//     the dependency drive breaker state.
//  2. Bulkhead - caps concurrent calls against the dependency.
//  3. Circuit Breaker - sees only the terminal outcome of the retry
//     loop, so a single transient blip does not count toward opening.
//  4. Retry - re-attempts transient failures with backoff.
//  5. Timeout - bounds each individual attempt.
//
// Wrapping proceeds innermost first, so the ordering is enforced
// structurally rather than by convention.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	var layers []layer
	if e.timeout != nil {
		layers = append(layers, e.timeout)
	}
	if e.retry != nil {
		layers = append(layers, e.retry)
	}
	if e.circuitBreaker != nil {
		layers = append(layers, e.circuitBreaker)
	}
	if e.bulkhead != nil {
		layers = append(layers, e.bulkhead)
	}
	if e.rateLimiter != nil {
		layers = append(layers, e.rateLimiter)
	}

	execute := op
	for _, l := range layers {
		inner, wrap := execute, l
		execute = func(ctx context.Context) error {
			return wrap.Execute(ctx, inner)
		}
	}
	return execute(ctx)
}
