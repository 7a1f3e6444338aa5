package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrQueueFull is returned when the rate limiter's pending queue is
	// at capacity and the call cannot be deferred.
	ErrQueueFull = errors.New("resilience: rate limiter queue is full")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)
