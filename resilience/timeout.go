package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for a single attempt.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds each transport attempt. An expired attempt is abandoned
// and surfaces as ErrTimeout, feeding into the retry decision.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs the operation under the attempt deadline. The operation
// receives a context that is cancelled at the deadline; an operation
// that ignores it is abandoned, not killed.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(attemptCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-attemptCtx.Done():
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return attemptCtx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs one operation under an ad hoc deadline.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}
