package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/content-architect/outbound/clock"
)

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the pre-jitter delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// BackoffFactor is the exponential growth factor.
	// Default: 2.0
	BackoffFactor float64

	// Jitter randomizes each delay by a uniform factor in [0.5, 1.0]
	// to avoid synchronized retry storms across queued callers.
	// Default: true (disable with NoJitter)
	NoJitter bool

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt sleeps.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Clock is the time source for backoff sleeps.
	// Default: the real clock.
	Clock clock.Clock
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = func(err error) bool { return err != nil }
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return c
}

// ComputeDelay returns the backoff delay for the given attempt number
// (1-based). The pre-jitter delay grows as
//
//	InitialDelay * BackoffFactor^(attempt-1)
//
// capped at MaxDelay, and is therefore monotonically non-decreasing in
// the attempt number. With jitter enabled the result is multiplied by a
// uniform random factor in [0.5, 1.0].
func ComputeDelay(attempt int, config RetryConfig) time.Duration {
	config = config.withDefaults()

	if attempt < 1 {
		attempt = 1
	}

	multiplier := math.Pow(config.BackoffFactor, float64(attempt-1))
	delay := time.Duration(float64(config.InitialDelay) * multiplier)
	if delay > config.MaxDelay || delay <= 0 {
		// The non-positive case is float overflow at high attempt counts.
		delay = config.MaxDelay
	}

	if !config.NoJitter {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		factor := 0.5 + 0.5*rand.Float64()
		delay = time.Duration(float64(delay) * factor)
	}

	return delay
}

// ShouldRetry reports whether a failed attempt may be retried: the error
// must be classified retryable by RetryIf and the attempt number must not
// exceed MaxRetries.
func ShouldRetry(err error, attempt int, config RetryConfig) bool {
	config = config.withDefaults()
	if err == nil {
		return false
	}
	return attempt <= config.MaxRetries && config.RetryIf(err)
}

// Retry runs operations with backoff between attempts.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	return &Retry{config: config.withDefaults()}
}

// Execute runs the operation, retrying per the configured policy.
// The delay between attempts honors context cancellation. The returned
// error is the terminal outcome: nil on success, the last attempt's error
// once retries are exhausted, or the first non-retryable error.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !ShouldRetry(err, attempt, r.config) {
			return lastErr
		}

		delay := ComputeDelay(attempt, r.config)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.config.Clock.After(delay):
		}
	}
}

// Config returns the retry configuration with defaults applied.
func (r *Retry) Config() RetryConfig {
	return r.config
}
