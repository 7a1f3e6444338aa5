package observe

import (
	"context"
	"time"
)

// CallFunc is the signature for outbound call functions.
// This is the standard function signature that Middleware wraps.
type CallFunc func(ctx context.Context, meta CallMeta) error

// Middleware wraps outbound calls with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CallFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a CallFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn CallFunc) CallFunc {
	return func(ctx context.Context, meta CallMeta) error {
		// Start span
		ctx, span := m.tracer.StartSpan(ctx, meta)

		// Record start time
		start := time.Now()

		// Execute the call
		err := fn(ctx, meta)

		// Calculate duration
		duration := time.Since(start)

		// End span (records error status if err != nil)
		m.tracer.EndSpan(span, err)

		// Record metrics
		m.metrics.RecordCall(ctx, meta, duration, err)

		// Log the call
		callLogger := m.logger.WithCall(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			callLogger.Error(ctx, "outbound call failed", fields...)
		} else {
			callLogger.Info(ctx, "outbound call completed", fields...)
		}

		return err
	}
}

// Metrics exposes the middleware's metrics recorder so per-attempt
// callbacks can share the same instruments.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
