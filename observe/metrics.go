package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records outbound call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a finished call with duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordAttempt records one transport attempt inside a call.
	RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	callCount    metric.Int64Counter
	errorCount   metric.Int64Counter
	attemptCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	callCount, err := meter.Int64Counter(
		"call.total",
		metric.WithDescription("Total number of outbound calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.errors",
		metric.WithDescription("Total number of failed outbound calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"call.attempts",
		metric.WithDescription("Total number of transport attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.duration_ms",
		metric.WithDescription("Outbound call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		callCount:    callCount,
		errorCount:   errorCount,
		attemptCount: attemptCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) attrs(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("call.dependency", meta.Dependency),
	}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("call.operation", meta.Operation))
	}
	return metric.WithAttributes(attrs...)
}

// RecordCall records metrics for a finished outbound call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := m.attrs(meta)

	m.callCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	durationMs := float64(duration.Milliseconds())
	m.durationHist.Record(ctx, durationMs, opt)
}

// RecordAttempt records one transport attempt.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error) {
	m.attemptCount.Add(ctx, 1, m.attrs(meta))
}

// NopMetrics returns a Metrics recorder that discards everything.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordAttempt(ctx context.Context, meta CallMeta, attempt int, err error) {
}
