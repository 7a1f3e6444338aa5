package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/content-architect/outbound/observe/exporters"
)

// Config configures outbound call telemetry for one process.
type Config struct {
	// ServiceName identifies the calling service on spans and metrics.
	ServiceName string

	// Version is attached to the telemetry resource.
	Version string

	Tracing TracingConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// TracingConfig configures call spans.
type TracingConfig struct {
	Enabled bool

	// Exporter selects the span backend: otlp, stdout, or none.
	Exporter string

	// SampleRatio is the fraction of calls to trace, 0.0 through 1.0.
	SampleRatio float64
}

// MetricsConfig configures call metrics.
type MetricsConfig struct {
	Enabled bool

	// Exporter selects the metrics backend: otlp, prometheus, stdout,
	// or none.
	Exporter string
}

// LoggingConfig configures the structured call logger.
type LoggingConfig struct {
	Enabled bool

	// Level is the minimum level emitted: debug, info, warn, or error.
	Level string
}

// Validate reports configuration mistakes before any provider is built.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "otlp", "stdout", "none", "":
		default:
			return fmt.Errorf("observe: unknown tracing exporter %q", c.Tracing.Exporter)
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Tracing.SampleRatio)
		}
	}

	if c.Metrics.Enabled {
		switch c.Metrics.Exporter {
		case "otlp", "prometheus", "stdout", "none", "":
		default:
			return fmt.Errorf("observe: unknown metrics exporter %q", c.Metrics.Exporter)
		}
	}

	if c.Logging.Enabled {
		switch c.Logging.Level {
		case "debug", "info", "warn", "error", "":
		default:
			return fmt.Errorf("observe: unknown log level %q", c.Logging.Level)
		}
	}

	return nil
}

// Observer provides access to telemetry primitives.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Shutdown must honor cancellation/deadlines.
// - Errors: Shutdown is idempotent and joins every provider error.
type Observer interface {
	// Tracer returns the configured tracer.
	Tracer() trace.Tracer

	// Meter returns the configured meter.
	Meter() metric.Meter

	// Logger returns the configured logger.
	Logger() Logger

	// Shutdown flushes and stops all telemetry providers.
	Shutdown(ctx context.Context) error
}

// observer is the concrete implementation of Observer. Disabled
// subsystems stay on their no-op defaults.
type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	shutdowns []func(context.Context) error
}

// NewObserver creates an Observer with the given configuration.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
		meter:  noop.NewMeterProvider().Meter("noop"),
		logger: NopLogger(),
	}

	if cfg.Tracing.Enabled {
		if err := obs.startTracing(ctx, cfg, res); err != nil {
			return nil, err
		}
	}
	if cfg.Metrics.Enabled {
		if err := obs.startMetrics(ctx, cfg, res); err != nil {
			return nil, err
		}
	}
	if cfg.Logging.Enabled {
		obs.logger = NewLogger(cfg.Logging.Level)
	}

	return obs, nil
}

func (o *observer) startTracing(ctx context.Context, cfg Config, res *resource.Resource) error {
	exporter, err := exporters.SpanExporter(ctx, cfg.Tracing.Exporter)
	if err != nil {
		return fmt.Errorf("observe: tracing exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.Tracing.SampleRatio)),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	o.tracer = tp.Tracer(cfg.ServiceName)
	o.shutdowns = append(o.shutdowns, tp.Shutdown)
	return nil
}

func (o *observer) startMetrics(ctx context.Context, cfg Config, res *resource.Resource) error {
	reader, err := exporters.MetricReader(ctx, cfg.Metrics.Exporter)
	if err != nil {
		return fmt.Errorf("observe: metrics reader: %w", err)
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	o.meter = mp.Meter(cfg.ServiceName)
	o.shutdowns = append(o.shutdowns, mp.Shutdown)
	return nil
}

// samplerFor maps a sample ratio to a sampler, pinning the endpoints so
// 0 and 1 behave exactly rather than probabilistically.
func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(ratio)
}

func (o *observer) Tracer() trace.Tracer {
	return o.tracer
}

func (o *observer) Meter() metric.Meter {
	return o.meter
}

func (o *observer) Logger() Logger {
	return o.logger
}

func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error
	for _, stop := range o.shutdowns {
		if err := stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	o.shutdowns = nil
	return errors.Join(errs...)
}
