// Package exporters builds the OpenTelemetry exporters behind the
// observe configuration.
package exporters

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanExporter builds the span exporter for the named backend: otlp,
// stdout, or none.
func SpanExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "otlp":
		if err := requireOTLPEndpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx)

	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))

	case "none", "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	}
	return nil, fmt.Errorf("unknown tracing exporter %q", name)
}

// MetricReader builds the metrics reader for the named backend: otlp,
// prometheus, stdout, or none.
func MetricReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	switch name {
	case "otlp":
		if err := requireOTLPEndpoint("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); err != nil {
			return nil, err
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "prometheus":
		exp, err := prometheus.New()
		if err != nil {
			return nil, err
		}
		return exp, nil

	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "none", "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	}
	return nil, fmt.Errorf("unknown metrics exporter %q", name)
}

// requireOTLPEndpoint checks the signal-specific endpoint variable, then
// the shared one. The grpc exporters read these themselves; failing early
// here gives a configuration error instead of a connect timeout.
func requireOTLPEndpoint(signalVar string) error {
	if os.Getenv(signalVar) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		return nil
	}
	return fmt.Errorf("no OTLP endpoint: set OTEL_EXPORTER_OTLP_ENDPOINT or %s", signalVar)
}
