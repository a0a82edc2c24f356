package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName = "curvefang"
	meterName  = "curvefang"
)

// Config controls which providers are real and which are no-ops.
type Config struct {
	// Service is the service name attached to telemetry and logs.
	Service string
	// Level is the minimum log level.
	Level slog.Level
	// Metrics enables the prometheus-backed meter provider.
	Metrics bool
	// Tracing enables span recording.
	Tracing bool
}

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// Registry is the prometheus registry backing the meter; nil when
	// metrics are disabled.
	Registry *prometheus.Registry

	// Shutdown flushes pending telemetry. Must be called before exit.
	Shutdown func(ctx context.Context) error
}

// Init builds providers per the config. Disabled concerns get no-op
// implementations with zero overhead on the sweep loop.
func Init(cfg Config) (Providers, error) {
	if cfg.Service == "" {
		cfg.Service = meterName
	}

	logger := slog.New(NewTracingHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level}),
		cfg.Service,
	))

	providers := Providers{
		Tracer:   nooptrace.NewTracerProvider().Tracer(tracerName),
		Meter:    noopmetric.NewMeterProvider().Meter(meterName),
		Logger:   logger,
		Shutdown: func(context.Context) error { return nil },
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.Service),
	))
	if err != nil {
		return Providers{}, fmt.Errorf("build resource: %w", err)
	}

	var shutdowns []func(context.Context) error

	if cfg.Tracing {
		tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
		providers.Tracer = tp.Tracer(tracerName)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.Metrics {
		registry := prometheus.NewRegistry()

		exporter, exporterErr := otelprom.New(otelprom.WithRegisterer(registry))
		if exporterErr != nil {
			return Providers{}, fmt.Errorf("build prometheus exporter: %w", exporterErr)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.Meter = mp.Meter(meterName)
		providers.Registry = registry
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	providers.Shutdown = func(ctx context.Context) error {
		for _, fn := range shutdowns {
			shutdownErr := fn(ctx)
			if shutdownErr != nil {
				return fmt.Errorf("observability shutdown: %w", shutdownErr)
			}
		}

		return nil
	}

	return providers, nil
}
