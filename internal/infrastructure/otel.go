package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"nokicli/internal/config"
)

const (
	ServiceName    = "noki-evacuation-pipeline"
	ServiceVersion = "v1.0.0"
	TracerName     = "nokicli"
)

// TracingProviders holds the tracing provider and tracer for the pipeline.
// The pipeline is a short-lived batch process, so the stdout exporter is
// sufficient; it is disabled unless enabled in configuration.
type TracingProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
}

// InitializeTracing sets up the global tracer provider. When tracing is
// disabled a noop tracer is returned so callers never need nil checks.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*TracingProviders, error) {
	if !cfg.Enabled {
		return &TracingProviders{
			Tracer: noop.NewTracerProvider().Tracer(TracerName),
		}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("Tracing initialized",
		slog.String("service", ServiceName),
		slog.String("exporter", "stdout"))

	return &TracingProviders{
		TracerProvider: tp,
		Tracer:         tp.Tracer(TracerName),
	}, nil
}

// Shutdown flushes and stops the tracer provider if one was created
func (p *TracingProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.TracerProvider == nil {
		return nil
	}
	return p.TracerProvider.Shutdown(ctx)
}
