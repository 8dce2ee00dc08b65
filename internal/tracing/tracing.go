// Package tracing sets up the process-wide OpenTelemetry tracer provider.
// Each cmd/*/main.go calls Init once at startup; named tracers are then
// obtained from the globally registered provider via Tracer. The ingest
// orchestrator opens one span per list crawl, and the otelhttp/otelaws
// instrumentation adds a span per archive fetch and per DynamoDB call.
// Incoming query-server HTTP requests are not traced.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Init installs a TracerProvider for serviceName and registers it globally.
// The returned shutdown func flushes pending spans and must be deferred by
// the caller.
func Init(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// Tracer returns a named tracer from the globally registered provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
