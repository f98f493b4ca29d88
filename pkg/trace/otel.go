// Package trace wraps an in-process OpenTelemetry TracerProvider. There is
// no server or collector in this module to export spans to, so the
// provider runs without a span processor: spans are created (and can be
// inspected by whatever process embeds this library, via its own global
// TracerProvider) but nothing is shipped over the network from here.
package trace

import (
	"context"

	jaegerPropagator "go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/evannetwork/vade-evan-cl/pkg/logger"
)

// Tracer is a thin wrapper binding a trace.Tracer to the TracerProvider
// that created it, so callers can Shutdown cleanly.
type Tracer struct {
	TP *sdktrace.TracerProvider
	trace.Tracer
	log *logger.Log
}

func newTraceProvider(serviceName string) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
}

// New returns a Tracer for serviceName, installing it as the global
// TracerProvider and a Jaeger-format propagator for trace context carried
// across whatever transport an embedding application uses between the
// issuer, prover and verifier roles.
func New(_ context.Context, serviceName string, log *logger.Log) (*Tracer, error) {
	tracer := &Tracer{
		TP:  newTraceProvider(serviceName),
		log: log,
	}

	otel.SetTracerProvider(tracer.TP)
	otel.SetTextMapPropagator(jaegerPropagator.Jaeger{})

	tracer.Tracer = otel.Tracer(serviceName)

	return tracer, nil
}

// NewForTesting returns a Tracer without touching the process-global
// TracerProvider, so parallel tests don't stomp on each other's tracer.
func NewForTesting(_ context.Context, serviceName string, log *logger.Log) (*Tracer, error) {
	tp := newTraceProvider(serviceName)
	return &Tracer{
		TP:     tp,
		Tracer: tp.Tracer(serviceName),
		log:    log,
	}, nil
}

// Shutdown releases the underlying TracerProvider's resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.log != nil {
		t.log.Info("shutting down tracer")
	}
	return t.TP.Shutdown(ctx)
}
