package telemetry

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_Disabled(t *testing.T) {
	provider, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNew_InstallsPropagator(t *testing.T) {
	_, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestPropagator_InjectsTraceparent(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "GET /issues")
	defer span.End()

	header := http.Header{}
	Propagator().Inject(ctx, propagation.HeaderCarrier(header))

	assert.NotEmpty(t, header.Get("traceparent"))
	assert.Contains(t, header.Get("traceparent"), span.SpanContext().TraceID().String())
}

func TestNew_Enabled(t *testing.T) {
	// gRPC exporters dial lazily, so construction succeeds without a collector.
	provider, err := New(context.Background(), &Config{
		Enabled:      true,
		Endpoint:     "localhost:4317",
		Insecure:     true,
		ServiceName:  "github-issues",
		Version:      "test",
		Environment:  "test",
		SamplingRate: 1,
	})
	require.NoError(t, err)
	assert.True(t, provider.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = provider.Shutdown(ctx)
}
