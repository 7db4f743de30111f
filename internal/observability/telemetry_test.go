package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTelemetry_SetsProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTelemetry(context.Background(), "voxelstream-test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "ожидался SDK TracerProvider")

	// Спанов нет, поэтому завершение не обращается к коллектору
	assert.NoError(t, shutdown(context.Background()))
}

func TestNoop(t *testing.T) {
	var fn ShutdownFunc = Noop
	assert.NoError(t, fn(context.Background()))
}
