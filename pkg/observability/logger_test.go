package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/observability"
)

func TestTracingHandler_AttachesService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := observability.NewTracingHandler(
		slog.NewTextHandler(&buf, nil), "curvefang")
	logger := slog.New(handler)

	logger.Info("hello")

	assert.Contains(t, buf.String(), "service=curvefang")
	assert.Contains(t, buf.String(), "hello")
}

func TestTracingHandler_NoSpanNoTraceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewTextHandler(&buf, nil), "curvefang"))

	logger.InfoContext(context.Background(), "plain")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestInit_Disabled(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.Config{Service: "test"})
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.Nil(t, providers.Registry)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_MetricsEnabled(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.Config{Service: "test", Metrics: true})
	require.NoError(t, err)

	require.NotNil(t, providers.Registry)

	metrics, err := observability.NewSweepMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	require.NoError(t, providers.Shutdown(context.Background()))
}
