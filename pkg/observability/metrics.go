package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
)

// SweepMetrics records per-cell sweep measurements. It satisfies the sweep
// driver's Metrics interface.
type SweepMetrics struct {
	curvesProcessed    metric.Int64Counter
	checkpointFailures metric.Int64Counter
	curveDuration      metric.Float64Histogram
}

// NewSweepMetrics creates the sweep instruments on the given meter.
func NewSweepMetrics(meter metric.Meter) (*SweepMetrics, error) {
	curves, err := meter.Int64Counter("curvefang_curves_processed_total",
		metric.WithDescription("Curves analyzed, by verdict."))
	if err != nil {
		return nil, fmt.Errorf("create curves counter: %w", err)
	}

	failures, err := meter.Int64Counter("curvefang_checkpoint_failures_total",
		metric.WithDescription("Checkpoint persistence failures."))
	if err != nil {
		return nil, fmt.Errorf("create checkpoint failures counter: %w", err)
	}

	duration, err := meter.Float64Histogram("curvefang_curve_duration_seconds",
		metric.WithDescription("Per-curve analysis wall time."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &SweepMetrics{
		curvesProcessed:    curves,
		checkpointFailures: failures,
		curveDuration:      duration,
	}, nil
}

// RecordCurve counts one analyzed curve and observes its duration.
func (m *SweepMetrics) RecordCurve(ctx context.Context, elapsed time.Duration, verdict analysis.Verdict) {
	attrs := metric.WithAttributes(attribute.String("verdict", verdict.String()))

	m.curvesProcessed.Add(ctx, 1, attrs)
	m.curveDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordCheckpointFailure counts one failed checkpoint attempt.
func (m *SweepMetrics) RecordCheckpointFailure(ctx context.Context) {
	m.checkpointFailures.Add(ctx, 1)
}
