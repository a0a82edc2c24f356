package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

func testConfig() analysis.Config {
	cfg := analysis.DefaultConfig()
	cfg.Bound = 25
	cfg.MaxPrime = 50

	return cfg
}

func TestNewAnalyzer_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*analysis.Config)
	}{
		{"zero step", func(c *analysis.Config) { c.Step = 0 }},
		{"negative step", func(c *analysis.Config) { c.Step = -1 }},
		{"zero bound", func(c *analysis.Config) { c.Bound = 0 }},
		{"max prime below 2", func(c *analysis.Config) { c.MaxPrime = 1 }},
		{"zero tolerance", func(c *analysis.Config) { c.Tolerance = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tc.mutate(&cfg)

			_, err := analysis.NewAnalyzer(cfg)
			require.ErrorIs(t, err, analysis.ErrInvalidConfig)
		})
	}
}

func TestAnalyzer_Analyze_KnownCurve(t *testing.T) {
	t.Parallel()

	analyzer, err := analysis.NewAnalyzer(testConfig())
	require.NoError(t, err)

	result := analyzer.Analyze(context.Background(), curve.Params{A: -5, B: 5})

	assert.Equal(t, curve.Params{A: -5, B: 5}, result.Params)
	assert.Len(t, result.Points, 6)
	assert.Equal(t, 2, result.RankEstimate)
	assert.Equal(t, 15, result.PrimesUsed)
	assert.Empty(t, result.Error)
	assert.NotEqual(t, analysis.VerdictErrored, result.Verdict)
	assert.Positive(t, result.Elapsed)
}

func TestAnalyzer_Analyze_Deterministic(t *testing.T) {
	t.Parallel()

	analyzer, err := analysis.NewAnalyzer(testConfig())
	require.NoError(t, err)

	params := curve.Params{A: -1, B: 0}

	first := analyzer.Analyze(context.Background(), params)
	second := analyzer.Analyze(context.Background(), params)

	first.Elapsed = 0
	second.Elapsed = 0
	assert.Equal(t, first, second)
}

func TestAnalyzer_Analyze_CancelledContext(t *testing.T) {
	t.Parallel()

	analyzer, err := analysis.NewAnalyzer(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := analyzer.Analyze(ctx, curve.Params{A: 1, B: 1})

	assert.Equal(t, analysis.VerdictErrored, result.Verdict)
	assert.NotEmpty(t, result.Error)
}

func TestAnalyzer_Analyze_TimeBudget(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CurveTimeout = time.Nanosecond

	analyzer, err := analysis.NewAnalyzer(cfg)
	require.NoError(t, err)

	// The nanosecond budget expires before the context check after the
	// point search, marking the cell errored instead of stalling.
	result := analyzer.Analyze(context.Background(), curve.Params{A: -5, B: 5})

	assert.Equal(t, analysis.VerdictErrored, result.Verdict)
}
