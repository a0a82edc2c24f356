package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
	"github.com/Sumatoshi-tech/curvefang/pkg/export"
)

func TestWriteCurvePlot_RendersHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	points := curve.FindIntegerPoints(curve.Params{A: -5, B: 5}, 25)

	err := export.WriteCurvePlot(&buf, curve.Params{A: -5, B: 5}, points, 25)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "rational points")
}

func TestWriteSummaryPage_RendersAllCharts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.WriteSummaryPage(&buf, sampleResults())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Rank Distribution")
	assert.Contains(t, out, "L(1) vs Rank Estimate")
	assert.Contains(t, out, "Rank Heat Map")
	assert.Contains(t, out, "Verdict Distribution")
}

func TestWriteSummaryPage_EmptyResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, export.WriteSummaryPage(&buf, nil))
}
