package sweep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
	"github.com/Sumatoshi-tech/curvefang/pkg/sweep"
)

func TestRange_Count(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, sweep.Range{Start: -2, End: 2, Step: 1}.Count())
	assert.Equal(t, 3, sweep.Range{Start: 0, End: 4, Step: 2}.Count())
	assert.Equal(t, 1, sweep.Range{Start: 7, End: 7, Step: 1}.Count())
	assert.Equal(t, 0, sweep.Range{Start: 0, End: 4, Step: 0}.Count())
	assert.Equal(t, 0, sweep.Range{Start: 4, End: 0, Step: 1}.Count())
}

func TestRange_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, sweep.Range{Start: -2, End: 2, Step: 1}.Validate())
	require.ErrorIs(t, sweep.Range{Start: 0, End: 4, Step: 0}.Validate(), sweep.ErrInvalidGrid)
	require.ErrorIs(t, sweep.Range{Start: 0, End: 4, Step: -1}.Validate(), sweep.ErrInvalidGrid)
	require.ErrorIs(t, sweep.Range{Start: 4, End: 0, Step: 1}.Validate(), sweep.ErrInvalidGrid)
}

func TestGrid_CellOrder(t *testing.T) {
	t.Parallel()

	g := sweep.Grid{
		A: sweep.Range{Start: 0, End: 1, Step: 1},
		B: sweep.Range{Start: 10, End: 12, Step: 1},
	}

	require.Equal(t, 6, g.Cells())

	// Outer dimension a ascending, inner dimension b ascending.
	expected := []curve.Params{
		{A: 0, B: 10}, {A: 0, B: 11}, {A: 0, B: 12},
		{A: 1, B: 10}, {A: 1, B: 11}, {A: 1, B: 12},
	}

	for i, want := range expected {
		assert.Equal(t, want, g.CellAt(i), "cell %d", i)
	}
}

func TestGrid_Key(t *testing.T) {
	t.Parallel()

	g := sweep.Grid{
		A: sweep.Range{Start: -2, End: 2, Step: 1},
		B: sweep.Range{Start: 0, End: 10, Step: 2},
	}

	assert.Equal(t, "a[-2:2:1]b[0:10:2]", g.Key())
}
