package curve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

func TestPerfectSquare_Negative(t *testing.T) {
	t.Parallel()

	assert.False(t, curve.PerfectSquare(-1, 1e-9))
	assert.False(t, curve.PerfectSquare(-1e9, 1e-9))
}

func TestPerfectSquare_ExactSquares(t *testing.T) {
	t.Parallel()

	for k := 0; k <= 100; k++ {
		n := float64(k * k)
		assert.True(t, curve.PerfectSquare(n, 1e-9), "k=%d", k)
	}
}

func TestPerfectSquare_NonSquares(t *testing.T) {
	t.Parallel()

	for _, n := range []float64{2, 3, 5, 7, 8, 10, 26, 99} {
		assert.False(t, curve.PerfectSquare(n, 1e-9), "n=%v", n)
	}
}

func TestPerfectSquareInt(t *testing.T) {
	t.Parallel()

	for k := int64(0); k <= 1000; k++ {
		assert.True(t, curve.PerfectSquareInt(k*k), "k=%d", k)
	}

	assert.False(t, curve.PerfectSquareInt(-4))
	assert.False(t, curve.PerfectSquareInt(2))
	assert.False(t, curve.PerfectSquareInt(99))
	assert.False(t, curve.PerfectSquareInt(10000001))
}
