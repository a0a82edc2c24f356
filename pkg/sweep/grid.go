// Package sweep iterates the per-curve analysis over a rectangular (a, b)
// grid with progress projection, periodic checkpointing, and cooperative
// cancellation between cells.
package sweep

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

// ErrInvalidGrid is returned when a grid range fails validation.
var ErrInvalidGrid = errors.New("invalid sweep grid")

// Range is one inclusive integer coefficient range with a positive step.
type Range struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end"   yaml:"end"`
	Step  int64 `json:"step"  yaml:"step"`
}

// Count returns the number of values in the range.
func (r Range) Count() int {
	if r.Step <= 0 || r.End < r.Start {
		return 0
	}

	return int((r.End-r.Start)/r.Step) + 1
}

// At returns the i-th value of the range.
func (r Range) At(i int) int64 {
	return r.Start + int64(i)*r.Step
}

// Validate rejects non-positive steps and inverted bounds.
func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidGrid, r.Step)
	}

	if r.End < r.Start {
		return fmt.Errorf("%w: end %d before start %d", ErrInvalidGrid, r.End, r.Start)
	}

	return nil
}

// Grid is the Cartesian product of an a-range and a b-range. Cells are
// visited in a fixed order: a ascending in the outer dimension, b ascending
// in the inner one.
type Grid struct {
	A Range `json:"a" yaml:"a"`
	B Range `json:"b" yaml:"b"`
}

// Validate checks both ranges.
func (g Grid) Validate() error {
	err := g.A.Validate()
	if err != nil {
		return fmt.Errorf("a range: %w", err)
	}

	err = g.B.Validate()
	if err != nil {
		return fmt.Errorf("b range: %w", err)
	}

	return nil
}

// Cells returns the total number of (a, b) cells.
func (g Grid) Cells() int {
	return g.A.Count() * g.B.Count()
}

// CellAt maps a linear index onto curve parameters, following the fixed
// visit order.
func (g Grid) CellAt(i int) curve.Params {
	nb := g.B.Count()

	return curve.Params{
		A: g.A.At(i / nb),
		B: g.B.At(i % nb),
	}
}

// Key returns the canonical string identity of the grid. Checkpoints store
// the key to refuse resuming against a different grid.
func (g Grid) Key() string {
	return fmt.Sprintf("a[%d:%d:%d]b[%d:%d:%d]",
		g.A.Start, g.A.End, g.A.Step,
		g.B.Start, g.B.End, g.B.Step)
}
