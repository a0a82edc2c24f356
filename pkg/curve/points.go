package curve

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStep is returned when a point search is configured with a
// non-positive x step.
var ErrInvalidStep = errors.New("point search step must be positive")

// DefaultTolerance is the default tolerance for the perfect-square test and
// for deciding whether a y value is distinguishable from zero.
const DefaultTolerance = 1e-9

// FindPoints searches for rational points on the curve by stepping x from
// −bound to +bound by step. Step may be fractional but must be positive.
// For every x where x³+Ax+B is a perfect square within tolerance, the point
// (x, +y) is emitted, followed by (x, −y) when y is beyond tolerance from
// zero, so (x, 0) appears exactly once. The result is ordered by
// increasing x.
func FindPoints(params Params, bound, step, tolerance float64) ([]Point, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidStep, step)
	}

	var points []Point

	for x := -bound; x <= bound; x += step {
		y2 := params.RHS(x)
		if !PerfectSquare(y2, tolerance) {
			continue
		}

		y := math.Sqrt(y2)

		points = append(points, Point{X: x, Y: y})
		if y > tolerance {
			points = append(points, Point{X: x, Y: -y})
		}
	}

	return points, nil
}

// FindIntegerPoints is the exact-integer search variant: x runs over the
// integers in [−bound, bound] and y² = x³+Ax+B is tested with exact integer
// arithmetic. Emission order matches FindPoints.
func FindIntegerPoints(params Params, bound int64) []Point {
	var points []Point

	for x := -bound; x <= bound; x++ {
		y2 := params.RHSInt(x)
		if !PerfectSquareInt(y2) {
			continue
		}

		y := isqrt(y2)

		points = append(points, Point{X: float64(x), Y: float64(y)})
		if y != 0 {
			points = append(points, Point{X: float64(x), Y: float64(-y)})
		}
	}

	return points
}
