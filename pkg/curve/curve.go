// Package curve provides the short-Weierstrass curve domain model and
// bounded rational point search. A curve is y² = x³ + Ax + B with integer
// coefficients; points are searched on an integer or fractional x lattice.
package curve

import "math"

// Params defines one short-Weierstrass curve y² = x³ + Ax + B.
// Immutable once created.
type Params struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

// Point is a rational point on a curve. For every emitted point,
// |Y² − RHS(X)| stays within the search tolerance.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RHS evaluates the right-hand side x³ + Ax + B at the given x.
func (p Params) RHS(x float64) float64 {
	return x*x*x + float64(p.A)*x + float64(p.B)
}

// RHSInt evaluates x³ + Ax + B exactly for an integer x.
func (p Params) RHSInt(x int64) int64 {
	return x*x*x + p.A*x + p.B
}

// Sample returns n+1 evenly spaced (x, x³+Ax+B) samples over [from, to].
// Consumed by plotting collaborators that draw the real locus of the curve;
// samples where the RHS is negative carry NaN for y.
func (p Params) Sample(from, to float64, n int) []Point {
	if n < 1 || to <= from {
		return nil
	}

	step := (to - from) / float64(n)
	samples := make([]Point, 0, n+1)

	for i := 0; i <= n; i++ {
		x := from + float64(i)*step

		rhs := p.RHS(x)
		if rhs < 0 {
			samples = append(samples, Point{X: x, Y: math.NaN()})

			continue
		}

		samples = append(samples, Point{X: x, Y: math.Sqrt(rhs)})
	}

	return samples
}
