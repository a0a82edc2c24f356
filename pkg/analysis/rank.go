// Package analysis orchestrates the per-curve pipeline: rational point
// search, truncated L-function approximation, rank estimation, and the
// consistency verdict against the Birch–Swinnerton-Dyer prediction.
package analysis

import "github.com/Sumatoshi-tech/curvefang/pkg/curve"

// RankEstimate returns the heuristic rank of a point set: the number of
// distinct x-coordinates minus one, or 0 for an empty set.
//
// This is NOT the Mordell–Weil rank. It is a deliberate simplification
// reproduced for behavioral fidelity; torsion points and saturation are
// ignored entirely. Do not "correct" it.
func RankEstimate(points []curve.Point) int {
	if len(points) == 0 {
		return 0
	}

	distinct := make(map[float64]struct{}, len(points))
	for _, pt := range points {
		distinct[pt.X] = struct{}{}
	}

	return len(distinct) - 1
}
