package curve

import "math"

// PerfectSquare reports whether n is a perfect square within the given
// tolerance. Negative inputs are never perfect squares. The test compares
// the floating-point square root against its nearest integer, so it admits
// values that round-trip through float64 with small error.
func PerfectSquare(n, tolerance float64) bool {
	if n < 0 {
		return false
	}

	root := math.Sqrt(n)

	return math.Abs(root-math.Round(root)) < tolerance
}

// PerfectSquareInt reports whether n is an exact integer perfect square.
// No tolerance is involved: the floor of the square root is squared back
// and compared against n.
func PerfectSquareInt(n int64) bool {
	if n < 0 {
		return false
	}

	root := isqrt(n)

	return root*root == n
}

// isqrt returns floor(sqrt(n)) for n ≥ 0. The float64 estimate is corrected
// by at most one step in each direction, which covers rounding on inputs
// near 2⁵³.
func isqrt(n int64) int64 {
	if n < 0 {
		return 0
	}

	root := int64(math.Sqrt(float64(n)))

	for root > 0 && root*root > n {
		root--
	}

	for (root+1)*(root+1) <= n {
		root++
	}

	return root
}
