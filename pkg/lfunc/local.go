package lfunc

import "github.com/Sumatoshi-tech/curvefang/pkg/curve"

// LocalFactor carries the per-prime data of the curve's L-function:
// the prime P, the point count Np of the reduced curve (including the point
// at infinity, so Np ∈ [1, 2p+1]), and the Frobenius trace Ap = p + 1 − Np.
type LocalFactor struct {
	P  int64 `json:"p"`
	Ap int64 `json:"a_p"`
	Np int64 `json:"n_p"`
}

// CountPoints counts the points on the curve reduced mod p, including the
// point at infinity. For each x in [0, p−1] the reduced right-hand side
// contributes one point when it is zero (the single root y = 0), two when it
// is a quadratic residue (roots ±y), and none otherwise. With the baseline
// residue tester the total cost is O(p²).
func CountPoints(params curve.Params, p int64, residue ResidueTester) int64 {
	count := int64(1) // Point at infinity.

	a := mod(params.A, p)
	b := mod(params.B, p)

	for x := int64(0); x < p; x++ {
		rhs := mod(mulmod(mulmod(x, x, p), x, p)+mulmod(a, x, p)+b, p)

		switch {
		case rhs == 0:
			count++
		case residue(rhs, p):
			count += 2
		}
	}

	return count
}

// FrobeniusTrace returns a_p = p + 1 − N_p, the deviation of the local point
// count from its expected value. Every trace satisfies the Hasse bound
// |a_p| ≤ 2√p.
func FrobeniusTrace(params curve.Params, p int64, residue ResidueTester) int64 {
	return p + 1 - CountPoints(params, p, residue)
}

// Local computes the full per-prime record for the given curve.
func Local(params curve.Params, p int64, residue ResidueTester) LocalFactor {
	np := CountPoints(params, p, residue)

	return LocalFactor{P: p, Ap: p + 1 - np, Np: np}
}
