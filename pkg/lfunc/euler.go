package lfunc

import (
	"math"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

// DefaultMaxPrime is the default truncation bound of the Euler product.
const DefaultMaxPrime = 100

// singularEpsilon is the perturbation used to resolve a local denominator
// that vanishes exactly at s = 1. The product is finite and rational in
// p^(−s), so the singularity is removable and a one-sided numeric limit
// suffices.
const singularEpsilon = 1e-9

// Approximation is the truncated Euler-product approximation of L(E, s)
// evaluated at s = 1.
type Approximation struct {
	// ValueAt1 is the approximated L-value at s = 1.
	ValueAt1 float64 `json:"value_at_1"`
	// PrimesUsed lists the primes of the truncated product, ascending.
	PrimesUsed []int64 `json:"primes_used"`
	// Factors holds the per-prime local data in the same order.
	Factors []LocalFactor `json:"factors"`
	// Limited is true when a vanishing local denominator forced the value
	// to be resolved as a limit s → 1 instead of direct substitution.
	Limited bool `json:"limited"`
}

// EulerProduct builds the truncated L-function of the curve from local
// factors over all primes ≤ maxPrime and evaluates it at s = 1. Each local
// factor is (1 − a_p·p^(−s) + p^(1−2s))^(−1). When some denominator is
// exactly zero at s = 1, the whole product is instead evaluated at
// s = 1 + ε, which resolves the removable singularity without a division
// fault.
func EulerProduct(params curve.Params, maxPrime int64, residue ResidueTester) Approximation {
	primes := Primes(maxPrime)

	factors := make([]LocalFactor, len(primes))
	for i, p := range primes {
		factors[i] = Local(params, p, residue)
	}

	approx := Approximation{
		PrimesUsed: primes,
		Factors:    factors,
	}

	value, singular := evaluateAt(factors, 1)
	if singular {
		value, _ = evaluateAt(factors, 1+singularEpsilon)
		approx.Limited = true
	}

	approx.ValueAt1 = value

	return approx
}

// evaluateAt computes the product of local factors at the given s. The
// second return is true when some denominator is exactly zero, in which
// case the returned value is meaningless and the caller must re-evaluate at
// a perturbed s.
func evaluateAt(factors []LocalFactor, s float64) (float64, bool) {
	product := 1.0

	for _, f := range factors {
		p := float64(f.P)
		denom := 1 - float64(f.Ap)*math.Pow(p, -s) + math.Pow(p, 1-2*s)

		if denom == 0 {
			return 0, true
		}

		product /= denom
	}

	return product, false
}
