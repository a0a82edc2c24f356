package lfunc

// ResidueTester decides whether n is a quadratic residue modulo the prime p.
// The engine treats the tester as a pure, swappable function; both
// implementations below agree on every input.
type ResidueTester func(n, p int64) bool

// QuadraticResidue reports whether n is a quadratic residue mod p. Zero
// counts as a residue. The scan over i ∈ [1, (p−1)/2] costs O(p) per call;
// this is the reference baseline.
func QuadraticResidue(n, p int64) bool {
	n = mod(n, p)
	if n == 0 {
		return true
	}

	for i := int64(1); i <= (p-1)/2; i++ {
		if mulmod(i, i, p) == n {
			return true
		}
	}

	return false
}

// QuadraticResidueFast is an O(log p) tester using Euler's criterion:
// n is a residue mod an odd prime p iff n^((p−1)/2) ≡ 1 (mod p). For p = 2
// the criterion degenerates; only 0 is reported as a residue there, matching
// the baseline scan whose range [1, 0] is empty.
func QuadraticResidueFast(n, p int64) bool {
	n = mod(n, p)
	if n == 0 {
		return true
	}

	if p == 2 {
		return false
	}

	return powmod(n, (p-1)/2, p) == 1
}

// mod reduces n into [0, p−1] even for negative n.
func mod(n, p int64) int64 {
	r := n % p
	if r < 0 {
		r += p
	}

	return r
}

// mulmod returns a·b mod p without overflow for operands below 2³¹.
func mulmod(a, b, p int64) int64 {
	return a * b % p
}

// powmod returns base^exp mod p by binary exponentiation.
func powmod(base, exp, p int64) int64 {
	base = mod(base, p)
	result := int64(1)

	for exp > 0 {
		if exp&1 == 1 {
			result = mulmod(result, base, p)
		}

		base = mulmod(base, base, p)
		exp >>= 1
	}

	return result
}
