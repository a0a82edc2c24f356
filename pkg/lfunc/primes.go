// Package lfunc approximates the L-function of a short-Weierstrass curve by
// a truncated Euler product over small primes. Local data (point counts mod
// p and Frobenius traces) is computed by deliberately naive baselines whose
// cost is documented on each function; faster drop-in replacements exist but
// the defaults preserve the reference behavior.
package lfunc

// Primes returns the primes ≤ maxPrime in ascending order, via trial
// division. The truncation bound is small (tens to hundreds), so a sieve
// buys nothing here.
func Primes(maxPrime int64) []int64 {
	var primes []int64

	for n := int64(2); n <= maxPrime; n++ {
		if isPrime(n) {
			primes = append(primes, n)
		}
	}

	return primes
}

func isPrime(n int64) bool {
	if n < 2 {
		return false
	}

	for d := int64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}

	return true
}
