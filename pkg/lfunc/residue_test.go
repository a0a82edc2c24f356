package lfunc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/curvefang/pkg/lfunc"
)

func TestQuadraticResidue_ZeroIsResidue(t *testing.T) {
	t.Parallel()

	for _, p := range []int64{2, 3, 5, 7, 11} {
		assert.True(t, lfunc.QuadraticResidue(0, p), "p=%d", p)
		assert.True(t, lfunc.QuadraticResidue(p, p), "p=%d", p)
	}
}

func TestQuadraticResidue_Mod7(t *testing.T) {
	t.Parallel()

	// Squares mod 7 are {1, 2, 4}.
	residues := map[int64]bool{0: true, 1: true, 2: true, 4: true}

	for n := int64(0); n < 7; n++ {
		assert.Equal(t, residues[n], lfunc.QuadraticResidue(n, 7), "n=%d", n)
	}
}

func TestQuadraticResidue_NegativeInput(t *testing.T) {
	t.Parallel()

	// −3 ≡ 4 (mod 7), a residue.
	assert.True(t, lfunc.QuadraticResidue(-3, 7))
	// −2 ≡ 5 (mod 7), a non-residue.
	assert.False(t, lfunc.QuadraticResidue(-2, 7))
}

func TestQuadraticResidueFast_MatchesBaseline(t *testing.T) {
	t.Parallel()

	for _, p := range lfunc.Primes(50) {
		for n := int64(-p); n <= 2*p; n++ {
			assert.Equal(t,
				lfunc.QuadraticResidue(n, p),
				lfunc.QuadraticResidueFast(n, p),
				"n=%d p=%d", n, p)
		}
	}
}

func TestPrimes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}, lfunc.Primes(50))
	assert.Nil(t, lfunc.Primes(1))
}
