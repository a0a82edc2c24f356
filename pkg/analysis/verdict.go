package analysis

import "math"

// Verdict classifies a curve's BSD-consistency check.
type Verdict int

// Verdict values.
const (
	// VerdictInconsistent means the L-value and the rank estimate disagree
	// with the conjecture's prediction.
	VerdictInconsistent Verdict = iota
	// VerdictConsistent means the L-value and the rank estimate agree with
	// the conjecture's prediction.
	VerdictConsistent
	// VerdictErrored marks a curve whose analysis failed; the sweep
	// continues past it.
	VerdictErrored
)

// DefaultConsistencyTolerance decides when the L-value counts as vanishing.
const DefaultConsistencyTolerance = 1e-6

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case VerdictConsistent:
		return "consistent"
	case VerdictInconsistent:
		return "inconsistent"
	case VerdictErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so verdicts serialize as
// their names in JSON payloads.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "consistent":
		*v = VerdictConsistent
	case "errored":
		*v = VerdictErrored
	default:
		*v = VerdictInconsistent
	}

	return nil
}

// CheckConsistency compares the approximated L-value at s=1 against the
// rank estimate. The conjecture predicts a vanishing L-value exactly for
// positive rank, so:
//
//	|L| <  tolerance AND rank > 0  → consistent
//	|L| ≥ tolerance AND rank == 0  → consistent
//
// Every other combination is inconsistent. The two mismatch modes
// (non-vanishing L with positive rank, vanishing L with zero rank) are
// deliberately not distinguished.
func CheckConsistency(lAt1 float64, rank int, tolerance float64) Verdict {
	vanishes := math.Abs(lAt1) < tolerance

	if (vanishes && rank > 0) || (!vanishes && rank == 0) {
		return VerdictConsistent
	}

	return VerdictInconsistent
}
