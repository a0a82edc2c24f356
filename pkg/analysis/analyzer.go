package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
	"github.com/Sumatoshi-tech/curvefang/pkg/lfunc"
)

// ErrInvalidConfig is returned when analyzer parameters fail validation.
var ErrInvalidConfig = errors.New("invalid analyzer configuration")

// Config holds the per-curve analysis parameters.
type Config struct {
	// Bound limits the point search to |x| ≤ Bound.
	Bound float64
	// Step is the x increment of the point search. Must be positive; may
	// be fractional.
	Step float64
	// Tolerance is the perfect-square and zero-y tolerance of the search.
	Tolerance float64
	// MaxPrime truncates the Euler product at primes ≤ MaxPrime.
	MaxPrime int64
	// ConsistencyTolerance decides when the L-value counts as vanishing.
	ConsistencyTolerance float64
	// CurveTimeout bounds one curve's analysis. Zero disables the budget.
	CurveTimeout time.Duration
	// Residue is the quadratic-residue tester. Nil selects the naive
	// baseline.
	Residue lfunc.ResidueTester
}

// DefaultConfig returns the default analysis parameters.
func DefaultConfig() Config {
	return Config{
		Bound:                100,
		Step:                 1,
		Tolerance:            curve.DefaultTolerance,
		MaxPrime:             lfunc.DefaultMaxPrime,
		ConsistencyTolerance: DefaultConsistencyTolerance,
	}
}

// Validate rejects non-positive search and truncation parameters.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidConfig, c.Step)
	}

	if c.Bound <= 0 {
		return fmt.Errorf("%w: bound must be positive, got %v", ErrInvalidConfig, c.Bound)
	}

	if c.MaxPrime < 2 {
		return fmt.Errorf("%w: max prime must be at least 2, got %d", ErrInvalidConfig, c.MaxPrime)
	}

	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidConfig, c.Tolerance)
	}

	return nil
}

// Result is the immutable outcome of analyzing one curve.
type Result struct {
	Params       curve.Params  `json:"params"`
	Points       []curve.Point `json:"points"`
	RankEstimate int           `json:"rank_estimate"`
	LValue       float64       `json:"l_value"`
	PrimesUsed   int           `json:"primes_used"`
	Verdict      Verdict       `json:"verdict"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Error        string        `json:"error,omitempty"`
}

// Analyzer runs the full per-curve pipeline. It holds no mutable state, so
// a single Analyzer is safe for concurrent use across curves.
type Analyzer struct {
	cfg     Config
	residue lfunc.ResidueTester
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	residue := cfg.Residue
	if residue == nil {
		residue = lfunc.QuadraticResidue
	}

	if cfg.ConsistencyTolerance <= 0 {
		cfg.ConsistencyTolerance = DefaultConsistencyTolerance
	}

	return &Analyzer{cfg: cfg, residue: residue}, nil
}

// Analyze runs point search, Euler product, rank estimation, and the
// consistency check for one curve. Failures never escape: a panic or an
// exceeded time budget yields a result with VerdictErrored so a sweep can
// continue past the cell.
func (a *Analyzer) Analyze(ctx context.Context, params curve.Params) (result Result) {
	start := time.Now()

	result = Result{Params: params}

	defer func() {
		result.Elapsed = time.Since(start)

		if r := recover(); r != nil {
			result.Verdict = VerdictErrored
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if a.cfg.CurveTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.cfg.CurveTimeout)
		defer cancel()
	}

	points, err := curve.FindPoints(params, a.cfg.Bound, a.cfg.Step, a.cfg.Tolerance)
	if err != nil {
		result.Verdict = VerdictErrored
		result.Error = err.Error()

		return result
	}

	result.Points = points

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Verdict = VerdictErrored
		result.Error = ctxErr.Error()

		return result
	}

	approx := lfunc.EulerProduct(params, a.cfg.MaxPrime, a.residue)

	result.LValue = approx.ValueAt1
	result.PrimesUsed = len(approx.PrimesUsed)
	result.RankEstimate = RankEstimate(points)
	result.Verdict = CheckConsistency(approx.ValueAt1, result.RankEstimate, a.cfg.ConsistencyTolerance)

	return result
}
