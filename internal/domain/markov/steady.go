package markov

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
)

// Solver tolerance defaults.
const (
	defaultImagTolerance = 1e-8
	defaultSignTolerance = 1e-8
	defaultGapTolerance  = 1e-6
)

// Solver extracts the stationary distribution of an ergodic transition
// matrix from the dominant eigenvector of its transpose.
//
// Ergodicity (irreducible, aperiodic over the active roster) is a
// documented precondition, not verified structurally: per the
// Perron-Frobenius theorem an ergodic row-stochastic matrix has a unique
// real dominant eigenvalue of 1 with a strictly one-signed eigenvector.
// Inputs violating that surface as ErrNotErgodic.
type Solver struct {
	imagTol float64
	signTol float64
	gapTol  float64
	logger  logger.Logger
}

// SolverOption applies a configuration option to the Solver.
type SolverOption func(*Solver)

// WithSolverLogger sets a custom logger for the solver.
func WithSolverLogger(l logger.Logger) SolverOption {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGapTolerance overrides the minimum magnitude gap required between
// the dominant eigenvalue and the rest of the spectrum.
func WithGapTolerance(tol float64) SolverOption {
	return func(s *Solver) {
		if tol > 0 {
			s.gapTol = tol
		}
	}
}

// NewSolver creates a Solver with default tolerances.
func NewSolver(opts ...SolverOption) *Solver {
	s := &Solver{
		imagTol: defaultImagTolerance,
		signTol: defaultSignTolerance,
		gapTol:  defaultGapTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("markov")
	}
	return s
}

// SteadyState computes the distribution pi satisfying pi = pi P:
// eigen-decompose P transpose, select the eigenvalue closest to 1,
// take the real part of its eigenvector, sign-normalize (the raw vector
// may be uniformly negated) and scale to sum 1.
func (s *Solver) SteadyState(ctx context.Context, tm *TransitionMatrix) (model.Distribution, error) {
	n := tm.Dim()
	pt := mat.NewDense(n, n, nil)
	pt.Copy(tm.Dense().T())

	var eig mat.Eigen
	if ok := eig.Factorize(pt, mat.EigenRight); !ok {
		return model.Distribution{}, fmt.Errorf("%w: eigen-decomposition did not converge", ErrNotErgodic)
	}

	values := eig.Values(nil)
	dom := 0
	for i, v := range values {
		if cmplx.Abs(v-1) < cmplx.Abs(values[dom]-1) {
			dom = i
		}
	}
	domVal := values[dom]
	if math.Abs(imag(domVal)) > s.imagTol {
		return model.Distribution{}, fmt.Errorf("%w: dominant eigenvalue %v is complex", ErrNotErgodic, domVal)
	}
	for i, v := range values {
		if i == dom {
			continue
		}
		if cmplx.Abs(v) > cmplx.Abs(domVal)-s.gapTol {
			return model.Distribution{}, fmt.Errorf("%w: dominant eigenvalue is not unique (competing magnitude %.9f)", ErrNotErgodic, cmplx.Abs(v))
		}
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	pi := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		v := vectors.At(i, dom)
		if math.Abs(imag(v)) > s.imagTol {
			return model.Distribution{}, fmt.Errorf("%w: dominant eigenvector has complex component at index %d", ErrNotErgodic, i)
		}
		pi[i] = real(v)
		sum += pi[i]
	}
	if sum < 0 {
		for i := range pi {
			pi[i] = -pi[i]
		}
		sum = -sum
	}
	if sum < s.signTol {
		return model.Distribution{}, fmt.Errorf("%w: dominant eigenvector sums to zero", ErrNotErgodic)
	}
	for i := range pi {
		if pi[i] < -s.signTol {
			return model.Distribution{}, fmt.Errorf("%w: dominant eigenvector has mixed signs at index %d", ErrNotErgodic, i)
		}
		if pi[i] < 0 {
			pi[i] = 0
		}
		pi[i] /= sum
	}

	s.logger.Debug(ctx, "steady state solved",
		logger.Int("dim", n),
		logger.Float64("dominant_eigenvalue", real(domVal)),
	)
	return model.NewDistribution(tm.Roster(), pi), nil
}
