package markov

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
)

// Evaluator answers n-step transition queries: matrix powers of the
// transition matrix and forward projections of an initial distribution.
type Evaluator struct {
	logger logger.Logger
}

// EvaluatorOption applies a configuration option to the Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvaluatorLogger sets a custom logger for the evaluator.
func WithEvaluatorLogger(l logger.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("markov")
	}
	return e
}

// Power computes P^n for n >= 1. The result is itself row-stochastic
// over the same roster ordering: entry (i,j) is the probability of the
// ball moving from player i to player j in exactly n passes.
func (e *Evaluator) Power(ctx context.Context, tm *TransitionMatrix, n int) (*TransitionMatrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidExponent, n)
	}
	var pn mat.Dense
	pn.Pow(tm.p, n)
	return &TransitionMatrix{roster: tm.roster, p: &pn}, nil
}

// Project computes the row vector q^T P^n: the probability mass at each
// player after n transitions from the initial distribution q. The
// distribution must share the matrix's roster ordering.
func (e *Evaluator) Project(ctx context.Context, q model.Distribution, tm *TransitionMatrix, n int) (model.Distribution, error) {
	if q.Roster == nil || !q.Roster.SameOrdering(tm.Roster()) || len(q.Probs) != tm.Dim() {
		return model.Distribution{}, ErrMisalignedRoster
	}
	pn, err := e.Power(ctx, tm, n)
	if err != nil {
		return model.Distribution{}, err
	}

	dim := tm.Dim()
	qVec := mat.NewVecDense(dim, q.Probs)
	var out mat.VecDense
	out.MulVec(pn.p.T(), qVec)

	probs := make([]float64, dim)
	for i := 0; i < dim; i++ {
		probs[i] = out.AtVec(i)
	}
	e.logger.Debug(ctx, "forward projection computed",
		logger.Int("steps", n),
		logger.Int("dim", dim),
	)
	return model.NewDistribution(tm.Roster(), probs), nil
}
