// Package validate compares probability distributions over the common
// player index using root-mean-square error.
package validate

import (
	"errors"
	"math"

	"github.com/okian/harpastum/internal/domain/model"
)

// ErrMisalignedDistributions marks a comparison between vectors whose
// roster orderings differ. Alignment is by player identity, not by
// position; a caller handing over misordered vectors has a bug that must
// fail loudly rather than produce a meaningless number.
var ErrMisalignedDistributions = errors.New("distributions are not aligned by roster ordering")

// Comparison is one row of the RMSE summary table.
type Comparison struct {
	Name  string
	Value float64
}

// RMSE returns sqrt(mean((a_i - b_i)^2)) over all players. Symmetric in
// its arguments, non-negative, and zero iff the distributions are equal.
func RMSE(a, b model.Distribution) (float64, error) {
	if !a.AlignedWith(b) {
		return 0, ErrMisalignedDistributions
	}
	n := len(a.Probs)
	if n == 0 {
		return 0, ErrMisalignedDistributions
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a.Probs[i] - b.Probs[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n)), nil
}

// RMSEVectors compares two raw vectors that the caller asserts share the
// same player ordering, e.g. a Monte Carlo average against the sampled
// distribution over the same roster.
func RMSEVectors(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrMisalignedDistributions
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a))), nil
}
