// Package dist computes empirical reception-frequency distributions over
// a roster snapshot. The result serves both as the Markov initial state
// and as the Monte Carlo sampling distribution; at later cutoffs it is
// the empirical reference the steady state is validated against.
package dist

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/harpastum/internal/domain/model"
)

// Sentinel kinds for distribution construction errors.
var (
	// ErrNoReceptions marks a window with zero counted receptions; an
	// empty vector cannot be normalized into a distribution.
	ErrNoReceptions = errors.New("no receptions in window")

	// ErrRecipientOutsideRoster marks a pass received by a player who is
	// not in the roster snapshot the distribution is built over.
	ErrRecipientOutsideRoster = errors.New("recipient outside roster snapshot")
)

// Build counts pass receptions per roster member across the filtered
// window and normalizes by the total: q[i] = receptions(i) / total.
// A player who never receives a pass keeps q[i] = 0, which is valid;
// the whole vector sums to 1.
func Build(_ context.Context, passList []model.Pass, roster *model.Roster) (model.Distribution, error) {
	counts := make([]float64, roster.Size())
	var total float64
	for _, p := range passList {
		i, ok := roster.Index(p.Recipient)
		if !ok {
			return model.Distribution{}, fmt.Errorf("%w: %s", ErrRecipientOutsideRoster, p.Recipient)
		}
		counts[i]++
		total++
	}
	if total == 0 {
		return model.Distribution{}, ErrNoReceptions
	}
	for i := range counts {
		counts[i] /= total
	}
	return model.NewDistribution(roster, counts), nil
}
