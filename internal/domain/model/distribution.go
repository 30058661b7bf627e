package model

// Distribution is a probability vector over a frozen roster ordering.
// Entries are non-negative and sum to 1 up to floating rounding.
type Distribution struct {
	Roster *Roster
	Probs  []float64
}

// NewDistribution pairs a probability vector with its roster ordering.
// The slice is used as-is; callers hand over ownership.
func NewDistribution(roster *Roster, probs []float64) Distribution {
	return Distribution{Roster: roster, Probs: probs}
}

// Sum returns the total probability mass.
func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d.Probs {
		s += p
	}
	return s
}

// Prob returns the probability mass at player id, or zero for non-members.
func (d Distribution) Prob(id PlayerID) float64 {
	i, ok := d.Roster.Index(id)
	if !ok {
		return 0
	}
	return d.Probs[i]
}

// AlignedWith reports whether both distributions share the same roster
// ordering, the precondition for entrywise comparison.
func (d Distribution) AlignedWith(other Distribution) bool {
	return d.Roster != nil && d.Roster.SameOrdering(other.Roster) && len(d.Probs) == len(other.Probs)
}
