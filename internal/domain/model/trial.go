package model

// Trial describes one Monte Carlo resampling trial: Draws i.i.d. samples
// from a fixed categorical distribution, tabulated into per-player
// frequencies. Bucket identifies which repetition-count level the trial
// belongs to.
type Trial struct {
	ID     int
	Bucket int
	Draws  int
	Seed   uint64
}

// TrialResult carries the per-player sample frequencies of one trial.
// Freq is indexed by the roster ordering of the sampled distribution.
type TrialResult struct {
	Trial Trial
	Freq  []float64
}
