package markov

import "errors"

// Sentinel kinds for Markov-chain construction and analysis errors.
var (
	// ErrDegenerateRow marks a transition matrix row with zero outgoing
	// passes. Such a row cannot be normalized and violates row
	// stochasticity; the chain has a dangling state.
	ErrDegenerateRow = errors.New("degenerate transition row")

	// ErrPassOutsideRoster marks a pass whose endpoint is not in the
	// roster snapshot the matrix is being built over.
	ErrPassOutsideRoster = errors.New("pass endpoint outside roster snapshot")

	// ErrNotErgodic marks a matrix whose dominant eigenstructure does not
	// look like that of an ergodic chain: complex or non-unique dominant
	// eigenvalue, or a mixed-sign dominant eigenvector.
	ErrNotErgodic = errors.New("transition matrix is not ergodic")

	// ErrInvalidExponent marks an n-step query with n < 1.
	ErrInvalidExponent = errors.New("step exponent must be >= 1")

	// ErrMisalignedRoster marks a distribution whose roster ordering does
	// not match the matrix it is combined with.
	ErrMisalignedRoster = errors.New("distribution roster does not match matrix roster")
)
