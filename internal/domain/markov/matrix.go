// Package markov estimates and analyzes the pass transition matrix:
// construction from counted passes, steady-state extraction via
// eigen-decomposition, and n-step projections.
package markov

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// DanglingPolicy selects how zero-outgoing-pass rows are handled during
// matrix construction.
type DanglingPolicy int

const (
	// DanglingError rejects the construction with ErrDegenerateRow,
	// naming the offending players.
	DanglingError DanglingPolicy = iota

	// DanglingExclude drops the offending players from the roster
	// snapshot and rebuilds over the remainder.
	DanglingExclude
)

// TransitionMatrix is the row-stochastic matrix of one-step pass
// probabilities over a frozen roster ordering. Entry (i,j) estimates
// P(next recipient = j | current holder = i). Immutable after
// construction; full precision is retained for eigen and power work,
// rounding happens only at the presentation boundary.
type TransitionMatrix struct {
	roster *model.Roster
	p      *mat.Dense
}

// Dim returns the matrix dimension (= roster size).
func (m *TransitionMatrix) Dim() int { return m.roster.Size() }

// Roster returns the frozen roster ordering the matrix is indexed by.
func (m *TransitionMatrix) Roster() *model.Roster { return m.roster }

// At returns P[i][j] at full precision.
func (m *TransitionMatrix) At(i, j int) float64 { return m.p.At(i, j) }

// Dense returns a defensive copy of the underlying matrix.
func (m *TransitionMatrix) Dense() *mat.Dense { return mat.DenseCopyOf(m.p) }

// RowSums returns the sum of each row; for a valid matrix every entry is
// 1 up to floating rounding.
func (m *TransitionMatrix) RowSums() []float64 {
	n := m.Dim()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sums[i] += m.p.At(i, j)
		}
	}
	return sums
}

// Rounded returns the matrix rounded to the given number of decimals,
// for display only.
func (m *TransitionMatrix) Rounded(decimals int) [][]float64 {
	n := m.Dim()
	scale := math.Pow(10, float64(decimals))
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = math.Round(m.p.At(i, j)*scale) / scale
		}
	}
	return out
}

// Builder aggregates filtered passes into a TransitionMatrix.
type Builder struct {
	policy DanglingPolicy
	logger logger.Logger
}

// BuilderOption applies a configuration option to the Builder.
type BuilderOption func(*Builder)

// WithDanglingPolicy selects the zero-row handling policy.
func WithDanglingPolicy(p DanglingPolicy) BuilderOption {
	return func(b *Builder) { b.policy = p }
}

// WithBuilderLogger sets a custom logger for the builder.
func WithBuilderLogger(l logger.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder. The default policy rejects degenerate rows.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{policy: DanglingError}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Named("markov")
	}
	return b
}

// Build folds the pass sequence into outgoing and pairwise counts and
// normalizes each row into probabilities. Every pass endpoint must be a
// member of the roster snapshot. Players with zero outgoing passes are
// handled per the dangling policy; with DanglingExclude the returned
// matrix may cover a smaller roster than the input (exclusion can cascade
// when dropping a receiver empties another row).
func (b *Builder) Build(ctx context.Context, passList []model.Pass, roster *model.Roster) (*TransitionMatrix, error) {
	for _, p := range passList {
		if !roster.Contains(p.Actor) {
			return nil, fmt.Errorf("%w: actor %s", ErrPassOutsideRoster, p.Actor)
		}
		if !roster.Contains(p.Recipient) {
			return nil, fmt.Errorf("%w: recipient %s", ErrPassOutsideRoster, p.Recipient)
		}
	}

	active := roster
	for {
		dangling := danglingPlayers(passList, active)
		if len(dangling) == 0 {
			break
		}
		for range dangling {
			metrics.RecordDegenerateRow()
		}
		if b.policy == DanglingError {
			return nil, fmt.Errorf("%w: no outgoing passes for %s", ErrDegenerateRow, joinIDs(dangling))
		}
		b.logger.Warn(ctx, "excluding dangling states from roster snapshot",
			logger.Int("count", len(dangling)),
			logger.String("players", joinIDs(dangling)),
		)
		excluded := make(map[model.PlayerID]bool, len(dangling))
		for _, id := range dangling {
			excluded[id] = true
		}
		active = active.Without(excluded)
		if active.Size() == 0 {
			return nil, fmt.Errorf("%w: every state is dangling", ErrDegenerateRow)
		}
	}

	n := active.Size()
	sent := make([]float64, n)
	pair := make(map[[2]int]float64)
	for _, p := range passList {
		i, ok := active.Index(p.Actor)
		if !ok {
			continue
		}
		j, ok := active.Index(p.Recipient)
		if !ok {
			continue
		}
		sent[i]++
		pair[[2]int{i, j}]++
	}

	p := mat.NewDense(n, n, nil)
	for key, c := range pair {
		p.Set(key[0], key[1], c/sent[key[0]])
	}

	b.logger.Debug(ctx, "transition matrix built",
		logger.Int("dim", n),
		logger.Int("passes", len(passList)),
	)
	return &TransitionMatrix{roster: active, p: p}, nil
}

// danglingPlayers returns roster members with no outgoing pass whose
// recipient is also a roster member.
func danglingPlayers(passList []model.Pass, roster *model.Roster) []model.PlayerID {
	out := make(map[model.PlayerID]bool, roster.Size())
	for _, p := range passList {
		if roster.Contains(p.Actor) && roster.Contains(p.Recipient) {
			out[p.Actor] = true
		}
	}
	var dangling []model.PlayerID
	for _, id := range roster.IDs() {
		if !out[id] {
			dangling = append(dangling, id)
		}
	}
	return dangling
}

func joinIDs(ids []model.PlayerID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
