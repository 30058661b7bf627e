// Package matchgen produces synthetic raw event and lineup tables for
// integration tests and demo fixtures. Generated matches are seeded and
// reproducible, and always contain an ergodic pass structure for the
// home team: a deterministic pass ring over the roster plus one
// ring-skipping edge, topped up with random open-play passes.
package matchgen

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/okian/harpastum/internal/domain/model"
)

// Default generation parameters.
const (
	defaultPlayersPerTeam = 11
	defaultPassCount      = 300
	defaultSetPieceRate   = 0.08
	defaultFailureRate    = 0.12
	defaultSeed           = 1
)

// Generator builds matched lineup and event tables.
type Generator struct {
	homeTeam       string
	awayTeam       string
	playersPerTeam int
	passCount      int
	setPieceRate   float64
	failureRate    float64
	subMinute      int // 0 disables the substitution event
	seed           uint64
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTeams names the two sides.
func WithTeams(home, away string) Option {
	return func(g *Generator) {
		if home != "" {
			g.homeTeam = home
		}
		if away != "" {
			g.awayTeam = away
		}
	}
}

// WithPlayersPerTeam sets the roster size per side.
func WithPlayersPerTeam(n int) Option {
	return func(g *Generator) {
		if n >= 3 {
			g.playersPerTeam = n
		}
	}
}

// WithPassCount sets the number of random passes generated on top of the
// deterministic ring.
func WithPassCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.passCount = n
		}
	}
}

// WithSubstitution inserts a home-team substitution at the given minute.
func WithSubstitution(minute int) Option {
	return func(g *Generator) {
		if minute > 0 {
			g.subMinute = minute
		}
	}
}

// WithRates sets the set-piece and failed-pass rates of random passes.
func WithRates(setPiece, failure float64) Option {
	return func(g *Generator) {
		if setPiece >= 0 && setPiece < 1 {
			g.setPieceRate = setPiece
		}
		if failure >= 0 && failure < 1 {
			g.failureRate = failure
		}
	}
}

// WithSeed fixes the generator seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// New creates a Generator with defaults.
func New(opts ...Option) *Generator {
	g := &Generator{
		homeTeam:       "Harpastum FC",
		awayTeam:       "Visitors",
		playersPerTeam: defaultPlayersPerTeam,
		passCount:      defaultPassCount,
		setPieceRate:   defaultSetPieceRate,
		failureRate:    defaultFailureRate,
		seed:           defaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HomeTeam returns the generated home team name.
func (g *Generator) HomeTeam() string { return g.homeTeam }

// Lineup returns the lineup table for both sides.
func (g *Generator) Lineup() []model.RawLineupRow {
	rows := make([]model.RawLineupRow, 0, g.playersPerTeam*2)
	for i := 0; i < g.playersPerTeam; i++ {
		rows = append(rows, model.RawLineupRow{
			TeamName:       g.homeTeam,
			PlayerName:     g.playerName(g.homeTeam, i),
			PlayerNickname: fmt.Sprintf("H%d", i+1),
		})
	}
	for i := 0; i < g.playersPerTeam; i++ {
		rows = append(rows, model.RawLineupRow{
			TeamName:       g.awayTeam,
			PlayerName:     g.playerName(g.awayTeam, i),
			PlayerNickname: fmt.Sprintf("A%d", i+1),
		})
	}
	return rows
}

// Events returns the raw event table, ordered by minute.
func (g *Generator) Events() []model.RawEvent {
	rng := rand.New(rand.NewSource(g.seed))
	var rows []model.RawEvent

	// Deterministic ring in the opening minutes: player i passes to i+1,
	// and player 0 additionally skips to player 2. Cycle lengths n and
	// n-1 are coprime, so the home chain is irreducible and aperiodic
	// regardless of the random passes below.
	n := g.playersPerTeam
	for i := 0; i < n; i++ {
		rows = append(rows, g.pass(len(rows), 1, i%5, g.homeTeam, i, (i+1)%n, "", false))
	}
	rows = append(rows, g.pass(len(rows), 1, 5, g.homeTeam, 0, 2, "", false))

	for i := 0; i < g.passCount; i++ {
		minute := rng.Intn(90)
		period := 1
		if minute >= 45 {
			period = 2
		}
		team := g.homeTeam
		if rng.Float64() < 0.35 {
			team = g.awayTeam
		}
		actor := rng.Intn(n)
		recipient := rng.Intn(n - 1)
		if recipient >= actor {
			recipient++
		}
		subType := ""
		switch r := rng.Float64(); {
		case r < g.setPieceRate/3:
			subType = model.SubTypeCorner
		case r < 2*g.setPieceRate/3:
			subType = model.SubTypeThrowIn
		case r < g.setPieceRate:
			subType = model.SubTypeGoalKick
		}
		failed := rng.Float64() < g.failureRate
		rows = append(rows, g.pass(len(rows), period, minute, team, actor, recipient, subType, failed))
	}

	if g.subMinute > 0 {
		replacement := g.playerName(g.homeTeam, n-1)
		rows = append(rows, model.RawEvent{
			ID:                          fmt.Sprintf("gen-%d", len(rows)),
			Period:                      periodOf(g.subMinute),
			Minute:                      g.subMinute,
			TypeName:                    string(model.KindSubstitution),
			TeamName:                    g.homeTeam,
			PlayerName:                  g.playerName(g.homeTeam, n-2),
			SubstitutionReplacementName: &replacement,
		})
	}
	return rows
}

func (g *Generator) pass(id, period, minute int, team string, actor, recipient int, subType string, failed bool) model.RawEvent {
	e := model.RawEvent{
		ID:         fmt.Sprintf("gen-%d", id),
		Period:     period,
		Minute:     minute,
		Second:     id % 60,
		TypeName:   string(model.KindPass),
		TeamName:   team,
		PlayerName: g.playerName(team, actor),
	}
	rec := g.playerName(team, recipient)
	e.PassRecipientName = &rec
	if subType != "" {
		st := subType
		e.SubTypeName = &st
	}
	if failed {
		outcome := "Incomplete"
		e.OutcomeName = &outcome
	}
	return e
}

func (g *Generator) playerName(team string, i int) string {
	return fmt.Sprintf("%s Player %02d", team, i+1)
}

func periodOf(minute int) int {
	if minute >= 45 {
		return 2
	}
	return 1
}
