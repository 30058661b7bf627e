// Package app provides the analysis service that wires the pass filter,
// matrix estimation, steady-state solver, n-step evaluator, Monte Carlo
// simulator and validation metrics into one batch run.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/harpastum/internal/adapters/ingest"
	"github.com/okian/harpastum/internal/adapters/repository"
	"github.com/okian/harpastum/internal/domain/dist"
	"github.com/okian/harpastum/internal/domain/markov"
	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/internal/domain/montecarlo"
	"github.com/okian/harpastum/internal/domain/passes"
	"github.com/okian/harpastum/internal/domain/validate"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// Report bundles every output table of one analysis run. All fields are
// derived, read-only, and recomputed per run; nothing is persisted.
type Report struct {
	Team             string
	Window           passes.Window
	ValidationWindow passes.Window

	// Roster is the frozen ordering every matrix and vector below is
	// indexed by.
	Roster    *model.Roster
	Nicknames map[model.PlayerID]string

	TPM       *markov.TransitionMatrix
	Initial   model.Distribution
	Steady    model.Distribution
	Ranking   []repository.Entry
	NSteps    int
	Projected model.Distribution

	MonteCarlo *montecarlo.Result

	// Empirical is the reception-frequency distribution over the
	// validation window, restricted to the estimation roster.
	Empirical   model.Distribution
	Comparisons []validate.Comparison
}

// Service runs the possession analysis pipeline.
type Service struct {
	team             string
	period           int
	cutoffMinute     int
	validationCutoff int
	nSteps           int
	danglingPolicy   markov.DanglingPolicy

	sampleSize  int
	repetitions []int
	seed        uint64
	workerCount int

	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTeam selects whose possession chain is modelled.
func WithTeam(team string) Option {
	return func(s *Service) { s.team = team }
}

// WithWindow bounds the estimation window.
func WithWindow(period, cutoffMinute int) Option {
	return func(s *Service) {
		if period >= 1 {
			s.period = period
		}
		if cutoffMinute > 0 {
			s.cutoffMinute = cutoffMinute
		}
	}
}

// WithValidationCutoff bounds the later window used for validation.
func WithValidationCutoff(minute int) Option {
	return func(s *Service) {
		if minute > 0 {
			s.validationCutoff = minute
		}
	}
}

// WithNSteps sets the exponent for the n-step projection.
func WithNSteps(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.nSteps = n
		}
	}
}

// WithDanglingPolicy selects zero-row handling during matrix construction.
func WithDanglingPolicy(p markov.DanglingPolicy) Option {
	return func(s *Service) { s.danglingPolicy = p }
}

// WithSimulation sets the Monte Carlo parameters.
func WithSimulation(sampleSize int, repetitions []int, seed uint64) Option {
	return func(s *Service) {
		if sampleSize > 0 {
			s.sampleSize = sampleSize
		}
		if len(repetitions) > 0 {
			s.repetitions = repetitions
		}
		s.seed = seed
	}
}

// WithWorkerCount sets the number of trial workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithStore sets the ranking store backing steady-state queries.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		period:           1,
		cutoffMinute:     15,
		validationCutoff: 45,
		nSteps:           3,
		danglingPolicy:   markov.DanglingError,
		sampleSize:       500,
		repetitions:      []int{10, 100, 1000, 10000},
		seed:             42,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Named("analysis")
	}
	return s
}

// Run executes the full pipeline over the given typed events and lineup.
// Any precondition violation (degenerate row, non-ergodic matrix, empty
// window) halts the run for this window: no partially valid tables are
// produced.
func (s *Service) Run(ctx context.Context, events []model.MatchEvent, lineup *ingest.Lineup) (*Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisDuration(time.Since(start).Seconds())
	}()

	window := passes.Window{Team: s.team, Period: s.period, CutoffMinute: s.cutoffMinute}
	s.logger.Info(ctx, "starting possession analysis",
		logger.String("team", s.team),
		logger.Int("period", s.period),
		logger.Int("cutoff_minute", s.cutoffMinute),
	)

	filter := passes.NewFilter(passes.WithLogger(s.logger))

	substituted := filter.Substituted(ctx, events, window)
	baseRoster := model.NewRoster(lineup.TeamPlayers(s.team)).Without(substituted)
	if baseRoster.Size() == 0 {
		return nil, fmt.Errorf("no active players for team %q in window", s.team)
	}

	passList := filter.Passes(ctx, events, window)

	builder := markov.NewBuilder(
		markov.WithDanglingPolicy(s.danglingPolicy),
		markov.WithBuilderLogger(s.logger),
	)
	tpm, err := builder.Build(ctx, passList, baseRoster)
	if err != nil {
		return nil, fmt.Errorf("building transition matrix: %w", err)
	}
	roster := tpm.Roster()

	// The dangling policy may have shrunk the roster; keep every vector
	// aligned with the matrix ordering.
	estPasses := restrict(passList, roster)

	initial, err := dist.Build(ctx, estPasses, roster)
	if err != nil {
		return nil, fmt.Errorf("building initial distribution: %w", err)
	}

	solver := markov.NewSolver(markov.WithSolverLogger(s.logger))
	steady, err := solver.SteadyState(ctx, tpm)
	if err != nil {
		return nil, fmt.Errorf("solving steady state: %w", err)
	}

	for i, id := range roster.IDs() {
		if err := s.store.Upsert(ctx, id, lineup.Nickname(id), steady.Probs[i]); err != nil {
			return nil, fmt.Errorf("ranking steady state: %w", err)
		}
	}
	ranking, err := s.store.TopN(ctx, roster.Size())
	if err != nil {
		return nil, fmt.Errorf("ranking steady state: %w", err)
	}

	evaluator := markov.NewEvaluator(markov.WithEvaluatorLogger(s.logger))
	projected, err := evaluator.Project(ctx, initial, tpm, s.nSteps)
	if err != nil {
		return nil, fmt.Errorf("projecting %d steps: %w", s.nSteps, err)
	}

	simulator := montecarlo.New(
		montecarlo.WithSampleSize(s.sampleSize),
		montecarlo.WithRepetitions(s.repetitions),
		montecarlo.WithSeed(s.seed),
		montecarlo.WithWorkerCount(s.workerCount),
		montecarlo.WithLogger(s.logger),
	)
	mc, err := simulator.Run(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("running monte carlo simulation: %w", err)
	}

	validationWindow := passes.Window{Team: s.team, Period: s.period, CutoffMinute: s.validationCutoff}
	valPasses := restrict(filter.Passes(ctx, events, validationWindow), roster)
	empirical, err := dist.Build(ctx, valPasses, roster)
	if err != nil {
		return nil, fmt.Errorf("building validation distribution: %w", err)
	}

	comparisons, err := s.compare(steady, initial, empirical, mc)
	if err != nil {
		return nil, fmt.Errorf("computing validation metrics: %w", err)
	}

	nicknames := make(map[model.PlayerID]string, roster.Size())
	for _, id := range roster.IDs() {
		nicknames[id] = lineup.Nickname(id)
	}

	s.logger.Info(ctx, "possession analysis finished",
		logger.Int("roster", roster.Size()),
		logger.Int("passes", len(estPasses)),
		logger.Float64("analysis_seconds", time.Since(start).Seconds()),
	)
	return &Report{
		Team:             s.team,
		Window:           window,
		ValidationWindow: validationWindow,
		Roster:           roster,
		Nicknames:        nicknames,
		TPM:              tpm,
		Initial:          initial,
		Steady:           steady,
		Ranking:          ranking,
		NSteps:           s.nSteps,
		Projected:        projected,
		MonteCarlo:       mc,
		Empirical:        empirical,
		Comparisons:      comparisons,
	}, nil
}

// compare builds the RMSE summary table.
func (s *Service) compare(steady, initial, empirical model.Distribution, mc *montecarlo.Result) ([]validate.Comparison, error) {
	out := make([]validate.Comparison, 0, 2+len(mc.Repetitions))

	v, err := validate.RMSE(steady, empirical)
	if err != nil {
		return nil, err
	}
	out = append(out, validate.Comparison{Name: "steady_state_vs_empirical", Value: v})

	v, err = validate.RMSE(steady, initial)
	if err != nil {
		return nil, err
	}
	out = append(out, validate.Comparison{Name: "steady_state_vs_initial", Value: v})

	for b, reps := range mc.Repetitions {
		v, err = validate.RMSEVectors(mc.Average(b), empirical.Probs)
		if err != nil {
			return nil, err
		}
		out = append(out, validate.Comparison{
			Name:  fmt.Sprintf("monte_carlo_r%d_vs_empirical", reps),
			Value: v,
		})
	}
	return out, nil
}

// restrict drops passes with an endpoint outside the roster snapshot.
func restrict(passList []model.Pass, roster *model.Roster) []model.Pass {
	out := make([]model.Pass, 0, len(passList))
	for _, p := range passList {
		if roster.Contains(p.Actor) && roster.Contains(p.Recipient) {
			out = append(out, p)
		}
	}
	return out
}
