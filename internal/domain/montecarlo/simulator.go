// Package montecarlo validates a distribution empirically by repeated
// i.i.d. resampling: each trial draws a fixed number of samples from the
// initial distribution (NOT a chain walk), and per-player frequencies are
// averaged over increasing repetition counts. By the law of large numbers
// the averages converge to the sampled distribution itself.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/harpastum/internal/adapters/mq/queue"
	"github.com/okian/harpastum/internal/adapters/mq/worker"
	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
)

// Default simulation parameters.
const (
	defaultSampleSize = 500
	defaultSeed       = 42
)

var defaultRepetitions = []int{10, 100, 1000, 10000}

// Sentinel kinds for simulation errors.
var (
	// ErrInvalidDistribution marks a sampling distribution that is empty,
	// carries a negative entry, or sums to zero.
	ErrInvalidDistribution = errors.New("invalid sampling distribution")

	// ErrIncompleteSimulation marks a run where some trials never
	// delivered results.
	ErrIncompleteSimulation = errors.New("simulation incomplete")
)

// Result tabulates repetition-averaged frequencies: one row per player
// (in the sampled distribution's roster ordering), one column per
// repetition count.
type Result struct {
	Roster      *model.Roster
	SampleSize  int
	Repetitions []int
	// Averages[b][i] is the frequency of player i averaged over
	// Repetitions[b] trials.
	Averages [][]float64
}

// Average returns the averaged frequency vector for the given
// repetition-count level.
func (r *Result) Average(bucket int) []float64 { return r.Averages[bucket] }

// Simulator runs the resampling experiment on a pool of trial workers.
// Trials are independent and combined by averaging, a commutative
// reduction, so parallel execution order never changes the result.
type Simulator struct {
	sampleSize  int
	repetitions []int
	seed        uint64
	workerCount int
	logger      logger.Logger
}

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithSampleSize sets the number of draws per trial.
func WithSampleSize(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithRepetitions sets the ladder of trial counts to average over.
func WithRepetitions(reps []int) Option {
	return func(s *Simulator) {
		if len(reps) > 0 {
			s.repetitions = reps
		}
	}
}

// WithSeed fixes the random seed; per-trial streams are derived from it,
// keeping runs reproducible regardless of worker scheduling.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithWorkerCount sets the number of trial workers.
func WithWorkerCount(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithLogger sets a custom logger for the simulator.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Simulator with default parameters.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		sampleSize:  defaultSampleSize,
		repetitions: defaultRepetitions,
		seed:        defaultSeed,
		workerCount: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("montecarlo")
	}
	return s
}

// Run executes the full repetition ladder against q and returns the
// averaged-frequency table.
func (s *Simulator) Run(ctx context.Context, q model.Distribution) (*Result, error) {
	if err := checkDistribution(q); err != nil {
		return nil, err
	}
	dim := len(q.Probs)

	total := 0
	for _, r := range s.repetitions {
		total += r
	}

	acc := newAccumulator(len(s.repetitions), dim)
	trialQueue := queue.NewInMemoryQueue(queue.WithCapacity(total))
	pool := worker.NewPool(s.workerCount, trialQueue, &categoricalSampler{weights: q.Probs}, acc)
	pool.Start(ctx)

	id := 0
	for bucket, reps := range s.repetitions {
		for r := 0; r < reps; r++ {
			t := model.Trial{
				ID:     id,
				Bucket: bucket,
				Draws:  s.sampleSize,
				Seed:   s.seed + uint64(id),
			}
			if !trialQueue.Enqueue(ctx, t) {
				_ = trialQueue.Close()
				pool.Wait()
				return nil, fmt.Errorf("%w: trial %d rejected by queue", ErrIncompleteSimulation, id)
			}
			id++
		}
	}
	_ = trialQueue.Close()
	pool.Wait()

	averages := make([][]float64, len(s.repetitions))
	for bucket, reps := range s.repetitions {
		if acc.counts[bucket] != reps {
			return nil, fmt.Errorf("%w: bucket %d collected %d of %d trials",
				ErrIncompleteSimulation, bucket, acc.counts[bucket], reps)
		}
		avg := make([]float64, dim)
		for i := 0; i < dim; i++ {
			avg[i] = acc.sums[bucket][i] / float64(reps)
		}
		averages[bucket] = avg
	}

	s.logger.Info(ctx, "monte carlo simulation finished",
		logger.Int("trials", total),
		logger.Int("sample_size", s.sampleSize),
		logger.Int("buckets", len(s.repetitions)),
	)
	return &Result{
		Roster:      q.Roster,
		SampleSize:  s.sampleSize,
		Repetitions: append([]int(nil), s.repetitions...),
		Averages:    averages,
	}, nil
}

func checkDistribution(q model.Distribution) error {
	if len(q.Probs) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidDistribution)
	}
	var sum float64
	for i, p := range q.Probs {
		if p < 0 {
			return fmt.Errorf("%w: negative mass at index %d", ErrInvalidDistribution, i)
		}
		sum += p
	}
	if sum == 0 {
		return fmt.Errorf("%w: zero total mass", ErrInvalidDistribution)
	}
	return nil
}

// categoricalSampler draws i.i.d. player indices from a fixed categorical
// distribution. Each trial gets its own rand stream from the trial seed.
type categoricalSampler struct {
	weights []float64
}

// Sample runs one trial: Draws samples with replacement, tabulated into
// per-player frequencies.
func (c *categoricalSampler) Sample(_ context.Context, t model.Trial) ([]float64, error) {
	src := rand.NewSource(t.Seed)
	cat := distuv.NewCategorical(c.weights, src)

	counts := make([]float64, len(c.weights))
	for i := 0; i < t.Draws; i++ {
		counts[int(cat.Rand())]++
	}
	for i := range counts {
		counts[i] /= float64(t.Draws)
	}
	return counts, nil
}

// accumulator sums trial frequency vectors per repetition bucket.
type accumulator struct {
	mu     sync.Mutex
	sums   [][]float64
	counts []int
}

func newAccumulator(buckets, dim int) *accumulator {
	sums := make([][]float64, buckets)
	for b := range sums {
		sums[b] = make([]float64, dim)
	}
	return &accumulator{sums: sums, counts: make([]int, buckets)}
}

// Collect adds one trial's frequencies into its bucket.
func (a *accumulator) Collect(_ context.Context, r model.TrialResult) error {
	if r.Trial.Bucket < 0 || r.Trial.Bucket >= len(a.sums) {
		return fmt.Errorf("unknown repetition bucket %d", r.Trial.Bucket)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, f := range r.Freq {
		a.sums[r.Trial.Bucket][i] += f
	}
	a.counts[r.Trial.Bucket]++
	return nil
}
