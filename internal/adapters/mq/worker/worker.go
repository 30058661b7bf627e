// Package worker runs Monte Carlo trials concurrently. Trials are
// independent and their results are combined by averaging, so execution
// order never affects the outcome.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
	"github.com/okian/harpastum/pkg/metrics"
)

// Trial is what workers read off the queue.
type Trial = model.Trial

// Sampler executes one trial: draws the configured number of samples and
// tabulates per-player frequencies.
type Sampler interface {
	Sample(ctx context.Context, t Trial) ([]float64, error)
}

// Collector receives completed trial results. Implementations must be
// safe for concurrent use.
type Collector interface {
	Collect(ctx context.Context, r model.TrialResult) error
}

// Queue defines how workers receive trials.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Trial
}

// Worker processes trials until its queue is drained.
type Worker struct {
	queue     Queue
	sampler   Sampler
	collector Collector
	name      string

	done chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, sampler Sampler, collector Collector, opts ...Option) *Worker {
	w := &Worker{
		queue:     queue,
		sampler:   sampler,
		collector: collector,
		name:      "worker",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes trials until the queue channel closes or ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	trials := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-trials:
			if !ok {
				return
			}
			if err := w.processTrial(ctx, t); err != nil {
				w.logger.Error(ctx, "trial failed", logger.Int("trial", t.ID), logger.Error(err))
			}
		}
	}
}

// processTrial runs one trial and hands the result to the collector.
func (w *Worker) processTrial(ctx context.Context, t Trial) error {
	start := time.Now()
	freq, err := w.sampler.Sample(ctx, t)
	metrics.RecordTrialDuration(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("sampling trial %d: %w", t.ID, err)
	}
	if err := w.collector.Collect(ctx, model.TrialResult{Trial: t, Freq: freq}); err != nil {
		return fmt.Errorf("collecting trial %d: %w", t.ID, err)
	}
	metrics.RecordTrialExecuted()
	return nil
}

// Pool manages multiple workers over a shared queue.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one falls
// back to twice the CPU count.
func NewPool(workerCount int, queue Queue, sampler Sampler, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * 2
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("trial-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(queue, sampler, collector, WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has drained the queue and exited.
// Callers close the queue after enqueueing the last trial.
func (p *Pool) Wait() {
	p.wg.Wait()
}
