package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/harpastum/internal/adapters/mq/queue"
	"github.com/okian/harpastum/internal/adapters/mq/worker"
	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// constantSampler returns the same frequency vector for every trial.
type constantSampler struct {
	freq []float64
	err  error
}

func (s *constantSampler) Sample(_ context.Context, _ worker.Trial) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.freq, nil
}

// recordingCollector remembers every result it receives.
type recordingCollector struct {
	mu      sync.Mutex
	results []model.TrialResult
}

func (c *recordingCollector) Collect(_ context.Context, r model.TrialResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
	return nil
}

func (c *recordingCollector) collected() []model.TrialResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.TrialResult(nil), c.results...)
}

func TestWorker_Run(t *testing.T) {
	ctx := context.Background()

	Convey("Given trials queued ahead of a single worker", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		for i := 0; i < 3; i++ {
			So(q.Enqueue(ctx, worker.Trial{ID: i, Draws: 10}), ShouldBeTrue)
		}
		So(q.Close(), ShouldBeNil)

		collector := &recordingCollector{}
		w := worker.NewWorker(q, &constantSampler{freq: []float64{1}}, collector, worker.WithName("test-worker"))

		Convey("When the worker drains the queue", func() {
			w.Run(ctx)

			Convey("Then every trial is sampled and collected", func() {
				results := collector.collected()
				So(results, ShouldHaveLength, 3)
				seen := make(map[int]bool, len(results))
				for _, r := range results {
					seen[r.Trial.ID] = true
					So(r.Freq, ShouldResemble, []float64{1})
				}
				So(seen, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given a sampler that fails", t, func() {
		q := queue.NewInMemoryQueue()
		So(q.Enqueue(ctx, worker.Trial{ID: 1}), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		collector := &recordingCollector{}
		w := worker.NewWorker(q, &constantSampler{err: errors.New("boom")}, collector)

		Convey("When the worker runs", func() {
			w.Run(ctx)

			Convey("Then the failed trial reaches no collector and the worker still drains", func() {
				So(collector.collected(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a canceled context", t, func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		q := queue.NewInMemoryQueue()
		collector := &recordingCollector{}
		w := worker.NewWorker(q, &constantSampler{freq: []float64{1}}, collector)

		Convey("When the worker runs", func() {
			w.Run(canceled)

			Convey("Then it exits without waiting for the queue to close", func() {
				So(collector.collected(), ShouldBeEmpty)
			})
		})
	})
}

func TestPool(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pool over a shared queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		collector := &recordingCollector{}
		pool := worker.NewPool(4, q, &constantSampler{freq: []float64{0.5, 0.5}}, collector)

		Convey("When trials are enqueued and the queue is closed", func() {
			pool.Start(ctx)
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, worker.Trial{ID: i, Draws: 5}), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)
			pool.Wait()

			Convey("Then every trial is processed exactly once", func() {
				results := collector.collected()
				So(results, ShouldHaveLength, 20)
				seen := make(map[int]bool, len(results))
				for _, r := range results {
					So(seen[r.Trial.ID], ShouldBeFalse)
					seen[r.Trial.ID] = true
				}
			})
		})
	})
}
