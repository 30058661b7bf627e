// Package queue defines the contract for enqueuing and consuming Monte
// Carlo trials.
//
// Implementations may use channels or more advanced structures; the
// in-memory bounded queue is sufficient for single-run batch analysis.
package queue

import (
	"context"
	"sync"

	"github.com/okian/harpastum/internal/domain/model"
	"github.com/okian/harpastum/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 100_000
)

// Trial is the payload type flowing through the queue.
type Trial = model.Trial

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a trial to the queue.
	// Returns false if the queue is full or closed and the trial was not enqueued.
	Enqueue(ctx context.Context, t Trial) bool

	// Dequeue returns a channel that receives trials as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Trial

	// Len returns the current number of queued trials.
	Len(ctx context.Context) int

	// Close stops the queue. After closing, no new trials can be enqueued
	// and the dequeue channel drains and closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	trials   chan Trial
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.trials = make(chan Trial, q.capacity)
	return q
}

// Enqueue adds a trial to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trial) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected()
		return false
	}

	select {
	case q.trials <- t:
		metrics.RecordQueueEnqueued()
		return true
	case <-ctx.Done():
		metrics.RecordQueueRejected()
		return false
	default:
		metrics.RecordQueueRejected()
		return false // queue is full
	}
}

// Dequeue returns the trial channel. Consumers range over it until the
// queue is closed and drained.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trial {
	return q.trials
}

// Len returns the current number of queued trials.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.trials)
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.trials)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
