// Package queue carries submitted match results from the API to the workers.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Result is the payload type flowing through the queue.
type Result = model.MatchRecord

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a result to the queue.
	// Returns false if the queue is full or closed and the result was not enqueued.
	Enqueue(ctx context.Context, r Result) bool

	// Dequeue returns a channel that receives results as they become available.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Result

	// Ack marks one dequeued result as fully handled.
	Ack()

	// Pending returns the number of results enqueued but not yet acknowledged.
	Pending() int

	// Len returns the current number of queued results.
	Len(ctx context.Context) int

	// Close stops accepting results and closes the dequeue channel.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	results  chan Result
	capacity int
	pending  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.results = make(chan Result, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a result to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Result) bool { //nolint:gocritic // hugeParam: Result is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	q.pending.Add(1)
	select {
	case q.results <- r:
		metrics.UpdateQueueSize(len(q.results))
		return true
	default:
		q.pending.Add(-1)
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives results as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for r := range q.results {
			select {
			case out <- r:
				metrics.UpdateQueueSize(len(q.results))
			case <-ctx.Done():
				q.pending.Add(-1)
				return
			}
		}
	}()
	return out
}

// Ack marks one dequeued result as handled.
func (q *InMemoryQueue) Ack() {
	q.pending.Add(-1)
}

// Pending returns the number of results not yet acknowledged.
func (q *InMemoryQueue) Pending() int {
	return int(q.pending.Load())
}

// Len returns the current number of queued results.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.results)
	metrics.UpdateQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.results)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
