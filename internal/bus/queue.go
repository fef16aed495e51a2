package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"main/internal/model"
)

var (
	ErrQueueFull   = errors.New("tick queue full")
	ErrQueueClosed = errors.New("tick queue closed")
)

const DefaultCapacity = 100_000

// Queue is the bounded transport between ingestion and processing. Enqueue
// never blocks: on a full queue the newest item is rejected, older queued
// items are never evicted. It is the only cross-thread mutable resource in
// the pipeline and is safe for concurrent publish/consume.
type Queue struct {
	ch     chan model.EnrichedTick
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan model.EnrichedTick, capacity)}
}

// TryPublish enqueues a tick without blocking.
func (q *Queue) TryPublish(tick model.EnrichedTick) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- tick:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new ticks. Items already buffered
// remain deliverable to consumers. Callers must stop all producers before
// closing: a TryPublish racing Close may send on the closed channel.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Len returns the number of buffered ticks.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Run consumes ticks in enqueue order until the queue is closed and drained,
// which is the terminal non-error condition, or until the context is
// cancelled, which abandons whatever is still buffered.
func (q *Queue) Run(ctx context.Context, handler func(model.EnrichedTick)) {
	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-q.ch:
			if !ok {
				return
			}
			handler(tick)
		}
	}
}
