package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after the queue has been shut down.
var ErrClosed = errors.New("dispatch queue closed")

// Ticket identifies a unit of work for the worker loop. Resume tickets
// re-enter the pipeline at the fan-out stage instead of starting over.
type Ticket struct {
	JobID  int64
	Resume bool
}

// Queue is a fixed-capacity FIFO hand-off. Submit blocks while the queue is
// full; Take blocks until a ticket arrives or the context is cancelled. The
// contract supports multiple producers and consumers, though tubecast runs a
// single consumer.
type Queue struct {
	tickets chan Ticket
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewQueue constructs a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		tickets: make(chan Ticket, capacity),
		done:    make(chan struct{}),
	}
}

// Submit enqueues a ticket, blocking while the queue is full. It fails only
// when the queue has been closed for shutdown.
func (q *Queue) Submit(ticket Ticket) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	select {
	case q.tickets <- ticket:
		return nil
	case <-q.done:
		return ErrClosed
	}
}

// Take blocks until a ticket is available or the context is cancelled.
// Tickets already enqueued remain takeable after Close.
func (q *Queue) Take(ctx context.Context) (Ticket, error) {
	// Prefer queued work over a concurrent close.
	select {
	case ticket := <-q.tickets:
		return ticket, nil
	default:
	}

	select {
	case ticket := <-q.tickets:
		return ticket, nil
	case <-ctx.Done():
		return Ticket{}, ctx.Err()
	case <-q.done:
		return Ticket{}, ErrClosed
	}
}

// Close rejects further submissions. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Len reports the number of tickets currently waiting.
func (q *Queue) Len() int {
	return len(q.tickets)
}

// Cap reports the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.tickets)
}
