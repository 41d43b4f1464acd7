package event

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Recv once the queue is closed and drained.
var ErrQueueClosed = errors.New("event: queue closed")

// Queue is an unbounded multi-producer, single-consumer FIFO. Sends never
// block; sends after Close are dropped.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	ready  chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Send appends ev and reports whether it was accepted.
func (q *Queue) Send(ev Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// TryRecv pops the oldest event without blocking.
func (q *Queue) TryRecv() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Recv blocks until an event is available, the queue is closed and empty, or
// ctx is done.
func (q *Queue) Recv(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		ev, ok := q.popLocked()
		closed := q.closed
		q.mu.Unlock()
		if ok {
			return ev, nil
		}
		if closed {
			return Event{}, ErrQueueClosed
		}
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting events. Pending events can still be received.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue) popLocked() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	ev := q.items[0]
	q.items[0] = Event{}
	q.items = q.items[1:]
	return ev, true
}
