package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Recv once the queue is closed and drained.
var ErrQueueClosed = errors.New("action queue closed")

// Sender is the only handle producers hold on the action queue. Send never
// blocks; it reports false when the consumer is gone and the action was
// dropped.
type Sender[A any] interface {
	Send(action A) bool
}

// SenderFunc adapts a function to Sender.
type SenderFunc[A any] func(action A) bool

func (f SenderFunc[A]) Send(action A) bool { return f(action) }

// Queue is an unbounded, ordered, multi-producer single-consumer queue.
// Producers are input mapping, task completions and subscription
// emissions; the runtime loop is the only consumer.
type Queue[A any] struct {
	mu     sync.Mutex
	items  []A
	head   int
	ready  chan struct{}
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue[A any]() *Queue[A] {
	return &Queue[A]{ready: make(chan struct{}, 1)}
}

// Send appends an action. After Close it drops the action and returns false.
func (q *Queue[A]) Send(action A) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, action)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Ready is signalled whenever actions may be available. A receive from
// Ready must be followed by TryRecv calls until it reports false.
func (q *Queue[A]) Ready() <-chan struct{} {
	return q.ready
}

// TryRecv pops the oldest action without blocking.
func (q *Queue[A]) TryRecv() (A, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero A
	if q.head >= len(q.items) {
		return zero, false
	}
	action := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return action, true
}

// Recv blocks until an action is available, the context ends, or the queue
// is closed and empty.
func (q *Queue[A]) Recv(ctx context.Context) (A, error) {
	for {
		if action, ok := q.TryRecv(); ok {
			return action, nil
		}
		var zero A
		if q.isClosed() {
			return zero, ErrQueueClosed
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of queued actions.
func (q *Queue[A]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close stops accepting actions. Queued actions can still be received.
func (q *Queue[A]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue[A]) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
