package engine

import (
	"sync"

	"github.com/roach88/histview/internal/history"
)

// actionQueue is a thread-safe FIFO queue of actions: many producers, one
// consumer (the run loop).
//
// The queue is unbounded so Submit never blocks, whether the caller is the
// UI, the feed bridge or a confirmation dialog.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the run loop.
type actionQueue struct {
	mu       sync.Mutex
	actions  []history.Action
	enqueued int64 // Total accepted; the position of the last accepted action
	closed   bool
	signal   chan struct{} // Signals action availability (buffered, size 1)
}

// newActionQueue creates an empty action queue.
func newActionQueue() *actionQueue {
	return &actionQueue{
		actions: make([]history.Action, 0, 64),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds an action to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *actionQueue) Enqueue(a history.Action) bool {
	_, ok := q.EnqueuePos(a)
	return ok
}

// EnqueuePos is Enqueue that also reports the action's 1-based position
// among all actions ever accepted. The run loop stamps actions in dequeue
// order, so the position is the seq the action will get.
func (q *actionQueue) EnqueuePos(a history.Action) (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, false
	}

	q.actions = append(q.actions, a)
	q.enqueued++

	// Non-blocking: the buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return q.enqueued, true
}

// TryDequeue removes and returns the front action without blocking.
// Returns (nil, false) if the queue is empty.
func (q *actionQueue) TryDequeue() (history.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.actions) == 0 {
		return nil, false
	}

	a := q.actions[0]

	// Clear the slot so the backing array does not pin item lists.
	q.actions[0] = nil

	if len(q.actions) == 1 {
		q.actions = q.actions[:0]
	} else {
		q.actions = q.actions[1:]
	}

	return a, true
}

// Wait returns a channel that signals when actions may be available.
// The channel is closed when the queue is closed.
//
//	select {
//	case <-ctx.Done():
//	    return
//	case _, open := <-q.Wait():
//	    // open == false: queue closed
//	}
func (q *actionQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *actionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Close stops the queue from accepting actions, drops anything still
// queued and wakes the consumer.
func (q *actionQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.actions = nil
	close(q.signal)
}
