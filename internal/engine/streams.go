package engine

import (
	"sync"

	"github.com/roach88/histview/internal/history"
)

// DefaultEffectBuffer is the per-subscription effect buffer size.
const DefaultEffectBuffer = 16

// StateSubscription delivers the most recent state.
//
// C has a buffer of one and always holds the newest undelivered state, so a
// slow reader skips intermediate states but never blocks the engine. C is
// closed when the subscription or the engine is closed.
type StateSubscription struct {
	C <-chan history.State

	ch  chan history.State
	hub *stateHub
}

// Close detaches the subscription. Safe to call more than once.
func (s *StateSubscription) Close() {
	s.hub.remove(s)
}

// stateHub fans the latest state out to subscribers, last value wins.
type stateHub struct {
	mu      sync.Mutex
	current history.State
	subs    map[*StateSubscription]struct{}
	closed  bool

	// settled is the seq of the last action whose state and effects have
	// both been published. wake is closed and replaced on every settle.
	settled int64
	wake    chan struct{}
}

func newStateHub(initial history.State) *stateHub {
	return &stateHub{
		current: initial,
		subs:    make(map[*StateSubscription]struct{}),
		wake:    make(chan struct{}),
	}
}

// latest returns the most recently published state.
func (h *stateHub) latest() history.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// settle records that the action with seq is fully processed and wakes
// everyone waiting in watermark.
func (h *stateHub) settle(seq int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.settled = seq
	close(h.wake)
	h.wake = make(chan struct{})
}

// watermark returns the latest state, the last settled seq and a channel
// that is closed on the next settle or on close. closed reports whether the
// hub is already closed.
func (h *stateHub) watermark() (s history.State, settled int64, wake <-chan struct{}, closed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current, h.settled, h.wake, h.closed
}

// publish replaces the pending value of every subscriber with s.
// Never blocks: publish is the only sender and holds the lock, so after
// draining the buffer the send always succeeds.
func (h *stateHub) publish(s history.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.current = s
	for sub := range h.subs {
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- s:
		default:
		}
	}
}

// subscribe returns a subscription primed with the current state.
// After close the subscription's channel is already closed.
func (h *stateHub) subscribe() *StateSubscription {
	ch := make(chan history.State, 1)
	sub := &StateSubscription{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}
	ch <- h.current
	h.subs[sub] = struct{}{}
	return sub
}

func (h *stateHub) remove(sub *StateSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
}

// close ends every subscription. Idempotent.
func (h *stateHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
	}
	h.subs = nil
	close(h.wake)
}

// EffectSubscription receives one-shot effects.
//
// Each effect goes to exactly one subscription. Effects still buffered when
// the subscription closes are dropped, never handed to another subscriber.
type EffectSubscription struct {
	C <-chan history.Effect

	ch  chan history.Effect
	hub *effectHub
}

// Close detaches the subscription. Safe to call more than once.
func (s *EffectSubscription) Close() {
	s.hub.remove(s)
}

// effectHub delivers each effect to one subscriber, round robin.
type effectHub struct {
	mu     sync.Mutex
	subs   []*EffectSubscription
	next   int
	buffer int
	closed bool
}

func newEffectHub(buffer int) *effectHub {
	if buffer < 1 {
		buffer = 1
	}
	return &effectHub{buffer: buffer}
}

// publish hands e to the next subscriber with buffer room.
// Returns false when no subscriber could take it; the effect is then gone.
func (h *effectHub) publish(e history.Effect) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.subs)
	for i := 0; i < n; i++ {
		idx := (h.next + i) % n
		select {
		case h.subs[idx].ch <- e:
			h.next = (idx + 1) % n
			return true
		default:
		}
	}
	return false
}

// subscribers reports how many subscriptions are attached.
func (h *effectHub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *effectHub) subscribe() *EffectSubscription {
	ch := make(chan history.Effect, h.buffer)
	sub := &EffectSubscription{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}
	h.subs = append(h.subs, sub)
	return sub
}

func (h *effectHub) remove(sub *EffectSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s == sub {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			if h.next >= len(h.subs) {
				h.next = 0
			}
			close(sub.ch)
			return
		}
	}
}

// close ends every subscription. Idempotent.
func (h *effectHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		close(sub.ch)
	}
	h.subs = nil
}
