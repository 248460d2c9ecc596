package engine

import "sync/atomic"

// Clock is a monotonic logical clock for action ordering.
//
// Every action the run loop takes off the queue is stamped with the next
// seq from this clock. Seq values appear in logs and let callers tell how
// far the engine has progressed without looking at wall time.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though only the run loop calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
