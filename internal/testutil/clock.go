package testutil

import (
	"sync"
	"time"
)

// Epoch is the wall time fixtures are anchored to.
var Epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// DeterministicClock numbers scenario steps and hands out fixture times.
//
// Unlike engine.Clock it can be reset, so one scenario can run repeatedly
// with identical seq values.
//
// Thread-safety: all methods are safe for concurrent use.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at 0. The first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new seq.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the seq without advancing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset puts the clock back to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// At returns the fixture time for seq: Epoch minus seq minutes, so a
// higher seq is an older visit.
func At(seq int64) time.Time {
	return Epoch.Add(-time.Duration(seq) * time.Minute)
}
