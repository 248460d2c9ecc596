package testutil

import (
	"sync"

	"github.com/roach88/histview/internal/history"
)

// RecordingSink is a history.ActionSink that keeps everything submitted.
type RecordingSink struct {
	mu      sync.Mutex
	actions []history.Action
	closed  bool
}

// Submit records a and returns true until Close.
func (s *RecordingSink) Submit(a history.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.actions = append(s.actions, a)
	return true
}

// Close makes further Submit calls fail.
func (s *RecordingSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Actions returns a copy of what was recorded.
func (s *RecordingSink) Actions() []history.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]history.Action, len(s.actions))
	copy(out, s.actions)
	return out
}
