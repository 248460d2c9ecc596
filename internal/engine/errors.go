package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/histview/internal/history"
)

// EngineError represents an error reported by the engine.
//
// Engine errors include:
//   - Unknown action: Reduce received a value outside the action set
//   - Disposed: the engine was used after Dispose
//   - Already started: Start was called twice
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// Action names the action involved, if any.
	Action history.ActionKind
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeUnknownAction indicates Reduce has no case for the action.
	ErrCodeUnknownAction EngineErrorCode = "UNKNOWN_ACTION"

	// ErrCodeDisposed indicates the engine has been disposed.
	ErrCodeDisposed EngineErrorCode = "DISPOSED"

	// ErrCodeAlreadyStarted indicates Start was called more than once.
	ErrCodeAlreadyStarted EngineErrorCode = "ALREADY_STARTED"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: %s (action=%s)", e.Code, e.Message, e.Action)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownActionError returns true if the error is an unknown action error.
// Uses errors.As to handle wrapped errors.
func IsUnknownActionError(err error) bool {
	return hasCode(err, ErrCodeUnknownAction)
}

// IsDisposedError returns true if the engine was already disposed.
func IsDisposedError(err error) bool {
	return hasCode(err, ErrCodeDisposed)
}

// IsAlreadyStartedError returns true if Start was called twice.
func IsAlreadyStartedError(err error) bool {
	return hasCode(err, ErrCodeAlreadyStarted)
}

func hasCode(err error, code EngineErrorCode) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// NewUnknownActionError creates an EngineError for an action Reduce cannot handle.
func NewUnknownActionError(action history.Action) *EngineError {
	e := &EngineError{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("no reducer case for %T", action),
	}
	if action != nil {
		e.Action = action.Kind()
	}
	return e
}

func newDisposedError() *EngineError {
	return &EngineError{Code: ErrCodeDisposed, Message: "engine has been disposed"}
}

func newAlreadyStartedError() *EngineError {
	return &EngineError{Code: ErrCodeAlreadyStarted, Message: "engine is already running"}
}
