// Package effects executes the effects emitted by the history engine.
//
// The engine only describes what should happen. An Executor owns the
// collaborators that make it happen and runs each effect exactly once, in
// the order it was received.
package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/histview/internal/history"
)

// ErrNoHandler is returned by Execute when no collaborator is configured
// for an effect.
var ErrNoHandler = errors.New("no handler for effect")

// Navigator leaves the history screen.
type Navigator interface {
	NavigateAway(ctx context.Context) error
}

// Opener opens a history item.
type Opener interface {
	Open(ctx context.Context, item history.Item) error
}

// Confirmer shows a delete confirmation. An implementation that accepts
// calls dialog.Confirm().
type Confirmer interface {
	ConfirmDelete(ctx context.Context, dialog history.ShowDeleteConfirmation) error
}

// Deleter removes items from the history store.
type Deleter interface {
	Delete(ctx context.Context, ids []string) (int64, error)
}

// PreferenceWriter stores the "all sources" preference.
type PreferenceWriter interface {
	SetShowAllSources(v bool) error
}

// Handlers are the collaborators an Executor dispatches to. Any may be nil.
type Handlers struct {
	Navigator   Navigator
	Opener      Opener
	Confirmer   Confirmer
	Deleter     Deleter
	Preferences PreferenceWriter
}

// Executor runs effects against Handlers.
type Executor struct {
	handlers Handlers
	logger   *slog.Logger
}

// NewExecutor creates an executor. A nil logger means slog.Default().
func NewExecutor(h Handlers, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{handlers: h, logger: logger}
}

// Run executes effects until the channel closes or ctx ends.
// Handler errors are logged and do not stop the loop.
func (x *Executor) Run(ctx context.Context, effects <-chan history.Effect) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case eff, ok := <-effects:
			if !ok {
				return nil
			}
			if err := x.Execute(ctx, eff); err != nil {
				x.logger.Error("effect failed", "effect", eff.Kind(), "error", err)
			}
		}
	}
}

// Execute runs one effect.
func (x *Executor) Execute(ctx context.Context, eff history.Effect) error {
	switch e := eff.(type) {
	case history.NavigateAway:
		if x.handlers.Navigator == nil {
			return noHandler(eff)
		}
		return x.handlers.Navigator.NavigateAway(ctx)

	case history.OpenItem:
		if x.handlers.Opener == nil {
			return noHandler(eff)
		}
		return x.handlers.Opener.Open(ctx, e.Item)

	case history.ShowDeleteConfirmation:
		if x.handlers.Confirmer == nil {
			return noHandler(eff)
		}
		return x.handlers.Confirmer.ConfirmDelete(ctx, e)

	case history.PersistShowAllPreference:
		if x.handlers.Preferences == nil {
			return noHandler(eff)
		}
		if err := x.handlers.Preferences.SetShowAllSources(e.Value); err != nil {
			return fmt.Errorf("persist show-all preference: %w", err)
		}
		return nil

	case history.DeleteItems:
		return x.delete(ctx, e)

	default:
		return fmt.Errorf("unknown effect %T", eff)
	}
}

func (x *Executor) delete(ctx context.Context, e history.DeleteItems) error {
	ids := e.TargetIDs()
	if len(ids) == 0 {
		x.logger.Debug("delete skipped: nothing to delete", "scope", e.Scope.Resolve(e.State))
		return nil
	}
	if x.handlers.Deleter == nil {
		return noHandler(e)
	}

	n, err := x.handlers.Deleter.Delete(ctx, ids)
	if err != nil {
		return fmt.Errorf("delete %d items: %w", len(ids), err)
	}
	x.logger.Info("items deleted",
		"scope", e.Scope.Resolve(e.State).String(),
		"requested", len(ids),
		"deleted", n,
	)
	return nil
}

func noHandler(eff history.Effect) error {
	return fmt.Errorf("%w: %s", ErrNoHandler, eff.Kind())
}
