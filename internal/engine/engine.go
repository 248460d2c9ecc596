package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/histview/internal/history"
)

// HistorySource is the push side of the history store.
//
// Subscribe yields a full, ordered snapshot whenever the stored history
// changes. Errors are reported on the second channel. Both channels close
// when ctx ends or the source gives up; the engine does not resubscribe.
type HistorySource interface {
	Subscribe(ctx context.Context) (<-chan []history.Item, <-chan error)
}

// Preferences supplies the stored "show all sources" setting.
// Read once, when the engine is created.
type Preferences interface {
	ShowAllSources() bool
}

// ActiveSource identifies the source that is open. Read once, when the
// engine is created.
type ActiveSource interface {
	CurrentSourceID() string
}

// SourceID is an ActiveSource with a fixed id.
type SourceID string

// CurrentSourceID implements ActiveSource.
func (s SourceID) CurrentSourceID() string { return string(s) }

// Engine is the single-writer history state engine.
//
// CRITICAL: state is only read and written by the run loop goroutine.
// Everyone else talks to the engine through Submit and the subscriptions.
//
// Thread-safety model:
//   - Submit(), State(), ObserveState(), ObserveEffects(), Dispose(): any goroutine
//   - Reduce: only ever called from the run loop
type Engine struct {
	session string
	logger  *slog.Logger
	source  HistorySource
	clock   *Clock
	queue   *actionQueue
	states  *stateHub
	effects *effectHub

	// state is owned by the run loop.
	state history.State

	mu       sync.Mutex
	started  bool
	disposed bool
	cancel   context.CancelFunc

	wg          sync.WaitGroup
	disposeOnce sync.Once
	done        chan struct{}

	effectBuffer int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSessionID sets the id attached to every log line of this engine.
// Default: a fresh UUIDv7.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.session = id
	}
}

// WithEffectBuffer sets how many effects a subscription may hold before
// further effects skip it. Default: DefaultEffectBuffer.
func WithEffectBuffer(n int) Option {
	return func(e *Engine) {
		e.effectBuffer = n
	}
}

// New creates an engine. The initial state has no items, the stored
// show-all preference and the id of the active source.
//
// source may be nil, in which case only submitted actions change the list.
// The engine does nothing until Start.
func New(source HistorySource, prefs Preferences, active ActiveSource, opts ...Option) *Engine {
	var showAll bool
	if prefs != nil {
		showAll = prefs.ShowAllSources()
	}
	var current string
	if active != nil {
		current = active.CurrentSourceID()
	}

	e := &Engine{
		logger:       slog.Default(),
		source:       source,
		clock:        NewClock(),
		queue:        newActionQueue(),
		done:         make(chan struct{}),
		effectBuffer: DefaultEffectBuffer,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.session == "" {
		e.session = uuid.Must(uuid.NewV7()).String()
	}
	e.logger = e.logger.With("session", e.session)
	e.state = history.NewState(showAll, current)
	e.states = newStateHub(e.state)
	e.effects = newEffectHub(e.effectBuffer)

	return e
}

// Start launches the run loop and, if there is a source, the feed bridge.
// Both stop when ctx ends or Dispose is called; ctx ending also disposes
// the engine.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return newDisposedError()
	}
	if e.started {
		return newAlreadyStartedError()
	}
	e.started = true

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go e.run(runCtx)

	if e.source != nil {
		e.wg.Add(1)
		go e.bridge(runCtx)
	}

	go func() {
		select {
		case <-runCtx.Done():
			e.Dispose()
		case <-e.done:
		}
	}()

	e.logger.Info("engine started")
	return nil
}

// Submit queues an action. Never blocks.
// Thread-safe: may be called from any goroutine.
//
// Returns false, and does nothing else, once the engine is disposed.
func (e *Engine) Submit(action history.Action) bool {
	return e.queue.Enqueue(action)
}

// State returns the most recently published state.
func (e *Engine) State() history.State {
	return e.states.latest()
}

// ObserveState subscribes to state changes. The subscription starts with
// the current state. After Dispose the returned channel is closed.
func (e *Engine) ObserveState() *StateSubscription {
	return e.states.subscribe()
}

// ObserveEffects subscribes to effects. Only effects emitted while the
// subscription is attached are delivered. After Dispose the returned
// channel is closed.
func (e *Engine) ObserveEffects() *EffectSubscription {
	return e.effects.subscribe()
}

// WaitForState blocks until a published state satisfies pred, starting
// with the current one.
func (e *Engine) WaitForState(ctx context.Context, pred func(history.State) bool) (history.State, error) {
	sub := e.ObserveState()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return history.State{}, ctx.Err()
		case s, ok := <-sub.C:
			if !ok {
				return history.State{}, newDisposedError()
			}
			if pred(s) {
				return s, nil
			}
		}
	}
}

// SubmitAndWait queues an action and blocks until the run loop has reduced
// it and published its effects, then returns the state at that point or
// later. Effects of the action are already in the subscribers' buffers when
// it returns.
//
// A nil action is rejected up front with UNKNOWN_ACTION. DISPOSED is returned
// if the engine is disposed before the action is processed.
func (e *Engine) SubmitAndWait(ctx context.Context, action history.Action) (history.State, error) {
	if action == nil {
		return history.State{}, NewUnknownActionError(nil)
	}

	pos, ok := e.queue.EnqueuePos(action)
	if !ok {
		return history.State{}, newDisposedError()
	}

	for {
		s, settled, wake, closed := e.states.watermark()
		if settled >= pos {
			return s, nil
		}
		if closed {
			return history.State{}, newDisposedError()
		}
		select {
		case <-ctx.Done():
			return history.State{}, ctx.Err()
		case <-wake:
		}
	}
}

// Processed returns the seq of the last action taken off the queue.
func (e *Engine) Processed() int64 {
	return e.clock.Current()
}

// SessionID returns the id used in this engine's log lines.
func (e *Engine) SessionID() string {
	return e.session
}

// Done is closed when Dispose has finished.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Dispose stops the run loop and the feed bridge, waits for both, and
// closes every subscription. Queued actions that were not processed yet
// are dropped. Idempotent and safe from any goroutine except the run loop.
func (e *Engine) Dispose() {
	e.disposeOnce.Do(func() {
		e.mu.Lock()
		e.disposed = true
		cancel := e.cancel
		e.mu.Unlock()

		e.queue.Close()
		if cancel != nil {
			cancel()
		}
		e.wg.Wait()

		e.states.close()
		e.effects.close()
		close(e.done)

		e.logger.Info("engine disposed", "processed", e.clock.Current())
	})
}

// run is the single consumer of the action queue.
// CRITICAL: the only goroutine that touches e.state.
func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	for {
		if action, ok := e.queue.TryDequeue(); ok {
			e.process(action)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case _, open := <-e.queue.Wait():
			if !open {
				return
			}
		}
	}
}

// process reduces one action and publishes the outcome.
// CRITICAL: called only from run.
func (e *Engine) process(action history.Action) {
	seq := e.clock.Next()

	next, effects, err := Reduce(e.state, action)
	if err != nil {
		// State does not advance for an action the reducer rejected.
		e.states.settle(seq)
		e.logger.Error("action rejected", "seq", seq, "error", err)
		return
	}

	e.state = next
	e.states.publish(next)

	e.logger.Debug("action processed",
		"seq", seq,
		"action", action.Kind(),
		"items", len(next.Items),
		"selected", len(next.SelectedIDs()),
		"effects", len(effects),
	)

	for _, eff := range effects {
		eff = e.bind(eff)
		if !e.effects.publish(eff) {
			e.logger.Warn("effect dropped: no subscriber could take it",
				"seq", seq,
				"effect", eff.Kind(),
				"subscribers", e.effects.subscribers(),
			)
		}
	}
	e.states.settle(seq)
}

// bind attaches the engine as the action sink of confirmation dialogs.
func (e *Engine) bind(eff history.Effect) history.Effect {
	if dialog, ok := eff.(history.ShowDeleteConfirmation); ok && dialog.Sink == nil {
		dialog.Sink = e
		return dialog
	}
	return eff
}

// bridge turns store snapshots into ExternalListUpdated actions.
// Feed errors are logged and never reach the reducer.
func (e *Engine) bridge(ctx context.Context) {
	defer e.wg.Done()

	items, errs := e.source.Subscribe(ctx)
	for items != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case list, ok := <-items:
			if !ok {
				items = nil
				continue
			}
			e.Submit(history.ExternalListUpdated{Items: list})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			e.logger.Error("history feed error", "error", err)
		}
	}

	e.logger.Info("history feed ended")
}
