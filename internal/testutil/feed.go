package testutil

import (
	"context"
	"sync"

	"github.com/roach88/histview/internal/history"
)

// Feed is a hand-driven history source.
//
// Tests push snapshots and errors; a subscribed engine receives them in
// order. Push blocks until the subscriber takes the value, so after Push
// returns the engine has at least queued the resulting action.
type Feed struct {
	mu         sync.Mutex
	items      chan []history.Item
	errs       chan error
	subscribed chan struct{}
	once       sync.Once
	closeOnce  sync.Once
}

// NewFeed creates a feed with no subscriber.
func NewFeed() *Feed {
	return &Feed{
		items:      make(chan []history.Item),
		errs:       make(chan error),
		subscribed: make(chan struct{}),
	}
}

// Subscribe implements engine.HistorySource. Only one subscriber is
// supported. Both channels close when ctx ends or Close is called.
func (f *Feed) Subscribe(ctx context.Context) (<-chan []history.Item, <-chan error) {
	items := make(chan []history.Item)
	errs := make(chan error)

	go func() {
		defer close(items)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case list, ok := <-f.items:
				if !ok {
					return
				}
				select {
				case items <- list:
				case <-ctx.Done():
					return
				}
			case err, ok := <-f.errs:
				if !ok {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	f.once.Do(func() { close(f.subscribed) })
	return items, errs
}

// Subscribed is closed once Subscribe has been called.
func (f *Feed) Subscribed() <-chan struct{} {
	return f.subscribed
}

// Push sends a snapshot to the subscriber.
func (f *Feed) Push(ctx context.Context, items []history.Item) error {
	select {
	case f.items <- items:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fail sends an error to the subscriber.
func (f *Feed) Fail(ctx context.Context, err error) error {
	select {
	case f.errs <- err:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the feed. Safe to call more than once.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		close(f.items)
		close(f.errs)
	})
}
