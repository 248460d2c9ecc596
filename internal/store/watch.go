package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/histview/internal/history"
)

// watcher is one Subscribe call. signal holds at most one pending
// "something changed" token.
type watcher struct {
	signal chan struct{}
}

// Subscribe streams full snapshots of the history, newest first.
//
// The first snapshot is sent right away; later ones follow each committed
// write. Writes through this Store wake the watch at once. Commits from other
// connections to the same file (another process) are picked up by polling
// PRAGMA data_version every poll interval. A failed query is sent on the
// error channel and the watch keeps going. Both channels close when ctx ends.
//
// Implements engine.HistorySource.
func (s *Store) Subscribe(ctx context.Context) (<-chan []history.Item, <-chan error) {
	items := make(chan []history.Item)
	errs := make(chan error)

	w := &watcher{signal: make(chan struct{}, 1)}
	w.signal <- struct{}{}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer close(items)
		defer close(errs)
		defer s.unwatch(w)

		var tick <-chan time.Time
		if s.pollInterval > 0 {
			ticker := time.NewTicker(s.pollInterval)
			defer ticker.Stop()
			tick = ticker.C
		}
		var version int64

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.signal:
			case <-tick:
				v, err := s.dataVersion(ctx)
				if err != nil || v == version {
					continue
				}
			}

			// Read the version before the snapshot so a commit that lands
			// after it is seen on the next tick.
			if v, err := s.dataVersion(ctx); err == nil {
				version = v
			}

			list, err := s.List(ctx, ListOptions{})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case items <- list:
			case <-ctx.Done():
				return
			}
		}
	}()

	return items, errs
}

// dataVersion returns SQLite's data_version for the store's connection. It
// changes when another connection commits to the database file.
func (s *Store) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return v, nil
}

func (s *Store) unwatch(w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, w)
}

// notify wakes every watcher. Never blocks; a watcher that already has a
// pending signal keeps just the one.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Watchers reports how many subscriptions are active.
func (s *Store) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}
