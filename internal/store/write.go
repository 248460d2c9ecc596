package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/histview/internal/history"
)

// Visit is one page view to record.
type Visit struct {
	SourceID    string
	SourceTitle string
	PageURL     string
	PageTitle   string
	VisitedAt   time.Time
}

// RecordVisit stores a visit and returns the stored item.
//
// The id is history.ItemID of the visit, so a second visit to the same page
// from the same source on the same UTC day updates the existing row: the
// visit time and titles take the new values.
func (s *Store) RecordVisit(ctx context.Context, v Visit) (history.Item, error) {
	id, err := history.ItemID(v.SourceID, v.PageURL, v.VisitedAt)
	if err != nil {
		return history.Item{}, fmt.Errorf("record visit: %w", err)
	}

	visitedAt := v.VisitedAt.UTC().Truncate(time.Millisecond)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history_items
		(id, source_id, source_title, page_url, page_title, visited_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_title = excluded.source_title,
			page_title = excluded.page_title,
			visited_at = excluded.visited_at
	`,
		id,
		v.SourceID,
		v.SourceTitle,
		v.PageURL,
		v.PageTitle,
		visitedAt.UnixMilli(),
	)
	if err != nil {
		return history.Item{}, fmt.Errorf("record visit: %w", err)
	}

	s.notify()

	return history.Item{
		ID:          id,
		SourceID:    v.SourceID,
		SourceTitle: v.SourceTitle,
		PageURL:     v.PageURL,
		PageTitle:   v.PageTitle,
		VisitedAt:   visitedAt,
	}, nil
}

// Delete removes the items with the given ids and returns how many rows
// went away. Unknown ids are ignored. All ids are removed in one
// transaction.
func (s *Store) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete items: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var removed int64
	// Stay well below SQLITE_MAX_VARIABLE_NUMBER.
	const batch = 500
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		res, err := tx.ExecContext(ctx,
			"DELETE FROM history_items WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return 0, fmt.Errorf("delete items: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("delete items: rows affected: %w", err)
		}
		removed += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete items: commit: %w", err)
	}

	if removed > 0 {
		s.notify()
	}
	return removed, nil
}

// DeleteAll removes every item and returns how many rows went away.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM history_items")
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all items: rows affected: %w", err)
	}

	if n > 0 {
		s.notify()
	}
	return n, nil
}
