package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/histview/internal/history"
)

// ListOptions narrows List.
type ListOptions struct {
	// SourceID restricts the result to one source. Empty means all sources.
	SourceID string
	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// List returns stored items, newest first.
// Ordering is deterministic: ORDER BY visited_at DESC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing is stored.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]history.Item, error) {
	query := `
		SELECT id, source_id, source_title, page_url, page_title, visited_at
		FROM history_items`
	var args []any
	if opts.SourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, opts.SourceID)
	}
	query += " ORDER BY visited_at DESC, id COLLATE BINARY ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []history.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

// Get returns one item by id. The bool is false if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (history.Item, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, source_title, page_url, page_title, visited_at
		FROM history_items
		WHERE id = ?
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return history.Item{}, false, nil
	}
	if err != nil {
		return history.Item{}, false, err
	}
	return it, true, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (history.Item, error) {
	var (
		it        history.Item
		visitedAt int64
	)
	err := row.Scan(&it.ID, &it.SourceID, &it.SourceTitle, &it.PageURL, &it.PageTitle, &visitedAt)
	if err == sql.ErrNoRows {
		return history.Item{}, err
	}
	if err != nil {
		return history.Item{}, fmt.Errorf("scan item: %w", err)
	}
	it.VisitedAt = time.UnixMilli(visitedAt).UTC()
	return it, nil
}
