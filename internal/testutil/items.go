package testutil

import (
	"fmt"

	"github.com/roach88/histview/internal/history"
)

// Item builds a fixture item whose id is the given short name.
// The URL and title are derived from the name.
func Item(id, sourceID string, seq int64) history.Item {
	return history.Item{
		ID:          id,
		SourceID:    sourceID,
		SourceTitle: "Source " + sourceID,
		PageURL:     fmt.Sprintf("https://example.org/%s", id),
		PageTitle:   "Page " + id,
		VisitedAt:   At(seq),
	}
}

// Items builds fixtures for ids, all from sourceID, newest first.
func Items(sourceID string, ids ...string) []history.Item {
	items := make([]history.Item, len(ids))
	for i, id := range ids {
		items[i] = Item(id, sourceID, int64(i+1))
	}
	return items
}
