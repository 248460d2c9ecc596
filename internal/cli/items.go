package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/roach88/histview/internal/history"
)

// shortIDLen is how many id characters text output shows.
const shortIDLen = 12

// ItemView is the JSON shape of an item in command output.
type ItemView struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	SourceTitle string    `json:"source_title,omitempty"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	VisitedAt   time.Time `json:"visited_at"`
	Selected    bool      `json:"selected,omitempty"`
}

func newItemView(it history.Item) ItemView {
	return ItemView{
		ID:          it.ID,
		SourceID:    it.SourceID,
		SourceTitle: it.SourceTitle,
		URL:         it.PageURL,
		Title:       it.PageTitle,
		VisitedAt:   it.VisitedAt,
		Selected:    it.Selected,
	}
}

func itemViews(items []history.Item) []ItemView {
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = newItemView(it)
	}
	return views
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Column widths, in terminal cells, of the text table.
const (
	titleWidth = 40
	urlWidth   = 60
)

// printItems writes items as an aligned table. When numbered, rows start
// with their 1-based index, which the session commands refer to.
func printItems(w io.Writer, items []history.Item, numbered bool) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No history.")
		return err
	}

	indexWidth := 0
	if numbered {
		indexWidth = len(strconv.Itoa(len(items)))
	}
	sourceWidth := 0
	for _, it := range items {
		sourceWidth = max(sourceWidth, runewidth.StringWidth(it.SourceID))
	}

	for i, it := range items {
		mark := " "
		if it.Selected {
			mark = "*"
		}
		index := ""
		if numbered {
			index = runewidth.FillLeft(strconv.Itoa(i+1), indexWidth) + " "
		}
		_, err := fmt.Fprintf(w, "%s%s%s  %s  %s  %s  %s\n",
			mark,
			index,
			shortID(it.ID),
			it.VisitedAt.Local().Format("2006-01-02 15:04"),
			runewidth.FillRight(it.SourceID, sourceWidth),
			runewidth.FillRight(runewidth.Truncate(it.Title(), titleWidth, "…"), titleWidth),
			runewidth.Truncate(it.PageURL, urlWidth, "…"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveItem finds an item by full id or unique id prefix.
func resolveItem(items []history.Item, ref string) (history.Item, error) {
	if ref == "" {
		return history.Item{}, fmt.Errorf("empty item id")
	}

	var found []history.Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			found = append(found, it)
		}
	}

	switch len(found) {
	case 0:
		return history.Item{}, fmt.Errorf("no item with id %q", ref)
	case 1:
		return found[0], nil
	default:
		return history.Item{}, fmt.Errorf("id prefix %q matches %d items", ref, len(found))
	}
}
