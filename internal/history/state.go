package history

import (
	"strings"

	"golang.org/x/text/cases"
)

// State is the complete snapshot the history screen renders from.
//
// State is a value. Transitions return a new State and never write into
// the Items slice of an existing one, so a State handed to an observer or
// carried by an Effect stays valid after the engine moves on.
type State struct {
	// Items is the full history as last delivered by the store, newest first.
	Items []Item `json:"items"`

	// ShowAll shows items from every source instead of only CurrentSourceID.
	ShowAll bool `json:"show_all"`

	// CurrentSourceID identifies the source that is open right now.
	CurrentSourceID string `json:"current_source_id"`

	// SearchTerm filters Visible by title or URL.
	SearchTerm string `json:"search_term"`

	// Loaded is set once the first snapshot from the store has arrived.
	Loaded bool `json:"loaded"`
}

// NewState creates the initial state: no items, not loaded.
func NewState(showAll bool, currentSourceID string) State {
	return State{
		Items:           []Item{},
		ShowAll:         showAll,
		CurrentSourceID: currentSourceID,
	}
}

// IsInSelectionState reports whether at least one item is selected.
func (s State) IsInSelectionState() bool {
	for _, it := range s.Items {
		if it.Selected {
			return true
		}
	}
	return false
}

// SelectedIDs returns the ids of all selected items in display order.
func (s State) SelectedIDs() []string {
	ids := []string{}
	for _, it := range s.Items {
		if it.Selected {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// ItemIDs returns the ids of all items in display order.
func (s State) ItemIDs() []string {
	ids := make([]string, len(s.Items))
	for i, it := range s.Items {
		ids[i] = it.ID
	}
	return ids
}

// Find returns the item with the given id.
func (s State) Find(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Visible returns the items the screen shows: restricted to the current
// source unless ShowAll is set, then to items whose title or URL contains
// SearchTerm (case-insensitive).
func (s State) Visible() []Item {
	term := foldCase(strings.TrimSpace(s.SearchTerm))
	visible := []Item{}
	for _, it := range s.Items {
		if !s.ShowAll && it.SourceID != s.CurrentSourceID {
			continue
		}
		if term != "" &&
			!strings.Contains(foldCase(it.PageTitle), term) &&
			!strings.Contains(foldCase(it.PageURL), term) {
			continue
		}
		visible = append(visible, it)
	}
	return visible
}

// WithItems returns a copy of the state holding its own copy of items.
// Receiving a list also marks the state as loaded.
func (s State) WithItems(items []Item) State {
	copied := make([]Item, len(items))
	copy(copied, items)
	s.Items = copied
	s.Loaded = true
	return s
}

// ToggleSelection returns a copy of the state where the item with the given
// id has its selection flag inverted. Every other item and the order of the
// list are unchanged. An unknown id yields an equal state.
func (s State) ToggleSelection(id string) State {
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		if it.ID == id {
			it = it.WithSelected(!it.Selected)
		}
		items[i] = it
	}
	s.Items = items
	return s
}

// DeselectAll returns a copy of the state with no item selected.
func (s State) DeselectAll() State {
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = it.WithSelected(false)
	}
	s.Items = items
	return s
}

// foldCase creates a fresh caser per call; cases.Caser is not safe for
// concurrent use and State methods may run on any goroutine.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
