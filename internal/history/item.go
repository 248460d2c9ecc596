package history

import "time"

// Item is one visited page as delivered by the history store.
//
// Items are owned by the store. The engine only ever works on copies and
// the only field it changes is Selected.
type Item struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	SourceTitle string    `json:"source_title,omitempty"`
	PageURL     string    `json:"page_url"`
	PageTitle   string    `json:"page_title,omitempty"`
	VisitedAt   time.Time `json:"visited_at"`
	Selected    bool      `json:"selected"`
}

// WithSelected returns a copy of the item with the selection flag set.
func (i Item) WithSelected(selected bool) Item {
	i.Selected = selected
	return i
}

// Title returns the page title, falling back to the URL.
func (i Item) Title() string {
	if i.PageTitle != "" {
		return i.PageTitle
	}
	return i.PageURL
}
