package history

// ActionKind names an action variant for logs and traces.
type ActionKind string

const (
	KindRequestExit                ActionKind = "RequestExit"
	KindRequestExitSelectionMode   ActionKind = "RequestExitSelectionMode"
	KindItemClicked                ActionKind = "ItemClicked"
	KindItemLongClicked            ActionKind = "ItemLongClicked"
	KindFilterChanged              ActionKind = "FilterChanged"
	KindShowAllToggled             ActionKind = "ShowAllToggled"
	KindDeleteButtonPressed        ActionKind = "DeleteButtonPressed"
	KindDeleteSelectedItemsPressed ActionKind = "DeleteSelectedItemsPressed"
	KindConfirmDeleteClicked       ActionKind = "ConfirmDeleteClicked"
	KindExternalListUpdated        ActionKind = "ExternalListUpdated"
)

// Action describes something that happened: a user gesture or a new list
// from the store. The set is closed; the unexported marker keeps other
// packages from adding variants.
type Action interface {
	Kind() ActionKind
	isAction()
}

// ActionSink accepts actions. Submit must not block and returns false once
// the sink no longer accepts actions.
type ActionSink interface {
	Submit(Action) bool
}

// RequestExit asks to leave the history screen.
type RequestExit struct{}

// RequestExitSelectionMode clears the selection.
type RequestExitSelectionMode struct{}

// ItemClicked is a tap on an item.
type ItemClicked struct{ Item Item }

// ItemLongClicked is a long press on an item.
type ItemLongClicked struct{ Item Item }

// FilterChanged carries new search text.
type FilterChanged struct{ SearchTerm string }

// ShowAllToggled carries the new state of the "all sources" toggle.
type ShowAllToggled struct{ Checked bool }

// DeleteButtonPressed asks to delete the whole history.
type DeleteButtonPressed struct{}

// DeleteSelectedItemsPressed asks to delete the selected items.
type DeleteSelectedItemsPressed struct{}

// ConfirmDeleteClicked is the user accepting the confirmation dialog.
// Scope carries the intent the dialog was opened for.
type ConfirmDeleteClicked struct{ Scope DeleteScope }

// ExternalListUpdated carries a fresh snapshot from the history store.
type ExternalListUpdated struct{ Items []Item }

func (RequestExit) Kind() ActionKind                { return KindRequestExit }
func (RequestExitSelectionMode) Kind() ActionKind   { return KindRequestExitSelectionMode }
func (ItemClicked) Kind() ActionKind                { return KindItemClicked }
func (ItemLongClicked) Kind() ActionKind            { return KindItemLongClicked }
func (FilterChanged) Kind() ActionKind              { return KindFilterChanged }
func (ShowAllToggled) Kind() ActionKind             { return KindShowAllToggled }
func (DeleteButtonPressed) Kind() ActionKind        { return KindDeleteButtonPressed }
func (DeleteSelectedItemsPressed) Kind() ActionKind { return KindDeleteSelectedItemsPressed }
func (ConfirmDeleteClicked) Kind() ActionKind       { return KindConfirmDeleteClicked }
func (ExternalListUpdated) Kind() ActionKind        { return KindExternalListUpdated }

func (RequestExit) isAction()                {}
func (RequestExitSelectionMode) isAction()   {}
func (ItemClicked) isAction()                {}
func (ItemLongClicked) isAction()            {}
func (FilterChanged) isAction()              {}
func (ShowAllToggled) isAction()             {}
func (DeleteButtonPressed) isAction()        {}
func (DeleteSelectedItemsPressed) isAction() {}
func (ConfirmDeleteClicked) isAction()       {}
func (ExternalListUpdated) isAction()        {}
