package history

// EffectKind names an effect variant for logs and traces.
type EffectKind string

const (
	KindNavigateAway             EffectKind = "NavigateAway"
	KindOpenItem                 EffectKind = "OpenItem"
	KindShowDeleteConfirmation   EffectKind = "ShowDeleteConfirmation"
	KindPersistShowAllPreference EffectKind = "PersistShowAllPreference"
	KindDeleteItems              EffectKind = "DeleteItems"
)

// Effect is a one-shot command for the outside world. Effects are never
// stored or replayed; each one is handed to exactly one consumer.
type Effect interface {
	Kind() EffectKind
	isEffect()
}

// NavigateAway closes the history screen.
type NavigateAway struct{}

// OpenItem opens the page behind an item.
type OpenItem struct{ Item Item }

// ShowDeleteConfirmation asks the user to confirm a deletion.
type ShowDeleteConfirmation struct {
	Scope DeleteScope
	// Count is how many items the deletion would remove right now.
	Count int
	// Sink receives ConfirmDeleteClicked when the user accepts.
	Sink ActionSink
}

// Confirm submits ConfirmDeleteClicked for this dialog's scope.
// Returns false when there is no sink or the sink refused the action.
func (e ShowDeleteConfirmation) Confirm() bool {
	if e.Sink == nil {
		return false
	}
	return e.Sink.Submit(ConfirmDeleteClicked{Scope: e.Scope})
}

// PersistShowAllPreference writes the "all sources" preference.
type PersistShowAllPreference struct{ Value bool }

// DeleteItems removes items from the store. State is the snapshot at the
// moment the user confirmed.
type DeleteItems struct {
	State State
	Scope DeleteScope
}

// TargetIDs returns the ids the deletion applies to.
func (e DeleteItems) TargetIDs() []string {
	if e.Scope.Resolve(e.State) == DeleteSelected {
		return e.State.SelectedIDs()
	}
	return e.State.ItemIDs()
}

func (NavigateAway) Kind() EffectKind             { return KindNavigateAway }
func (OpenItem) Kind() EffectKind                 { return KindOpenItem }
func (ShowDeleteConfirmation) Kind() EffectKind   { return KindShowDeleteConfirmation }
func (PersistShowAllPreference) Kind() EffectKind { return KindPersistShowAllPreference }
func (DeleteItems) Kind() EffectKind              { return KindDeleteItems }

func (NavigateAway) isEffect()             {}
func (OpenItem) isEffect()                 {}
func (ShowDeleteConfirmation) isEffect()   {}
func (PersistShowAllPreference) isEffect() {}
func (DeleteItems) isEffect()              {}
