package engine

import "github.com/roach88/histview/internal/history"

// Reduce computes the state that follows action and the effects the
// transition produces.
//
// Reduce is pure: no I/O, no clock, no randomness. The same state and
// action always give the same result. Effects are returned as values; the
// engine decides where they go.
//
// An error means the action was not recognized. The returned state is the
// input state and the caller must not treat it as a transition.
func Reduce(state history.State, action history.Action) (history.State, []history.Effect, error) {
	switch a := action.(type) {
	case history.RequestExit:
		return state, []history.Effect{history.NavigateAway{}}, nil

	case history.RequestExitSelectionMode:
		return state.DeselectAll(), nil, nil

	case history.ConfirmDeleteClicked:
		// Deletion runs out of band. The store's next snapshot updates the list.
		return state, []history.Effect{history.DeleteItems{
			State: state,
			Scope: a.Scope.Resolve(state),
		}}, nil

	case history.DeleteButtonPressed:
		return offerDeleteConfirmation(state, history.DeleteAll)

	case history.DeleteSelectedItemsPressed:
		return offerDeleteConfirmation(state, history.DeleteSelected)

	case history.ShowAllToggled:
		state.ShowAll = a.Checked
		return state, []history.Effect{history.PersistShowAllPreference{Value: a.Checked}}, nil

	case history.ItemClicked:
		return reduceItemClick(state, a.Item)

	case history.ItemLongClicked:
		return state.ToggleSelection(a.Item.ID), nil, nil

	case history.FilterChanged:
		state.SearchTerm = a.SearchTerm
		return state, nil, nil

	case history.ExternalListUpdated:
		return state.WithItems(a.Items), nil, nil

	default:
		return state, nil, NewUnknownActionError(action)
	}
}

// reduceItemClick: while anything is selected a tap only extends or shrinks
// the selection. Otherwise it selects the item and opens the page.
func reduceItemClick(state history.State, item history.Item) (history.State, []history.Effect, error) {
	if state.IsInSelectionState() {
		return state.ToggleSelection(item.ID), nil, nil
	}
	return state.ToggleSelection(item.ID), []history.Effect{history.OpenItem{Item: item}}, nil
}

// offerDeleteConfirmation leaves the state alone and asks for confirmation.
// The engine fills in the dialog's action sink before publishing.
func offerDeleteConfirmation(state history.State, scope history.DeleteScope) (history.State, []history.Effect, error) {
	count := len(state.Items)
	if scope == history.DeleteSelected {
		count = len(state.SelectedIDs())
	}
	return state, []history.Effect{history.ShowDeleteConfirmation{
		Scope: scope,
		Count: count,
	}}, nil
}
