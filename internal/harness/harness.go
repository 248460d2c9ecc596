package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/histview/internal/engine"
	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/testutil"
)

// knownActions is the set of action kinds a step may name.
var knownActions = map[history.ActionKind]struct{}{
	history.KindRequestExit:                {},
	history.KindRequestExitSelectionMode:   {},
	history.KindItemClicked:                {},
	history.KindItemLongClicked:            {},
	history.KindFilterChanged:              {},
	history.KindShowAllToggled:             {},
	history.KindDeleteButtonPressed:        {},
	history.KindDeleteSelectedItemsPressed: {},
	history.KindConfirmDeleteClicked:       {},
	history.KindExternalListUpdated:        {},
}

// Harness holds the per-run fixtures.
type Harness struct {
	clock    *testutil.DeterministicClock
	fixtures []history.Item
	byID     map[string]history.Item
}

// Run replays a scenario and returns the result.
//
// Execution flow:
// 1. Build item fixtures and the initial state
// 2. Reduce each step, record the trace, check the step's expect clause
// 3. Evaluate assertions against the trace and final state
//
// An error means the scenario could not be executed at all (bad reference,
// rejected action). Failed expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	h := newHarness(scenario)

	state := history.NewState(scenario.Initial.ShowAll, scenario.Initial.SourceID)
	result := NewResult()

	for i, step := range scenario.Steps {
		action, args, err := h.buildAction(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		seq := h.clock.Next()
		next, effects, err := engine.Reduce(state, action)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		state = next

		result.AddTrace(seq, action, args, state, effects)
		if step.Expect != nil {
			for _, msg := range checkExpect(*step.Expect, state, effects) {
				result.AddError(fmt.Sprintf("step %d (%s): %s", i+1, step.Action, msg))
			}
		}
	}

	result.Final = state
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func newHarness(s *Scenario) *Harness {
	h := &Harness{
		clock:    testutil.NewDeterministicClock(),
		fixtures: make([]history.Item, len(s.Items)),
		byID:     make(map[string]history.Item, len(s.Items)),
	}
	for i, f := range s.Items {
		it := testutil.Item(f.ID, s.Initial.SourceID, int64(i+1))
		if f.Source != "" {
			it.SourceID = f.Source
			it.SourceTitle = "Source " + f.Source
		}
		if f.SourceTitle != "" {
			it.SourceTitle = f.SourceTitle
		}
		if f.URL != "" {
			it.PageURL = f.URL
		}
		if f.Title != "" {
			it.PageTitle = f.Title
		}
		h.fixtures[i] = it
		h.byID[f.ID] = it
	}
	return h
}

// buildAction turns a step into an action plus the args recorded in the
// trace.
func (h *Harness) buildAction(step Step) (history.Action, map[string]any, error) {
	args := map[string]any{}

	switch history.ActionKind(step.Action) {
	case history.KindRequestExit:
		return history.RequestExit{}, args, nil

	case history.KindRequestExitSelectionMode:
		return history.RequestExitSelectionMode{}, args, nil

	case history.KindItemClicked:
		it, err := h.item(step.Item)
		if err != nil {
			return nil, nil, err
		}
		args["item"] = it.ID
		return history.ItemClicked{Item: it}, args, nil

	case history.KindItemLongClicked:
		it, err := h.item(step.Item)
		if err != nil {
			return nil, nil, err
		}
		args["item"] = it.ID
		return history.ItemLongClicked{Item: it}, args, nil

	case history.KindFilterChanged:
		args["term"] = step.Term
		return history.FilterChanged{SearchTerm: step.Term}, args, nil

	case history.KindShowAllToggled:
		args["checked"] = step.Checked
		return history.ShowAllToggled{Checked: step.Checked}, args, nil

	case history.KindDeleteButtonPressed:
		return history.DeleteButtonPressed{}, args, nil

	case history.KindDeleteSelectedItemsPressed:
		return history.DeleteSelectedItemsPressed{}, args, nil

	case history.KindConfirmDeleteClicked:
		scope, err := history.ParseDeleteScope(step.Scope)
		if err != nil {
			return nil, nil, err
		}
		args["scope"] = scope.String()
		return history.ConfirmDeleteClicked{Scope: scope}, args, nil

	case history.KindExternalListUpdated:
		items := h.fixtures
		if step.Items != nil {
			items = make([]history.Item, 0, len(step.Items))
			for _, id := range step.Items {
				it, err := h.item(id)
				if err != nil {
					return nil, nil, err
				}
				items = append(items, it)
			}
		}
		ids := make([]any, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		args["items"] = ids
		return history.ExternalListUpdated{Items: items}, args, nil

	default:
		return nil, nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

func (h *Harness) item(id string) (history.Item, error) {
	it, ok := h.byID[id]
	if !ok {
		return history.Item{}, fmt.Errorf("unknown item %q", id)
	}
	return it, nil
}

// checkExpect compares one step's outcome with its expect clause.
func checkExpect(want Expect, state history.State, effects []history.Effect) []string {
	var errs []string
	mismatch := func(field string, expected, actual any) {
		errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", field, expected, actual))
	}

	if want.Selected != nil && !slices.Equal(want.Selected, state.SelectedIDs()) {
		mismatch("selected", want.Selected, state.SelectedIDs())
	}
	if want.Visible != nil {
		if got := itemIDs(state.Visible()); !slices.Equal(want.Visible, got) {
			mismatch("visible", want.Visible, got)
		}
	}
	if want.Effects != nil {
		got := make([]string, len(effects))
		for i, e := range effects {
			got[i] = string(e.Kind())
		}
		if !slices.Equal(want.Effects, got) {
			mismatch("effects", want.Effects, got)
		}
	}
	if want.Delete != nil {
		del, ok := findEffect[history.DeleteItems](effects)
		switch {
		case !ok:
			mismatch("delete", want.Delete, "no DeleteItems effect")
		case !slices.Equal(want.Delete, del.TargetIDs()):
			mismatch("delete", want.Delete, del.TargetIDs())
		}
	}
	if want.Count != nil {
		dialog, ok := findEffect[history.ShowDeleteConfirmation](effects)
		switch {
		case !ok:
			mismatch("count", *want.Count, "no ShowDeleteConfirmation effect")
		case dialog.Count != *want.Count:
			mismatch("count", *want.Count, dialog.Count)
		}
	}
	if want.SearchTerm != nil && *want.SearchTerm != state.SearchTerm {
		mismatch("search_term", *want.SearchTerm, state.SearchTerm)
	}
	if want.ShowAll != nil && *want.ShowAll != state.ShowAll {
		mismatch("show_all", *want.ShowAll, state.ShowAll)
	}

	return errs
}

func findEffect[T history.Effect](effects []history.Effect) (T, bool) {
	for _, e := range effects {
		if t, ok := e.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func itemIDs(items []history.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
