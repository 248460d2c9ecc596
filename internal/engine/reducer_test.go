package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/testutil"
)

func loadedState(ids ...string) history.State {
	return history.NewState(false, "S1").WithItems(testutil.Items("S1", ids...))
}

func mustReduce(t *testing.T, s history.State, a history.Action) (history.State, []history.Effect) {
	t.Helper()
	next, effects, err := Reduce(s, a)
	require.NoError(t, err)
	return next, effects
}

func TestReduce_Table(t *testing.T) {
	base := loadedState("A", "B", "C")
	selected := base.ToggleSelection("B")
	itemA, _ := base.Find("A")
	itemB, _ := base.Find("B")

	tests := []struct {
		name         string
		state        history.State
		action       history.Action
		wantSelected []string
		wantEffects  []history.Effect
		check        func(t *testing.T, next history.State)
	}{
		{
			name:         "request exit navigates away",
			state:        selected,
			action:       history.RequestExit{},
			wantSelected: []string{"B"},
			wantEffects:  []history.Effect{history.NavigateAway{}},
		},
		{
			name:         "exit selection mode clears selection",
			state:        selected,
			action:       history.RequestExitSelectionMode{},
			wantSelected: []string{},
		},
		{
			name:         "delete button asks to delete all",
			state:        selected,
			action:       history.DeleteButtonPressed{},
			wantSelected: []string{"B"},
			wantEffects: []history.Effect{history.ShowDeleteConfirmation{
				Scope: history.DeleteAll, Count: 3,
			}},
		},
		{
			name:         "delete selected asks to delete selection",
			state:        selected,
			action:       history.DeleteSelectedItemsPressed{},
			wantSelected: []string{"B"},
			wantEffects: []history.Effect{history.ShowDeleteConfirmation{
				Scope: history.DeleteSelected, Count: 1,
			}},
		},
		{
			name:         "confirm carries state snapshot",
			state:        selected,
			action:       history.ConfirmDeleteClicked{Scope: history.DeleteSelected},
			wantSelected: []string{"B"},
			wantEffects: []history.Effect{history.DeleteItems{
				State: selected, Scope: history.DeleteSelected,
			}},
		},
		{
			name:         "unspecified confirm resolves from selection",
			state:        selected,
			action:       history.ConfirmDeleteClicked{},
			wantSelected: []string{"B"},
			wantEffects: []history.Effect{history.DeleteItems{
				State: selected, Scope: history.DeleteSelected,
			}},
		},
		{
			name:         "unspecified confirm without selection deletes all",
			state:        base,
			action:       history.ConfirmDeleteClicked{},
			wantSelected: []string{},
			wantEffects: []history.Effect{history.DeleteItems{
				State: base, Scope: history.DeleteAll,
			}},
		},
		{
			name:         "show all toggled persists",
			state:        base,
			action:       history.ShowAllToggled{Checked: true},
			wantSelected: []string{},
			wantEffects:  []history.Effect{history.PersistShowAllPreference{Value: true}},
			check: func(t *testing.T, next history.State) {
				assert.True(t, next.ShowAll)
			},
		},
		{
			name:         "click outside selection selects and opens",
			state:        base,
			action:       history.ItemClicked{Item: itemA},
			wantSelected: []string{"A"},
			wantEffects:  []history.Effect{history.OpenItem{Item: itemA}},
		},
		{
			name:         "click in selection toggles",
			state:        selected,
			action:       history.ItemClicked{Item: itemA},
			wantSelected: []string{"A", "B"},
		},
		{
			name:         "click on last selected leaves selection state",
			state:        selected,
			action:       history.ItemClicked{Item: itemB},
			wantSelected: []string{},
		},
		{
			name:         "long click toggles",
			state:        base,
			action:       history.ItemLongClicked{Item: itemB},
			wantSelected: []string{"B"},
		},
		{
			name:         "filter changes search term",
			state:        base,
			action:       history.FilterChanged{SearchTerm: "page"},
			wantSelected: []string{},
			check: func(t *testing.T, next history.State) {
				assert.Equal(t, "page", next.SearchTerm)
			},
		},
		{
			name:         "external update replaces items",
			state:        selected,
			action:       history.ExternalListUpdated{Items: testutil.Items("S1", "D")},
			wantSelected: []string{},
			check: func(t *testing.T, next history.State) {
				assert.Equal(t, []string{"D"}, next.ItemIDs())
				assert.True(t, next.Loaded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects := mustReduce(t, tt.state, tt.action)
			assert.Equal(t, tt.wantSelected, next.SelectedIDs())
			assert.Equal(t, tt.wantEffects, effects)
			if tt.check != nil {
				tt.check(t, next)
			}
		})
	}
}

func TestReduce_NilActionRejected(t *testing.T) {
	s := loadedState("A")

	next, effects, err := Reduce(s, nil)

	require.Error(t, err)
	assert.True(t, IsUnknownActionError(err))
	assert.Equal(t, s, next)
	assert.Empty(t, effects)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	items := testutil.Items("S1", "A", "B")
	s := history.NewState(false, "S1")

	s, _ = mustReduce(t, s, history.ExternalListUpdated{Items: items})
	s, _ = mustReduce(t, s, history.ItemLongClicked{Item: items[0]})

	assert.False(t, items[0].Selected, "caller's slice must stay untouched")

	before := s.SelectedIDs()
	_, _ = mustReduce(t, s, history.RequestExitSelectionMode{})
	assert.Equal(t, before, s.SelectedIDs(), "previous state must stay untouched")
}

func TestReduce_Deterministic(t *testing.T) {
	items := testutil.Items("S1", "A", "B", "C")
	actions := []history.Action{
		history.ExternalListUpdated{Items: items},
		history.ItemLongClicked{Item: items[1]},
		history.ItemClicked{Item: items[2]},
		history.FilterChanged{SearchTerm: "b"},
		history.ShowAllToggled{Checked: true},
		history.DeleteSelectedItemsPressed{},
	}

	replay := func() (history.State, [][]history.Effect) {
		s := history.NewState(false, "S1")
		var all [][]history.Effect
		for _, a := range actions {
			var effects []history.Effect
			s, effects = mustReduce(t, s, a)
			all = append(all, effects)
		}
		return s, all
	}

	s1, e1 := replay()
	s2, e2 := replay()
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1, e2)
}

func TestReduce_ExitSelectionModeIdempotent(t *testing.T) {
	s := loadedState("A", "B").ToggleSelection("A")

	once, _ := mustReduce(t, s, history.RequestExitSelectionMode{})
	twice, _ := mustReduce(t, once, history.RequestExitSelectionMode{})

	assert.Equal(t, once, twice)
	assert.False(t, twice.IsInSelectionState())
}

func TestReduce_LongClickInvolution(t *testing.T) {
	s := loadedState("A", "B")
	item, _ := s.Find("A")

	once, _ := mustReduce(t, s, history.ItemLongClicked{Item: item})
	twice, _ := mustReduce(t, once, history.ItemLongClicked{Item: item})

	assert.Equal(t, s, twice)
}

func TestReduce_FilterAndUpdateCommute(t *testing.T) {
	items := testutil.Items("S1", "A", "B")
	s := history.NewState(false, "S1")
	filter := history.FilterChanged{SearchTerm: "a"}
	update := history.ExternalListUpdated{Items: items}

	a, _ := mustReduce(t, s, filter)
	a, _ = mustReduce(t, a, update)
	b, _ := mustReduce(t, s, update)
	b, _ = mustReduce(t, b, filter)

	assert.Equal(t, a, b)
}

func TestReduce_ItemClickSelectionGate(t *testing.T) {
	for _, ids := range [][]string{{"A"}, {"B"}, {"C"}} {
		s := loadedState("A", "B", "C")
		item, _ := s.Find(ids[0])

		// Nothing selected: the tap always selects and opens.
		next, effects := mustReduce(t, s, history.ItemClicked{Item: item})
		assert.Equal(t, ids, next.SelectedIDs())
		assert.Equal(t, []history.Effect{history.OpenItem{Item: item}}, effects)

		// Something selected: the tap only toggles, selecting or deselecting.
		for _, other := range []string{"A", "B", "C"} {
			selecting := next.ToggleSelection(other)
			if !selecting.IsInSelectionState() {
				continue
			}
			after, effects := mustReduce(t, selecting, history.ItemClicked{Item: item})
			assert.Empty(t, effects, "tap on %s with %v selected", ids[0], selecting.SelectedIDs())
			assert.Equal(t, selecting.ToggleSelection(ids[0]), after)
		}
	}
}

func TestReduce_ShowAllPersistsExactlyOnce(t *testing.T) {
	_, effects := mustReduce(t, loadedState("A"), history.ShowAllToggled{Checked: true})

	require.Len(t, effects, 1)
	assert.Equal(t, history.PersistShowAllPreference{Value: true}, effects[0])
}

func TestReduce_SelectAndDeleteScenario(t *testing.T) {
	items := testutil.Items("S1", "A", "B", "C")
	s := history.NewState(false, "S1")

	s, effects := mustReduce(t, s, history.ExternalListUpdated{Items: items})
	assert.Empty(t, effects)

	s, effects = mustReduce(t, s, history.ItemLongClicked{Item: items[1]})
	assert.Empty(t, effects)
	assert.Equal(t, []string{"B"}, s.SelectedIDs())

	s, effects = mustReduce(t, s, history.ItemClicked{Item: items[2]})
	assert.Empty(t, effects, "a tap in selection state must not open")
	assert.Equal(t, []string{"B", "C"}, s.SelectedIDs())

	s, effects = mustReduce(t, s, history.DeleteSelectedItemsPressed{})
	require.Len(t, effects, 1)
	dialog, ok := effects[0].(history.ShowDeleteConfirmation)
	require.True(t, ok)
	assert.Equal(t, 2, dialog.Count)

	s, effects = mustReduce(t, s, history.ConfirmDeleteClicked{Scope: dialog.Scope})
	require.Len(t, effects, 1)
	del, ok := effects[0].(history.DeleteItems)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C"}, del.TargetIDs())

	// The store answers with the surviving list.
	s, effects = mustReduce(t, s, history.ExternalListUpdated{Items: items[:1]})
	assert.Empty(t, effects)
	assert.Equal(t, []string{"A"}, s.ItemIDs())
	assert.False(t, s.IsInSelectionState())
}
