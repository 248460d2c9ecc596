package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	actions []Action
	accept  bool
}

func (c *captureSink) Submit(a Action) bool {
	c.actions = append(c.actions, a)
	return c.accept
}

func TestShowDeleteConfirmationConfirm(t *testing.T) {
	sink := &captureSink{accept: true}
	eff := ShowDeleteConfirmation{Scope: DeleteSelected, Count: 2, Sink: sink}

	require.True(t, eff.Confirm())
	require.Len(t, sink.actions, 1)
	assert.Equal(t, ConfirmDeleteClicked{Scope: DeleteSelected}, sink.actions[0])
}

func TestShowDeleteConfirmationWithoutSink(t *testing.T) {
	assert.False(t, ShowDeleteConfirmation{Scope: DeleteAll}.Confirm())
}

func TestDeleteItemsTargetIDs(t *testing.T) {
	state := NewState(true, "S1").WithItems(fixtureItems()).ToggleSelection("B")

	tests := []struct {
		name  string
		scope DeleteScope
		want  []string
	}{
		{"selected", DeleteSelected, []string{"B"}},
		{"all", DeleteAll, []string{"A", "B", "C"}},
		{"unspecified with selection", ScopeUnspecified, []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeleteItems{State: state, Scope: tt.scope}.TargetIDs())
		})
	}

	noSelection := NewState(true, "S1").WithItems(fixtureItems())
	assert.Equal(t, []string{"A", "B", "C"}, DeleteItems{State: noSelection}.TargetIDs())
}

func TestParseDeleteScope(t *testing.T) {
	for _, scope := range []DeleteScope{ScopeUnspecified, DeleteAll, DeleteSelected} {
		parsed, err := ParseDeleteScope(scope.String())
		require.NoError(t, err)
		assert.Equal(t, scope, parsed)
	}

	_, err := ParseDeleteScope("some")
	assert.Error(t, err)
}
