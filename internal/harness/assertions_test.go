package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/testutil"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Action: "ExternalListUpdated", Args: map[string]any{"items": []any{"A", "B"}}},
		{Seq: 2, Action: "ItemLongClicked", Args: map[string]any{"item": "A"}},
		{Seq: 3, Action: "ShowAllToggled", Args: map[string]any{"checked": true}},
		{Seq: 4, Action: "ItemLongClicked", Args: map[string]any{"item": "B"}},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "ItemLongClicked", Args: map[string]any{"item": "B"}}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "ShowAllToggled"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{
		Action: "ExternalListUpdated",
		Args:   map[string]any{"items": []any{"A", "B"}},
	}))

	err := assertTraceContains(trace, Assertion{Action: "ItemLongClicked", Args: map[string]any{"item": "C"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
	assert.Contains(t, err.Error(), "Full trace:")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{"ExternalListUpdated", "ShowAllToggled"}}))

	err := assertTraceOrder(trace, Assertion{Actions: []string{"ShowAllToggled", "ItemLongClicked"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Actions: []string{"RequestExit"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing action: RequestExit")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "ItemLongClicked", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "RequestExit", Count: 0}))
	assert.Error(t, assertTraceCount(trace, Assertion{Action: "ItemLongClicked", Count: 1}))
}

func TestAssertFinalState(t *testing.T) {
	final := history.NewState(false, "S1").
		WithItems(testutil.Items("S1", "A", "B")).
		ToggleSelection("B")

	assert.NoError(t, assertFinalState(final, Assertion{Expect: map[string]any{
		"items":     []any{"A", "B"},
		"selected":  []any{"B"},
		"show_all":  false,
		"loaded":    true,
		"source_id": "S1",
	}}))

	err := assertFinalState(final, Assertion{Expect: map[string]any{
		"selected": []any{},
		"visible":  []any{"A"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selected=[B]")
	assert.Contains(t, err.Error(), "visible=[A B]")
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual([]any{}, nil))
	assert.True(t, valuesEqual([]any{"a"}, []any{"a"}))
	assert.False(t, valuesEqual([]any{"a"}, []any{"b"}))
	assert.False(t, valuesEqual([]any{"a"}, "a"))
	assert.True(t, valuesEqual(true, true))
	assert.False(t, valuesEqual("1", 1))
}

func TestEvaluateAssertions_CollectsFailures(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()
	result.Final = history.NewState(true, "S1")

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Action: "ItemLongClicked", Count: 2},
		{Type: AssertTraceCount, Action: "ItemClicked", Count: 1},
		{Type: AssertFinalState, Expect: map[string]any{"show_all": false}},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[1]")
	assert.Contains(t, errs[1], "assertions[2]")
}
