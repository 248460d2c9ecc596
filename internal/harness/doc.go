// Package harness replays scripted history-screen sessions through the
// reducer and checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: select_and_delete
//	description: "Long press, extend the selection, delete it"
//	initial:
//	  show_all: false
//	  source_id: S1
//	items:
//	  - id: A
//	    title: Alpha
//	    url: https://alpha.example
//	steps:
//	  - action: ExternalListUpdated
//	  - action: ItemLongClicked
//	    item: A
//	    expect:
//	      selected: [A]
//	      effects: []
//	assertions:
//	  - type: trace_count
//	    action: ItemLongClicked
//	    count: 1
//	  - type: final_state
//	    expect: { selected: [A] }
//
// Item fixtures get their source from initial.source_id unless they name
// one, and visit times from testutil.At in list order. A step's item and
// items fields refer to fixture ids; ExternalListUpdated without items
// delivers every fixture.
//
// # Step Expectations
//
// Every expect key is optional. A key that is present must match exactly:
//
//   - selected: ids of selected items after the step
//   - visible: ids of visible items after the step
//   - effects: kinds of the effects the step produced
//   - delete: target ids of the step's DeleteItems effect
//   - count: Count of the step's ShowDeleteConfirmation effect
//   - search_term, show_all: state fields after the step
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: fields of the final state (items, selected, visible,
//     show_all, search_term, loaded, source_id)
//
// # Deterministic Testing
//
// Run calls engine.Reduce directly with a testutil.DeterministicClock, so
// a scenario always yields the same trace. RunWithGolden compares that
// trace, as canonical JSON, with testdata/golden/<name>.golden.
package harness
