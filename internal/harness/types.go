package harness

import "github.com/roach88/histview/internal/history"

// TraceEvent is one reduced action and what it did.
type TraceEvent struct {
	Seq        int64          `json:"seq"`
	Action     string         `json:"action"`
	Args       map[string]any `json:"args"`
	Effects    []string       `json:"effects"`
	Selected   []string       `json:"selected"`
	ShowAll    bool           `json:"show_all"`
	SearchTerm string         `json:"search_term,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace has one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`

	// Final is the state after the last step.
	Final history.State `json:"final"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event for a reduced action.
func (r *Result) AddTrace(seq int64, action history.Action, args map[string]any, state history.State, effects []history.Effect) {
	kinds := make([]string, len(effects))
	for i, e := range effects {
		kinds[i] = string(e.Kind())
	}
	r.Trace = append(r.Trace, TraceEvent{
		Seq:        seq,
		Action:     string(action.Kind()),
		Args:       args,
		Effects:    kinds,
		Selected:   state.SelectedIDs(),
		ShowAll:    state.ShowAll,
		SearchTerm: state.SearchTerm,
	})
}
