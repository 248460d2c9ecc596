package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/histview/internal/history"
)

// Scenario is a scripted history-screen session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Initial seeds the state, as the preference file and active source would.
	Initial Initial `yaml:"initial"`

	// Items are the history entries steps can refer to by id.
	Items []Fixture `yaml:"items"`

	// Steps are the actions to reduce, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the whole trace and the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Initial is the starting state.
type Initial struct {
	ShowAll  bool   `yaml:"show_all"`
	SourceID string `yaml:"source_id"`
}

// Fixture is one history item.
type Fixture struct {
	ID          string `yaml:"id"`
	Source      string `yaml:"source,omitempty"`
	SourceTitle string `yaml:"source_title,omitempty"`
	URL         string `yaml:"url,omitempty"`
	Title       string `yaml:"title,omitempty"`
}

// Step is one action.
type Step struct {
	// Action is the action kind, e.g. "ItemLongClicked".
	Action string `yaml:"action"`

	// Item is the fixture id for ItemClicked and ItemLongClicked.
	Item string `yaml:"item,omitempty"`

	// Items are the fixture ids for ExternalListUpdated. Absent means all.
	Items []string `yaml:"items,omitempty"`

	// Term is the FilterChanged search text.
	Term string `yaml:"term,omitempty"`

	// Checked is the ShowAllToggled value.
	Checked bool `yaml:"checked,omitempty"`

	// Scope is the ConfirmDeleteClicked scope: all, selected or unspecified.
	Scope string `yaml:"scope,omitempty"`

	// Expect is checked after the step. Nil means no checks.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds per-step checks. A nil field is not checked; an empty list
// must match an empty result.
type Expect struct {
	Selected   []string `yaml:"selected,omitempty"`
	Visible    []string `yaml:"visible,omitempty"`
	Effects    []string `yaml:"effects,omitempty"`
	Delete     []string `yaml:"delete,omitempty"`
	Count      *int     `yaml:"count,omitempty"`
	SearchTerm *string  `yaml:"search_term,omitempty"`
	ShowAll    *bool    `yaml:"show_all,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is the action kind (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args are expected action arguments (trace_contains), subset match.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Expect holds expected final state fields (final_state), subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and that every
// reference resolves.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	ids := make(map[string]bool, len(s.Items))
	for i, it := range s.Items {
		if it.ID == "" {
			return fmt.Errorf("items[%d]: id is required", i)
		}
		if ids[it.ID] {
			return fmt.Errorf("items[%d]: duplicate id %q", i, it.ID)
		}
		if it.Source == "" && s.Initial.SourceID == "" {
			return fmt.Errorf("items[%d]: source is required when initial.source_id is empty", i)
		}
		ids[it.ID] = true
	}

	for i, step := range s.Steps {
		if err := validateStep(step, ids); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(step Step, ids map[string]bool) error {
	kind := history.ActionKind(step.Action)
	if _, ok := knownActions[kind]; !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}

	switch kind {
	case history.KindItemClicked, history.KindItemLongClicked:
		if step.Item == "" {
			return fmt.Errorf("item is required for %s", step.Action)
		}
		if !ids[step.Item] {
			return fmt.Errorf("unknown item %q", step.Item)
		}
	case history.KindExternalListUpdated:
		for _, id := range step.Items {
			if !ids[id] {
				return fmt.Errorf("unknown item %q", id)
			}
		}
	case history.KindConfirmDeleteClicked:
		if _, err := history.ParseDeleteScope(step.Scope); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
		for key := range a.Expect {
			if !finalStateFields[key] {
				return fmt.Errorf("assertions[%d]: unknown final_state field %q", index, key)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
