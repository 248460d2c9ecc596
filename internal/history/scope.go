package history

import "fmt"

// DeleteScope records which button started a deletion.
type DeleteScope int

const (
	// ScopeUnspecified defers the decision to the state at confirmation time.
	ScopeUnspecified DeleteScope = iota
	// DeleteAll removes every item in the history.
	DeleteAll
	// DeleteSelected removes only the selected items.
	DeleteSelected
)

// String returns the scope name used in traces and scenario files.
func (s DeleteScope) String() string {
	switch s {
	case DeleteAll:
		return "all"
	case DeleteSelected:
		return "selected"
	default:
		return "unspecified"
	}
}

// Resolve returns a concrete scope. An unspecified scope means "selected"
// while something is selected and "all" otherwise.
func (s DeleteScope) Resolve(state State) DeleteScope {
	if s != ScopeUnspecified {
		return s
	}
	if state.IsInSelectionState() {
		return DeleteSelected
	}
	return DeleteAll
}

// ParseDeleteScope parses the names produced by String.
func ParseDeleteScope(name string) (DeleteScope, error) {
	switch name {
	case "", "unspecified":
		return ScopeUnspecified, nil
	case "all":
		return DeleteAll, nil
	case "selected":
		return DeleteSelected, nil
	default:
		return ScopeUnspecified, fmt.Errorf("unknown delete scope %q", name)
	}
}
