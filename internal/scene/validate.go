package scene

import (
	"fmt"
	"strings"

	"github.com/roach88/voltlab/internal/circuit"
)

// Validation error codes (E100-E199)
const (
	// SceneSpec errors (E100-E109)
	ErrSceneNameEmpty      = "E100" // scene name is required
	ErrSceneNoComponents   = "E101" // at least one component required
	ErrInvalidKind         = "E102" // unknown component kind
	ErrDuplicateID         = "E103" // duplicate component ID
	ErrBadTerminalCount    = "E104" // component must have exactly two terminals
	ErrDuplicateTerminal   = "E105" // duplicate terminal key on one component
	ErrMalformedIdentifier = "E106" // identifier contains reserved characters
	ErrGroupOnNonSource    = "E107" // series/parallel group on a non-source
	ErrConflictingGroups   = "E108" // source in both a series and a parallel group
)

// ValidationError represents a scene schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled scene against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(spec *circuit.SceneSpec) []ValidationError {
	var errs []ValidationError

	// E100: name is required
	if strings.TrimSpace(spec.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "scene name is required and must be non-empty",
			Code:    ErrSceneNameEmpty,
		})
	}

	// E101: at least one component required
	if len(spec.Components) == 0 {
		errs = append(errs, ValidationError{
			Field:   "components",
			Message: "at least one component is required",
			Code:    ErrSceneNoComponents,
		})
	}

	seen := make(map[circuit.ComponentID]bool)
	for i, c := range spec.Components {
		field := fmt.Sprintf("components[%d]", i)

		// E103: duplicate component ID
		if seen[c.ID] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate component id: %q", c.ID),
				Code:    ErrDuplicateID,
			})
		}
		seen[c.ID] = true

		// E106: component IDs may not contain a dot, which separates the
		// component from the terminal key in "component.key" addresses.
		if strings.Contains(string(c.ID), ".") || strings.TrimSpace(string(c.ID)) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("component id %q must be non-empty and contain no dot", c.ID),
				Code:    ErrMalformedIdentifier,
			})
		}

		// E102: unknown kind
		if !circuit.ValidKinds[c.Kind] {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("unknown component kind %q, must be \"source\", \"load\", or \"switch\"", c.Kind),
				Code:    ErrInvalidKind,
			})
		}

		// E104: fixed terminal cardinality per kind
		if len(c.Terminals) != circuit.TerminalsPerComponent {
			errs = append(errs, ValidationError{
				Field:   field + ".terminals",
				Message: fmt.Sprintf("component %q must have exactly %d terminals, got %d", c.ID, circuit.TerminalsPerComponent, len(c.Terminals)),
				Code:    ErrBadTerminalCount,
			})
		}

		// E105: terminal keys unique within the component
		keys := make(map[circuit.TerminalKey]bool)
		for _, k := range c.Terminals {
			if keys[k] {
				errs = append(errs, ValidationError{
					Field:   field + ".terminals",
					Message: fmt.Sprintf("duplicate terminal key %q on component %q", k, c.ID),
					Code:    ErrDuplicateTerminal,
				})
			}
			keys[k] = true
		}

		// E107: groups belong to sources only
		if c.Kind != circuit.KindSource && (c.SeriesGroup != "" || c.ParallelGroup != "") {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("component %q is not a source and may not declare a battery-box group", c.ID),
				Code:    ErrGroupOnNonSource,
			})
		}

		// E108: a cell docks into one box, not two
		if c.SeriesGroup != "" && c.ParallelGroup != "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("source %q declares both a series and a parallel group", c.ID),
				Code:    ErrConflictingGroups,
			})
		}
	}

	return errs
}
