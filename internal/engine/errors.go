package engine

import (
	"errors"
	"fmt"
)

// MutationError represents a rejected graph mutation.
//
// Mutation errors include:
//   - Unknown terminal: a referenced terminal does not exist in the scene
//   - Unknown component: a referenced component does not exist or has the wrong kind
//   - Unknown wire: a referenced wire does not exist
//   - Occupied terminal: a terminal already carries a user wire
//   - Same component: both wire endpoints belong to one component instance
//
// A rejected mutation leaves the graph exactly as it was. MutationError
// includes structured fields so callers can map the failure back to the
// gesture that caused it.
type MutationError struct {
	// Code identifies the error category.
	Code MutationErrorCode

	// Message is a human-readable description.
	Message string

	// Terminal identifies the offending terminal (for terminal errors).
	Terminal string

	// Component identifies the offending component (for component errors).
	Component string

	// Wire identifies the offending wire (for wire errors).
	Wire string
}

// MutationErrorCode categorizes mutation errors.
type MutationErrorCode string

const (
	// ErrCodeUnknownTerminal indicates a referenced terminal doesn't exist.
	ErrCodeUnknownTerminal MutationErrorCode = "UNKNOWN_TERMINAL"

	// ErrCodeUnknownComponent indicates a referenced component doesn't exist
	// or is not of the kind the operation requires.
	ErrCodeUnknownComponent MutationErrorCode = "UNKNOWN_COMPONENT"

	// ErrCodeUnknownWire indicates a referenced wire doesn't exist.
	ErrCodeUnknownWire MutationErrorCode = "UNKNOWN_WIRE"

	// ErrCodeOccupiedTerminal indicates a terminal already has a user wire.
	ErrCodeOccupiedTerminal MutationErrorCode = "OCCUPIED_TERMINAL"

	// ErrCodeSameComponent indicates both wire endpoints belong to the
	// same component instance.
	ErrCodeSameComponent MutationErrorCode = "SAME_COMPONENT"
)

// Error implements the error interface.
func (e *MutationError) Error() string {
	switch {
	case e.Terminal != "":
		return fmt.Sprintf("%s: %s (terminal=%s)", e.Code, e.Message, e.Terminal)
	case e.Component != "":
		return fmt.Sprintf("%s: %s (component=%s)", e.Code, e.Message, e.Component)
	case e.Wire != "":
		return fmt.Sprintf("%s: %s (wire=%s)", e.Code, e.Message, e.Wire)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownTerminal returns true if the error is an unknown-terminal error.
// Uses errors.As to handle wrapped errors.
func IsUnknownTerminal(err error) bool {
	return hasCode(err, ErrCodeUnknownTerminal)
}

// IsUnknownComponent returns true if the error is an unknown-component error.
func IsUnknownComponent(err error) bool {
	return hasCode(err, ErrCodeUnknownComponent)
}

// IsUnknownWire returns true if the error is an unknown-wire error.
func IsUnknownWire(err error) bool {
	return hasCode(err, ErrCodeUnknownWire)
}

// IsOccupiedTerminal returns true if the error is an occupied-terminal error.
func IsOccupiedTerminal(err error) bool {
	return hasCode(err, ErrCodeOccupiedTerminal)
}

// IsSameComponent returns true if the error is a same-component error.
func IsSameComponent(err error) bool {
	return hasCode(err, ErrCodeSameComponent)
}

func hasCode(err error, code MutationErrorCode) bool {
	var me *MutationError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// NewUnknownTerminalError creates a MutationError for a terminal that
// does not exist in the scene.
func NewUnknownTerminalError(terminal string) *MutationError {
	return &MutationError{
		Code:     ErrCodeUnknownTerminal,
		Message:  "terminal does not exist in scene",
		Terminal: terminal,
	}
}

// NewUnknownComponentError creates a MutationError for a missing or
// wrongly-kinded component.
func NewUnknownComponentError(component, want string) *MutationError {
	return &MutationError{
		Code:      ErrCodeUnknownComponent,
		Message:   fmt.Sprintf("component does not exist or is not a %s", want),
		Component: component,
	}
}

// NewUnknownWireError creates a MutationError for a missing wire.
func NewUnknownWireError(wire string) *MutationError {
	return &MutationError{
		Code:    ErrCodeUnknownWire,
		Message: "wire does not exist",
		Wire:    wire,
	}
}

// NewOccupiedTerminalError creates a MutationError for a terminal that
// already carries a user wire.
func NewOccupiedTerminalError(terminal string, by string) *MutationError {
	return &MutationError{
		Code:     ErrCodeOccupiedTerminal,
		Message:  fmt.Sprintf("terminal already carries wire %s", by),
		Terminal: terminal,
	}
}

// NewSameComponentError creates a MutationError for a wire whose two
// endpoints belong to one component instance.
func NewSameComponentError(component string) *MutationError {
	return &MutationError{
		Code:      ErrCodeSameComponent,
		Message:   "wire endpoints belong to the same component",
		Component: component,
	}
}
