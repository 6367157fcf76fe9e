package circuit

import "fmt"

// ComponentID identifies one component instance within a scene.
// IDs are opaque stable strings assigned at scene setup.
type ComponentID string

// TerminalKey distinguishes the poles/pins on one component instance,
// e.g. "pos"/"neg" on a battery, "t1"/"t2" on a bulb, "front"/"rear" on
// a switch. Keys are scene data, not engine constants.
type TerminalKey string

// WireID identifies a user-created wire. Assigned at wire-creation time.
type WireID string

// Terminal addresses one connection point: a (component, key) pair.
// Terminals are immutable once a component instance exists; they are
// never renamed or merged.
type Terminal struct {
	Component ComponentID `json:"component"`
	Key       TerminalKey `json:"key"`
}

// String renders the terminal as "component.key" for logs and traces.
func (t Terminal) String() string {
	return fmt.Sprintf("%s.%s", t.Component, t.Key)
}

// ParseTerminal parses the "component.key" form used by scenario files
// and the CLI. The component ID may not contain a dot; keys may.
func ParseTerminal(s string) (Terminal, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			if i == 0 || i == len(s)-1 {
				return Terminal{}, fmt.Errorf("malformed terminal %q: empty component or key", s)
			}
			return Terminal{Component: ComponentID(s[:i]), Key: TerminalKey(s[i+1:])}, nil
		}
	}
	return Terminal{}, fmt.Errorf("malformed terminal %q: want component.key", s)
}

// ComponentKind classifies a component instance.
//
// Wires are deliberately NOT a kind: a wire is a conductive edge between two
// terminals of non-wire components, carried as its own record (WireID plus
// endpoints) rather than as a component with terminals of its own.
type ComponentKind string

const (
	// KindSource is a battery or battery slot. A source supplies current
	// between its two terminals when installed and correctly oriented.
	// Its terminals are never intrinsically linked to each other.
	KindSource ComponentKind = "source"

	// KindLoad is a bulb. Its two terminals are always intrinsically
	// linked: the filament is the path.
	KindLoad ComponentKind = "load"

	// KindSwitch is a binary open/closed control. Its two terminals are
	// intrinsically linked only while closed.
	KindSwitch ComponentKind = "switch"
)

// ValidKinds enumerates the accepted component kinds.
var ValidKinds = map[ComponentKind]bool{
	KindSource: true,
	KindLoad:   true,
	KindSwitch: true,
}

// TerminalsPerComponent is the fixed terminal cardinality for every kind.
const TerminalsPerComponent = 2

// ComponentSpec declares one component instance in a scene.
type ComponentSpec struct {
	ID   ComponentID   `json:"id"`
	Kind ComponentKind `json:"kind"`

	// Terminals lists the terminal keys in declaration order.
	// Exactly two per component (enforced by scene validation).
	Terminals []TerminalKey `json:"terminals"`

	// SeriesGroup names the series battery box this source is docked
	// into, if any. Sources sharing a group are chained end-to-end in
	// declaration order. Empty for standalone sources and for non-sources.
	SeriesGroup string `json:"series_group,omitempty"`

	// ParallelGroup names the parallel battery box this source is docked
	// into, if any. Sources sharing a group present their same-index
	// poles as one electrical node. Mutually exclusive with SeriesGroup
	// (enforced by scene validation).
	ParallelGroup string `json:"parallel_group,omitempty"`
}

// Terminal returns the addressed terminal on this component.
func (c *ComponentSpec) Terminal(key TerminalKey) Terminal {
	return Terminal{Component: c.ID, Key: key}
}

// PoleIndex returns the declaration position of key, or -1 when key is
// not a declared terminal. For sources, position 0 and 1 are the two
// poles; a complete path runs from a pole at one position to a pole at
// the other.
func (c *ComponentSpec) PoleIndex(key TerminalKey) int {
	for i, k := range c.Terminals {
		if k == key {
			return i
		}
	}
	return -1
}

// HasTerminal reports whether key names a declared terminal.
func (c *ComponentSpec) HasTerminal(key TerminalKey) bool {
	for _, k := range c.Terminals {
		if k == key {
			return true
		}
	}
	return false
}

// SceneSpec is a compiled lesson scene: the fixed set of component
// instances the learner can wire together.
type SceneSpec struct {
	Name       string          `json:"name"`
	Components []ComponentSpec `json:"components"` // declaration order
}

// Component looks up a component by ID.
func (s *SceneSpec) Component(id ComponentID) (*ComponentSpec, bool) {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i], true
		}
	}
	return nil, false
}

// Loads returns the load component IDs in declaration order.
func (s *SceneSpec) Loads() []ComponentID {
	var ids []ComponentID
	for _, c := range s.Components {
		if c.Kind == KindLoad {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Sources returns the source component IDs in declaration order.
func (s *SceneSpec) Sources() []ComponentID {
	var ids []ComponentID
	for _, c := range s.Components {
		if c.Kind == KindSource {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
