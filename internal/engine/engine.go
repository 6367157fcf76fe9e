package engine

import (
	"log/slog"

	"github.com/roach88/voltlab/internal/circuit"
)

// Wire is a user edge: an unordered pair of terminals belonging to two
// different component instances, created by a completed drag-connect
// gesture and destroyed on removal or reset.
type Wire struct {
	ID circuit.WireID
	A  circuit.Terminal
	B  circuit.Terminal
}

// SourceState holds the adapter-supplied facts about physical battery
// placement. The engine never computes these: orientation validity is a
// world-space geometric check that belongs to the presentation layer.
type SourceState struct {
	Installed        bool
	OrientationValid bool
}

// Valid reports whether the source contributes to reachability.
// An uninstalled or misoriented source is absent from the graph: its
// terminals exist but carry no current.
func (s SourceState) Valid() bool {
	return s.Installed && s.OrientationValid
}

// Engine is the single-writer circuit continuity engine.
//
// The engine owns the mutable circuit graph for one scene: the fixed set
// of component instances plus the user wires, switch states, and source
// placements the learner has produced. Mutations are synchronous and
// either fully apply or reject with a typed MutationError; Evaluate is a
// pure read that never fails.
//
// CRITICAL: the engine is not safe for concurrent mutation. The adapter
// runs on the UI thread and issues one mutation followed by one Evaluate
// per gesture, so there is exactly one logical writer and one logical
// reader, never overlapping.
//
// INVARIANTS:
//   - Component instances never change after construction; only Wires
//     are created and destroyed.
//   - A terminal carries at most one user wire at a time.
//   - wireOrder preserves creation order for deterministic traversal.
type Engine struct {
	scene    *circuit.SceneSpec
	clock    *Clock
	wireGen  WireIDGenerator
	maxSteps int

	wires     map[circuit.WireID]Wire
	wireOrder []circuit.WireID
	occupied  map[circuit.Terminal]circuit.WireID
	switches  map[circuit.ComponentID]bool
	sources   map[circuit.ComponentID]SourceState
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithMaxSteps sets the path-enumeration budget per Evaluate call.
//
// Default: 10000 steps (DefaultMaxSteps)
// Use WithMaxSteps(10) for testing budget truncation.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// New creates an Engine for the given scene.
//
// All switches start open and all sources start uninstalled; the adapter
// reports actual placement via SetSourceInstalled as the learner drops
// batteries into slots.
func New(scene *circuit.SceneSpec, wireGen WireIDGenerator, opts ...Option) *Engine {
	return NewWithClock(scene, wireGen, NewClock(), opts...)
}

// NewWithClock creates an Engine with a pre-configured clock.
// Used for replay to resume from a specific sequence number.
func NewWithClock(scene *circuit.SceneSpec, wireGen WireIDGenerator, clock *Clock, opts ...Option) *Engine {
	e := &Engine{
		scene:    scene,
		clock:    clock,
		wireGen:  wireGen,
		maxSteps: DefaultMaxSteps,
		wires:    make(map[circuit.WireID]Wire),
		occupied: make(map[circuit.Terminal]circuit.WireID),
		switches: make(map[circuit.ComponentID]bool),
		sources:  make(map[circuit.ComponentID]SourceState),
	}

	for _, c := range scene.Components {
		switch c.Kind {
		case circuit.KindSwitch:
			e.switches[c.ID] = false
		case circuit.KindSource:
			e.sources[c.ID] = SourceState{}
		}
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Scene returns the fixed scene the engine was built for.
func (e *Engine) Scene() *circuit.SceneSpec {
	return e.scene
}

// Revision returns the sequence number of the last applied mutation.
// Rejected mutations do not advance the revision.
func (e *Engine) Revision() int64 {
	return e.clock.Current()
}

// AddWire adds a user edge between two free terminals.
//
// Fails with UnknownTerminal if either terminal does not exist in the
// scene, SameComponent if both belong to one component instance, or
// OccupiedTerminal if either already carries a wire. On success the new
// wire's identifier comes from the engine's WireIDGenerator.
func (e *Engine) AddWire(a, b circuit.Terminal) (Wire, error) {
	if err := e.resolveTerminal(a); err != nil {
		return Wire{}, err
	}
	if err := e.resolveTerminal(b); err != nil {
		return Wire{}, err
	}
	if a.Component == b.Component {
		return Wire{}, NewSameComponentError(string(a.Component))
	}
	if by, ok := e.occupied[a]; ok {
		return Wire{}, NewOccupiedTerminalError(a.String(), string(by))
	}
	if by, ok := e.occupied[b]; ok {
		return Wire{}, NewOccupiedTerminalError(b.String(), string(by))
	}

	w := Wire{ID: e.wireGen.Generate(), A: a, B: b}
	e.wires[w.ID] = w
	e.wireOrder = append(e.wireOrder, w.ID)
	e.occupied[a] = w.ID
	e.occupied[b] = w.ID
	seq := e.clock.Next()

	slog.Debug("wire added",
		"seq", seq,
		"wire", w.ID,
		"a", a.String(),
		"b", b.String())
	return w, nil
}

// RemoveWire removes a user edge, freeing both endpoints.
func (e *Engine) RemoveWire(id circuit.WireID) error {
	w, ok := e.wires[id]
	if !ok {
		return NewUnknownWireError(string(id))
	}

	delete(e.wires, id)
	delete(e.occupied, w.A)
	delete(e.occupied, w.B)
	for i, wid := range e.wireOrder {
		if wid == id {
			e.wireOrder = append(e.wireOrder[:i], e.wireOrder[i+1:]...)
			break
		}
	}
	seq := e.clock.Next()

	slog.Debug("wire removed", "seq", seq, "wire", id)
	return nil
}

// SetSwitchState opens or closes a switch. The switch's intrinsic edge
// exists exactly when closed is true; toggling it is the only way that
// edge appears or disappears.
func (e *Engine) SetSwitchState(id circuit.ComponentID, closed bool) error {
	if _, ok := e.switches[id]; !ok {
		return NewUnknownComponentError(string(id), "switch")
	}

	e.switches[id] = closed
	seq := e.clock.Next()

	slog.Debug("switch set", "seq", seq, "switch", id, "closed", closed)
	return nil
}

// SetSourceInstalled records the adapter-supplied placement facts for a
// battery slot.
func (e *Engine) SetSourceInstalled(id circuit.ComponentID, installed, orientationValid bool) error {
	if _, ok := e.sources[id]; !ok {
		return NewUnknownComponentError(string(id), "source")
	}

	e.sources[id] = SourceState{Installed: installed, OrientationValid: orientationValid}
	seq := e.clock.Next()

	slog.Debug("source set",
		"seq", seq,
		"source", id,
		"installed", installed,
		"orientation_valid", orientationValid)
	return nil
}

// Reset clears all wires, opens all switches, and marks all sources
// uninstalled, returning the engine to its initial state. The logical
// clock keeps advancing so the journal stays totally ordered across
// resets.
func (e *Engine) Reset() {
	e.wires = make(map[circuit.WireID]Wire)
	e.wireOrder = nil
	e.occupied = make(map[circuit.Terminal]circuit.WireID)
	for id := range e.switches {
		e.switches[id] = false
	}
	for id := range e.sources {
		e.sources[id] = SourceState{}
	}
	seq := e.clock.Next()

	slog.Debug("engine reset", "seq", seq)
}

// Wires returns the user wires in creation order.
func (e *Engine) Wires() []Wire {
	out := make([]Wire, 0, len(e.wireOrder))
	for _, id := range e.wireOrder {
		out = append(out, e.wires[id])
	}
	return out
}

// WireCount returns the number of user wires.
func (e *Engine) WireCount() int {
	return len(e.wires)
}

// SwitchClosed reports a switch's state. Unknown switches read as open.
func (e *Engine) SwitchClosed(id circuit.ComponentID) bool {
	return e.switches[id]
}

// Source reports a source's placement state. Unknown sources read as
// uninstalled.
func (e *Engine) Source(id circuit.ComponentID) SourceState {
	return e.sources[id]
}

func (e *Engine) resolveTerminal(t circuit.Terminal) error {
	c, ok := e.scene.Component(t.Component)
	if !ok || !c.HasTerminal(t.Key) {
		return NewUnknownTerminalError(t.String())
	}
	return nil
}
