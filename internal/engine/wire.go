package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/voltlab/internal/circuit"
)

// WireIDGenerator assigns identifiers to user wires at creation time.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests
// and replay).
type WireIDGenerator interface {
	Generate() circuit.WireID
}

// UUIDv7Generator generates time-sortable UUIDv7 wire identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, making wire
// identifiers sortable by creation time. This is helpful for debugging
// and trace visualization.
//
// Uses github.com/google/uuid package for RFC 4122 compliant UUIDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() circuit.WireID {
	return circuit.WireID(uuid.Must(uuid.NewV7()).String())
}

// FixedGenerator returns predetermined wire identifiers.
//
// This enables deterministic test execution, golden trace comparison,
// and journal replay (replay feeds the recorded wire IDs back so the
// rebuilt graph is byte-identical to the original session).
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []circuit.WireID
	idx int
}

// NewFixedGenerator creates a generator that returns identifiers in order.
//
// Example:
//
//	gen := NewFixedGenerator("wire-1", "wire-2", "wire-3")
//	gen.Generate() // "wire-1"
//	gen.Generate() // "wire-2"
//	gen.Generate() // "wire-3"
//	gen.Generate() // panic: all identifiers exhausted
func NewFixedGenerator(ids ...circuit.WireID) *FixedGenerator {
	return &FixedGenerator{
		ids: ids,
		idx: 0,
	}
}

// Generate returns the next predetermined identifier.
// Thread-safe: uses mutex to protect index access.
//
// Panics if all identifiers have been consumed. This is a fail-fast
// approach to catch misconfiguration (caller created more wires than
// the recorded sequence allows).
func (g *FixedGenerator) Generate() circuit.WireID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all wire identifiers exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// SessionGenerator replays recorded identifiers, then switches to fresh
// UUIDv7 identifiers once the recording is exhausted.
//
// Used to resume a journaled session: wires recreated during replay keep
// their recorded IDs, and wires added afterwards get new ones.
type SessionGenerator struct {
	mu       sync.Mutex
	recorded []circuit.WireID
	idx      int
	fresh    UUIDv7Generator
}

// NewSessionGenerator creates a generator seeded with recorded identifiers.
func NewSessionGenerator(recorded ...circuit.WireID) *SessionGenerator {
	return &SessionGenerator{recorded: recorded}
}

// Generate returns the next recorded identifier, or a fresh UUIDv7 when
// the recording is exhausted.
func (g *SessionGenerator) Generate() circuit.WireID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx < len(g.recorded) {
		id := g.recorded[g.idx]
		g.idx++
		return id
	}
	return g.fresh.Generate()
}
