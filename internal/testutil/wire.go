package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/voltlab/internal/circuit"
)

// SequentialWireIDGenerator yields wire-1, wire-2, ... in order.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with the same generator produces byte-identical traces.
//
// Unlike engine.FixedGenerator, which replays a recorded list of IDs and
// panics when it runs dry, this generator never exhausts - useful for
// scenarios that add an unknown number of wires.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialWireIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialWireIDGenerator creates a generator with the given prefix.
//
// The prefix is typically set in the scenario YAML:
//
//	wire_prefix: "wire"
//
// If prefix is empty, "wire" is used.
func NewSequentialWireIDGenerator(prefix string) *SequentialWireIDGenerator {
	if prefix == "" {
		prefix = "wire"
	}
	return &SequentialWireIDGenerator{prefix: prefix}
}

// Generate returns the next wire ID in the sequence.
//
// Implements engine.WireIDGenerator.
func (g *SequentialWireIDGenerator) Generate() circuit.WireID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return circuit.WireID(fmt.Sprintf("%s-%d", g.prefix, g.n))
}
