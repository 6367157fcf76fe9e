package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/voltlab/internal/circuit"
)

// createTestStore creates a file-backed store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAddWire builds an add_wire journal record between two terminals.
func testAddWire(t *testing.T, seq int64, wireID, a, b string) circuit.Mutation {
	t.Helper()
	ta, err := circuit.ParseTerminal(a)
	if err != nil {
		t.Fatalf("ParseTerminal(%q) failed: %v", a, err)
	}
	tb, err := circuit.ParseTerminal(b)
	if err != nil {
		t.Fatalf("ParseTerminal(%q) failed: %v", b, err)
	}
	m, err := circuit.NewAddWireMutation(seq, circuit.WireID(wireID), ta, tb)
	if err != nil {
		t.Fatalf("NewAddWireMutation() failed: %v", err)
	}
	return m
}

// testScene is the single-loop lesson used across store tests.
func testScene() *circuit.SceneSpec {
	return &circuit.SceneSpec{
		Name: "single-loop",
		Components: []circuit.ComponentSpec{
			{ID: "battery", Kind: circuit.KindSource, Terminals: []circuit.TerminalKey{"pos", "neg"}},
			{ID: "sw", Kind: circuit.KindSwitch, Terminals: []circuit.TerminalKey{"front", "rear"}},
			{ID: "bulb", Kind: circuit.KindLoad, Terminals: []circuit.TerminalKey{"t1", "t2"}},
		},
	}
}
