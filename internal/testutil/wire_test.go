package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/voltlab/internal/circuit"
)

func TestSequentialWireIDGenerator_Sequence(t *testing.T) {
	gen := NewSequentialWireIDGenerator("wire")

	assert.Equal(t, circuit.WireID("wire-1"), gen.Generate())
	assert.Equal(t, circuit.WireID("wire-2"), gen.Generate())
	assert.Equal(t, circuit.WireID("wire-3"), gen.Generate())
}

func TestSequentialWireIDGenerator_EmptyPrefixDefault(t *testing.T) {
	gen := NewSequentialWireIDGenerator("")

	assert.Equal(t, circuit.WireID("wire-1"), gen.Generate())
}

func TestSequentialWireIDGenerator_CustomPrefix(t *testing.T) {
	gen := NewSequentialWireIDGenerator("lead")

	assert.Equal(t, circuit.WireID("lead-1"), gen.Generate())
	assert.Equal(t, circuit.WireID("lead-2"), gen.Generate())
}

func TestSequentialWireIDGenerator_Deterministic(t *testing.T) {
	gen1 := NewSequentialWireIDGenerator("wire")
	gen2 := NewSequentialWireIDGenerator("wire")

	for i := 0; i < 100; i++ {
		assert.Equal(t, gen1.Generate(), gen2.Generate())
	}
}

func TestSequentialWireIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialWireIDGenerator("wire")
	const numGoroutines = 10
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]circuit.WireID, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]circuit.WireID, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = gen.Generate()
			}
		}(i)
	}

	wg.Wait()

	// No two goroutines may observe the same ID.
	seen := make(map[circuit.WireID]bool)
	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < callsPerGoroutine; j++ {
			id := results[i][j]
			require.False(t, seen[id], "duplicate wire ID %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}
