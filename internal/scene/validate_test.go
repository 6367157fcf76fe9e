package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/voltlab/internal/circuit"
)

func validScene() *circuit.SceneSpec {
	return &circuit.SceneSpec{
		Name: "single-loop",
		Components: []circuit.ComponentSpec{
			{ID: "battery", Kind: circuit.KindSource, Terminals: []circuit.TerminalKey{"pos", "neg"}},
			{ID: "sw", Kind: circuit.KindSwitch, Terminals: []circuit.TerminalKey{"front", "rear"}},
			{ID: "bulb", Kind: circuit.KindLoad, Terminals: []circuit.TerminalKey{"t1", "t2"}},
		},
	}
}

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate_ValidScene(t *testing.T) {
	assert.Empty(t, Validate(validScene()))
}

func TestValidate_EmptyName(t *testing.T) {
	spec := validScene()
	spec.Name = "  "

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrSceneNameEmpty)
}

func TestValidate_NoComponents(t *testing.T) {
	errs := Validate(&circuit.SceneSpec{Name: "empty"})
	assert.Contains(t, codes(errs), ErrSceneNoComponents)
}

func TestValidate_UnknownKind(t *testing.T) {
	spec := validScene()
	spec.Components[2].Kind = "resistor"

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrInvalidKind)
}

func TestValidate_DuplicateID(t *testing.T) {
	spec := validScene()
	spec.Components[1].ID = "battery"

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrDuplicateID)
}

func TestValidate_DottedID(t *testing.T) {
	spec := validScene()
	spec.Components[0].ID = "battery.one"

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrMalformedIdentifier)
}

func TestValidate_TerminalCount(t *testing.T) {
	spec := validScene()
	spec.Components[2].Terminals = []circuit.TerminalKey{"t1"}

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrBadTerminalCount)
}

func TestValidate_DuplicateTerminalKey(t *testing.T) {
	spec := validScene()
	spec.Components[2].Terminals = []circuit.TerminalKey{"t1", "t1"}

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrDuplicateTerminal)
}

func TestValidate_GroupOnNonSource(t *testing.T) {
	spec := validScene()
	spec.Components[2].SeriesGroup = "box"

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrGroupOnNonSource)
}

func TestValidate_ConflictingGroups(t *testing.T) {
	spec := validScene()
	spec.Components[0].SeriesGroup = "box"
	spec.Components[0].ParallelGroup = "box"

	errs := Validate(spec)
	assert.Contains(t, codes(errs), ErrConflictingGroups)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	spec := &circuit.SceneSpec{
		Name: "",
		Components: []circuit.ComponentSpec{
			{ID: "a", Kind: "resistor", Terminals: []circuit.TerminalKey{"t1"}},
			{ID: "a", Kind: circuit.KindLoad, Terminals: []circuit.TerminalKey{"t1", "t2"}},
		},
	}

	errs := Validate(spec)
	require.NotEmpty(t, errs)
	got := codes(errs)
	assert.Contains(t, got, ErrSceneNameEmpty)
	assert.Contains(t, got, ErrInvalidKind)
	assert.Contains(t, got, ErrBadTerminalCount)
	assert.Contains(t, got, ErrDuplicateID)
}
