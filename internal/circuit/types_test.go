package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerminal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Terminal
		wantErr bool
	}{
		{
			name:  "simple",
			input: "battery.pos",
			want:  Terminal{Component: "battery", Key: "pos"},
		},
		{
			name:  "key may contain dots",
			input: "bulb.t.1",
			want:  Terminal{Component: "bulb", Key: "t.1"},
		},
		{
			name:    "no dot",
			input:   "battery",
			wantErr: true,
		},
		{
			name:    "empty component",
			input:   ".pos",
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   "battery.",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTerminal(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalString(t *testing.T) {
	term := Terminal{Component: "sw", Key: "front"}
	assert.Equal(t, "sw.front", term.String())
}

func TestTerminalStringRoundTrip(t *testing.T) {
	orig := Terminal{Component: "battery", Key: "neg"}
	parsed, err := ParseTerminal(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestComponentSpecHasTerminal(t *testing.T) {
	spec := ComponentSpec{
		ID:        "bulb",
		Kind:      KindLoad,
		Terminals: []TerminalKey{"t1", "t2"},
	}

	assert.True(t, spec.HasTerminal("t1"))
	assert.True(t, spec.HasTerminal("t2"))
	assert.False(t, spec.HasTerminal("t3"))
	assert.False(t, spec.HasTerminal("pos"))
}

func TestComponentSpecTerminal(t *testing.T) {
	spec := ComponentSpec{ID: "battery", Kind: KindSource, Terminals: []TerminalKey{"pos", "neg"}}
	assert.Equal(t, Terminal{Component: "battery", Key: "pos"}, spec.Terminal("pos"))
}

func testScene() *SceneSpec {
	return &SceneSpec{
		Name: "single-loop",
		Components: []ComponentSpec{
			{ID: "battery", Kind: KindSource, Terminals: []TerminalKey{"pos", "neg"}},
			{ID: "sw", Kind: KindSwitch, Terminals: []TerminalKey{"front", "rear"}},
			{ID: "bulb", Kind: KindLoad, Terminals: []TerminalKey{"t1", "t2"}},
		},
	}
}

func TestSceneSpecComponent(t *testing.T) {
	scene := testScene()

	c, ok := scene.Component("bulb")
	require.True(t, ok)
	assert.Equal(t, KindLoad, c.Kind)

	_, ok = scene.Component("missing")
	assert.False(t, ok)
}

func TestSceneSpecLoadsAndSources(t *testing.T) {
	scene := testScene()

	assert.Equal(t, []ComponentID{"bulb"}, scene.Loads())
	assert.Equal(t, []ComponentID{"battery"}, scene.Sources())
}

func TestValidKinds(t *testing.T) {
	assert.True(t, ValidKinds[KindSource])
	assert.True(t, ValidKinds[KindLoad])
	assert.True(t, ValidKinds[KindSwitch])
	assert.False(t, ValidKinds["wire"])
	assert.False(t, ValidKinds["resistor"])
}
