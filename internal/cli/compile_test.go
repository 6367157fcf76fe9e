package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/voltlab/internal/circuit"
)

func TestCompile_ToStdout(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)

	out, err := execute(t, "compile", scenePath)
	require.NoError(t, err)
	assert.Contains(t, out, `"single-loop"`)
	assert.Contains(t, out, `"battery"`)
	assert.Contains(t, out, `"terminals"`)
}

func TestCompile_ToFile(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	outPath := filepath.Join(t.TempDir(), "scene.json")

	_, err := execute(t, "compile", scenePath, "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var spec circuit.SceneSpec
	require.NoError(t, json.Unmarshal(data, &spec))
	assert.Equal(t, "single-loop", spec.Name)
	assert.Len(t, spec.Components, 3)
}

func TestCompile_JSONOutput(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)

	out, err := execute(t, "--format", "json", "compile", scenePath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCompile_InvalidScene(t *testing.T) {
	scenePath := writeScene(t, `scene: {
	name: "broken"
	components: [{id: "a.b", kind: "load", terminals: ["t1", "t2"]}]
}
`)

	out, err := execute(t, "compile", scenePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E001")
}

func TestCompile_MissingFile(t *testing.T) {
	out, err := execute(t, "compile", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error")
}
