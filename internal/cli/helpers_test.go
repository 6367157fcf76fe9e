package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// singleLoopScene is the canonical battery/switch/bulb lesson scene.
const singleLoopScene = `scene: {
	name: "single-loop"
	components: [
		{id: "battery", kind: "source", terminals: ["pos", "neg"]},
		{id: "sw", kind: "switch", terminals: ["front", "rear"]},
		{id: "bulb", kind: "load", terminals: ["t1", "t2"]},
	]
}
`

// writeScene writes CUE scene source to a temp file and returns its path.
func writeScene(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.cue")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

// execute runs the CLI with the given args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
