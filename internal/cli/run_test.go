package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FreshSession(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	out, err := execute(t, "run", "--db", dbPath, scenePath)
	require.NoError(t, err)
	assert.Contains(t, out, `Scene "single-loop"`)
	assert.Contains(t, out, "3 components")
	assert.Contains(t, out, "revision 0")
	assert.Contains(t, out, "bulb stays dark")
}

func TestRun_RestoresJournaledSession(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	steps := [][]string{
		{"apply", "set_source", "--db", dbPath, "--scene", scenePath, "--source", "battery", "--installed", "--oriented"},
		{"apply", "set_switch", "--db", dbPath, "--scene", scenePath, "--switch", "sw", "--closed"},
		{"apply", "add_wire", "--db", dbPath, "--scene", scenePath, "--a", "battery.pos", "--b", "sw.front"},
		{"apply", "add_wire", "--db", dbPath, "--scene", scenePath, "--a", "sw.rear", "--b", "bulb.t2"},
		{"apply", "add_wire", "--db", dbPath, "--scene", scenePath, "--a", "bulb.t1", "--b", "battery.neg"},
	}
	for _, args := range steps {
		_, err := execute(t, args...)
		require.NoError(t, err)
	}

	out, err := execute(t, "run", "--db", dbPath, scenePath)
	require.NoError(t, err)
	assert.Contains(t, out, "revision 5")
	assert.Contains(t, out, "5 journaled mutations")
	assert.Contains(t, out, "bulb lights up")
}

func TestRun_JSONOutput(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	out, err := execute(t, "--format", "json", "run", "--db", dbPath, scenePath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "single-loop", data["scene"])
	assert.Equal(t, float64(0), data["revision"])
	assert.NotNil(t, data["verdict"])
}

func TestRun_MissingDatabaseFlag(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)

	_, err := execute(t, "run", scenePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestRun_MissingScene(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")

	_, err := execute(t, "run", "--db", dbPath, filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
