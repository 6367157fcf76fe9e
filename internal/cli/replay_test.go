package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/store"
)

func TestReplay_EmptyJournal(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	out, err := execute(t, "replay", "--db", dbPath, scenePath)
	require.NoError(t, err)
	assert.Contains(t, out, "replays deterministically")
	assert.Contains(t, out, "mutations:   0")
}

func TestReplay_VerifiesJournaledSession(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	steps := [][]string{
		{"apply", "set_switch", "--db", dbPath, "--scene", scenePath, "--switch", "sw", "--closed"},
		{"apply", "add_wire", "--db", dbPath, "--scene", scenePath, "--a", "battery.pos", "--b", "sw.front"},
	}
	for _, args := range steps {
		_, err := execute(t, args...)
		require.NoError(t, err)
	}

	out, err := execute(t, "replay", "--db", dbPath, scenePath)
	require.NoError(t, err)
	assert.Contains(t, out, "mutations:   2")
	assert.Contains(t, out, "2 verified")
	assert.Contains(t, out, "revision:    2")
}

func TestReplay_DetectsTamperedJournal(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	_, err := execute(t, "apply", "set_switch",
		"--db", dbPath, "--scene", scenePath, "--switch", "sw", "--closed")
	require.NoError(t, err)

	// Inject a verdict snapshot whose hash cannot match any re-derived
	// evaluation.
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.WriteEvaluation(context.Background(), circuit.EvaluationRecord{
		ID:      "bogus-hash",
		Seq:     2,
		Verdict: "{}",
	}))
	require.NoError(t, st.Close())

	m, err := circuit.NewSetSwitchMutation(2, "sw", false)
	require.NoError(t, err)
	st, err = store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.WriteMutation(context.Background(), m))
	require.NoError(t, st.Close())

	out, err := execute(t, "replay", "--db", dbPath, scenePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E_DETERMINISM")
}

func TestReplay_JSONOutput(t *testing.T) {
	scenePath := writeScene(t, singleLoopScene)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	out, err := execute(t, "--format", "json", "replay", "--db", dbPath, scenePath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["deterministic"])
}
