package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/voltlab/internal/circuit"
)

func TestRunWithGolden_BulbLights(t *testing.T) {
	dir := filepath.Join("testdata", "scenarios")
	scenario, err := LoadScenarioWithBasePath(filepath.Join(dir, "bulb_lights.yaml"), dir)
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestTraceSnapshot_CanonicalMap(t *testing.T) {
	snapshot := TraceSnapshot{
		ScenarioName: "demo",
		Trace: []TraceEvent{
			{
				Type:     "mutation",
				Op:       "set_switch",
				Params:   map[string]any{"switch_id": "sw", "closed": true},
				Seq:      1,
				Revision: 1,
			},
			{
				Type: "evaluation",
				Verdict: map[string]any{
					"any_success":            false,
					"loads":                  map[string]any{},
					"short_circuit_detected": false,
				},
				Seq:      2,
				Revision: 1,
			},
		},
	}

	data, err := circuit.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)

	want := `{"scenario_name":"demo","trace":[` +
		`{"op":"set_switch","params":{"closed":true,"switch_id":"sw"},"revision":1,"seq":1,"type":"mutation"},` +
		`{"revision":1,"seq":2,"type":"evaluation","verdict":{"any_success":false,"loads":{},"short_circuit_detected":false}}]}`
	assert.Equal(t, want, string(data))
}

func TestTraceSnapshot_RejectedStepKeepsErrorCode(t *testing.T) {
	snapshot := TraceSnapshot{
		ScenarioName: "rejection",
		Trace: []TraceEvent{
			{
				Type:     "mutation",
				Op:       "add_wire",
				Params:   map[string]any{"a": "battery.pos", "b": "bulb.t1"},
				Error:    "OCCUPIED_TERMINAL",
				Seq:      1,
				Revision: 0,
			},
		},
	}

	data, err := circuit.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error":"OCCUPIED_TERMINAL"`)
}
