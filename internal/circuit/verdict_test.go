package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntensityTierOrdering(t *testing.T) {
	assert.Equal(t, TierSingle, TierOff.Max(TierSingle))
	assert.Equal(t, TierSeries, TierSingle.Max(TierSeries))
	assert.Equal(t, TierParallel, TierSeries.Max(TierParallel))
	assert.Equal(t, TierParallel, TierParallel.Max(TierSingle))
	assert.Equal(t, TierOff, TierOff.Max(TierOff))
}

func TestEvaluationCanonicalMap(t *testing.T) {
	eval := &Evaluation{
		Loads: map[ComponentID]LoadVerdict{
			"bulb": {Energized: true, Tier: TierSeries, ControlledBySwitch: true},
		},
		AnySuccess:           true,
		ShortCircuitDetected: false,
	}

	got, err := MarshalCanonical(eval.CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t,
		`{"any_success":true,"loads":{"bulb":{"controlled_by_switch":true,"energized":true,"tier":"series-sources"}},"short_circuit_detected":false}`,
		string(got))
}

func TestEvaluationCanonicalMapEmpty(t *testing.T) {
	eval := &Evaluation{Loads: map[ComponentID]LoadVerdict{}}
	got, err := MarshalCanonical(eval.CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, `{"any_success":false,"loads":{},"short_circuit_detected":false}`, string(got))
}
