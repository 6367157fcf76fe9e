package circuit

// IntensityTier is the design-level brightness policy. It is an ordered
// heuristic, not a voltage computation: single < series < parallel.
type IntensityTier string

const (
	// TierOff is the tier of an unenergized load.
	TierOff IntensityTier = "off"

	// TierSingle: exactly one source supplies the energizing path.
	TierSingle IntensityTier = "single-source"

	// TierSeries: two or more sources chained through a single path.
	TierSeries IntensityTier = "series-sources"

	// TierParallel: two or more independent supplies each individually
	// completing the circuit.
	TierParallel IntensityTier = "parallel-sources"
)

// rank orders tiers so multi-path loads score at the higher tier.
func (t IntensityTier) rank() int {
	switch t {
	case TierSingle:
		return 1
	case TierSeries:
		return 2
	case TierParallel:
		return 3
	default:
		return 0
	}
}

// Max returns the higher of two tiers.
func (t IntensityTier) Max(other IntensityTier) IntensityTier {
	if other.rank() > t.rank() {
		return other
	}
	return t
}

// LoadVerdict is the per-load result of an evaluation.
type LoadVerdict struct {
	// Energized reports whether a complete source-to-source path runs
	// through this load's intrinsic edge.
	Energized bool `json:"energized"`

	// Tier is the brightness tier. TierOff when unenergized.
	Tier IntensityTier `json:"tier"`

	// ControlledBySwitch is true when at least one energizing path for
	// this load traverses a closed switch. The adapter uses it to pick
	// a celebratory vs. neutral message.
	ControlledBySwitch bool `json:"controlled_by_switch"`
}

// Evaluation is the full result of one engine evaluation: a verdict per
// load plus the scene-level flags that drive the success banner.
type Evaluation struct {
	Loads map[ComponentID]LoadVerdict `json:"loads"`

	// AnySuccess is true when at least one load is energized.
	AnySuccess bool `json:"any_success"`

	// ShortCircuitDetected is true when some supply's poles are joined
	// by a path that excludes every load. Short circuits are never
	// reported as energized; they zero every load verdict instead.
	ShortCircuitDetected bool `json:"short_circuit_detected"`
}

// CanonicalMap renders the evaluation as a plain map for canonical JSON
// serialization (journal records, evaluation hashes, golden traces).
func (e *Evaluation) CanonicalMap() map[string]any {
	loads := make(map[string]any, len(e.Loads))
	for id, v := range e.Loads {
		loads[string(id)] = map[string]any{
			"energized":            v.Energized,
			"tier":                 string(v.Tier),
			"controlled_by_switch": v.ControlledBySwitch,
		}
	}
	return map[string]any{
		"loads":                  loads,
		"any_success":            e.AnySuccess,
		"short_circuit_detected": e.ShortCircuitDetected,
	}
}
