package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/scene"
)

// compileSceneFile compiles a scene file and returns the spec together
// with every schema validation error, without failing fast. Commands
// that only need a valid spec should call scene.LoadFile instead.
func compileSceneFile(path string) (*circuit.SceneSpec, []scene.ValidationError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scene file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	sceneVal := v.LookupPath(cue.ParsePath("scene"))
	if !sceneVal.Exists() {
		return nil, nil, &scene.CompileError{
			Field:   "scene",
			Message: "top-level scene struct is required",
			Pos:     v.Pos(),
		}
	}

	spec, err := scene.CompileScene(sceneVal)
	if err != nil {
		return nil, nil, err
	}
	return spec, scene.Validate(spec), nil
}

// feedbackLines renders the learner-facing verdict banner: one line per
// load in scene declaration order, plus a closing summary line.
func feedbackLines(spec *circuit.SceneSpec, eval *circuit.Evaluation) []string {
	if eval.ShortCircuitDetected {
		return []string{"⚠ Short circuit! Current is bypassing every bulb. Open the loop before anything overheats."}
	}

	var lines []string
	for _, c := range spec.Components {
		if c.Kind != circuit.KindLoad {
			continue
		}
		v, ok := eval.Loads[c.ID]
		if !ok || !v.Energized {
			lines = append(lines, fmt.Sprintf("○ %s stays dark", c.ID))
			continue
		}
		line := fmt.Sprintf("✓ %s lights up %s", c.ID, tierPhrase(v.Tier))
		if v.ControlledBySwitch {
			line += " (the switch is in control)"
		}
		lines = append(lines, line)
	}

	if eval.AnySuccess {
		lines = append(lines, "Circuit complete!")
	} else {
		lines = append(lines, "Nothing lights yet. Check the wires, the switch, and the battery placement.")
	}
	return lines
}

// tierPhrase maps a brightness tier to banner wording.
func tierPhrase(tier circuit.IntensityTier) string {
	switch tier {
	case circuit.TierSeries:
		return "brightly (cells in series)"
	case circuit.TierParallel:
		return "steadily (cells in parallel)"
	default:
		return "at normal brightness"
	}
}
