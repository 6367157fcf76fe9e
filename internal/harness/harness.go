package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/engine"
	"github.com/roach88/voltlab/internal/scene"
	"github.com/roach88/voltlab/internal/store"
	"github.com/roach88/voltlab/internal/testutil"
)

// Harness is the scenario execution engine.
// It drives a real circuit engine with deterministic wire IDs and a
// deterministic trace clock, journaling every step.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory journal
// 2. Compile the scene from CUE
// 3. Execute steps against a real engine, journaling each one
// 4. Evaluate assertions against the trace and final verdict
// 5. Replay the journal through a fresh engine and hash-verify it
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer st.Close()

	spec, err := scene.LoadFile(scenario.Scene)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", scenario.Scene, err)
	}

	wireGen := testutil.NewSequentialWireIDGenerator(scenario.WirePrefix)
	eng := engine.New(spec, wireGen)

	h := &Harness{
		store:  st,
		engine: eng,
		clock:  testutil.NewDeterministicClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	// Evaluate assertions against the final verdict
	final := eng.Evaluate()
	actx := &AssertionContext{
		Store:      st,
		Evaluation: final,
		Ctx:        ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	// A passing scenario must also be reproducible: feed the journal
	// back through a fresh engine and hash-verify every verdict.
	if _, _, err := st.Replay(ctx, spec); err != nil {
		result.AddError(fmt.Sprintf("journal replay failed: %v", err))
	}

	return result, nil
}

// executeSteps runs all scenario steps against the engine.
//
// Each applied step is journaled and followed by an evaluation, both
// recorded in the trace. Steps scripted with expect_error must be
// rejected with the matching code; they advance neither the engine nor
// the journal.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		params, mutation, err := h.applyStep(step)

		if step.ExpectError != "" {
			code := mutationErrorCode(err)
			if err == nil {
				result.AddError(fmt.Sprintf("steps[%d]: %s succeeded, want rejection %s", i, step.Op, step.ExpectError))
				continue
			}
			if code != step.ExpectError {
				result.AddError(fmt.Sprintf("steps[%d]: %s rejected with %s, want %s", i, step.Op, code, step.ExpectError))
				continue
			}
			result.AddMutationTrace(step.Op, params, code, h.clock.Next(), h.engine.Revision())
			h.logger.Info("step rejected as scripted", "step", i, "op", step.Op, "code", code)
			continue
		}

		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d]: %s failed: %v", i, step.Op, err))
			continue
		}

		revision := h.engine.Revision()
		if err := h.store.WriteMutation(ctx, mutation); err != nil {
			return fmt.Errorf("step %d: failed to journal mutation: %w", i, err)
		}
		result.AddMutationTrace(step.Op, params, "", h.clock.Next(), revision)

		eval := h.engine.Evaluate()
		rec, err := circuit.NewEvaluationRecord(revision, eval)
		if err != nil {
			return fmt.Errorf("step %d: failed to build evaluation record: %w", i, err)
		}
		if err := h.store.WriteEvaluation(ctx, rec); err != nil {
			return fmt.Errorf("step %d: failed to journal evaluation: %w", i, err)
		}
		result.AddEvaluationTrace(eval.CanonicalMap(), h.clock.Next(), revision)

		h.logger.Info("step completed",
			"step", i,
			"op", step.Op,
			"revision", revision,
			"mutation_id", mutation.ID,
		)
	}
	return nil
}

// applyStep feeds one step through the engine's public mutation API.
// Returns the trace params, the journal record for the applied
// mutation, and the mutation error if the engine rejected the step.
func (h *Harness) applyStep(step Step) (map[string]any, circuit.Mutation, error) {
	switch step.Op {
	case string(circuit.MutationAddWire):
		params := map[string]any{"a": step.A, "b": step.B}
		a, err := circuit.ParseTerminal(step.A)
		if err != nil {
			return params, circuit.Mutation{}, err
		}
		b, err := circuit.ParseTerminal(step.B)
		if err != nil {
			return params, circuit.Mutation{}, err
		}
		w, err := h.engine.AddWire(a, b)
		if err != nil {
			return params, circuit.Mutation{}, err
		}
		params["wire_id"] = string(w.ID)
		m, err := circuit.NewAddWireMutation(h.engine.Revision(), w.ID, a, b)
		return params, m, err

	case string(circuit.MutationRemoveWire):
		params := map[string]any{"wire_id": step.Wire}
		if err := h.engine.RemoveWire(circuit.WireID(step.Wire)); err != nil {
			return params, circuit.Mutation{}, err
		}
		m, err := circuit.NewRemoveWireMutation(h.engine.Revision(), circuit.WireID(step.Wire))
		return params, m, err

	case string(circuit.MutationSetSwitch):
		params := map[string]any{"switch_id": step.Switch, "closed": *step.Closed}
		if err := h.engine.SetSwitchState(circuit.ComponentID(step.Switch), *step.Closed); err != nil {
			return params, circuit.Mutation{}, err
		}
		m, err := circuit.NewSetSwitchMutation(h.engine.Revision(), circuit.ComponentID(step.Switch), *step.Closed)
		return params, m, err

	case string(circuit.MutationSetSource):
		params := map[string]any{
			"source_id":         step.Source,
			"installed":         *step.Installed,
			"orientation_valid": *step.OrientationValid,
		}
		if err := h.engine.SetSourceInstalled(circuit.ComponentID(step.Source), *step.Installed, *step.OrientationValid); err != nil {
			return params, circuit.Mutation{}, err
		}
		m, err := circuit.NewSetSourceMutation(h.engine.Revision(), circuit.ComponentID(step.Source), *step.Installed, *step.OrientationValid)
		return params, m, err

	case string(circuit.MutationReset):
		h.engine.Reset()
		m, err := circuit.NewResetMutation(h.engine.Revision())
		return map[string]any{}, m, err

	default:
		return nil, circuit.Mutation{}, fmt.Errorf("unknown op %q", step.Op)
	}
}

// mutationErrorCode extracts the typed rejection code, or "" for other
// errors.
func mutationErrorCode(err error) string {
	var me *engine.MutationError
	if errors.As(err, &me) {
		return string(me.Code)
	}
	return ""
}
