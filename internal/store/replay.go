package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/engine"
)

// DivergenceError reports a replay whose rebuilt state stopped matching
// the journal. A divergence means the engine's behavior changed between
// the recording and the replaying build, or the journal was tampered
// with - either way the session is no longer reproducible.
type DivergenceError struct {
	Seq  int64  // journal position where the mismatch surfaced
	What string // "revision" or "evaluation"
	Want string // recorded value
	Got  string // value the rebuilt engine produced
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("replay diverged at seq %d: %s mismatch (want %s, got %s)",
		e.Seq, e.What, e.Want, e.Got)
}

// IsDivergence returns true if the error is a replay divergence.
// Uses errors.As to handle wrapped errors.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

// ReplayReport summarizes a verified replay.
type ReplayReport struct {
	Mutations   int // mutations applied
	Evaluations int // verdict snapshots re-derived and hash-verified
}

// Replay rebuilds a fresh engine by feeding the journal's mutations
// through the public mutation API in seq order, and verifies every
// journaled verdict against a re-derived evaluation.
//
// Recorded wire IDs are fed back via a session generator so the rebuilt
// graph is identical to the original session. The journal is a
// determinism record, not persistence: nothing is restored directly,
// everything is re-computed.
func (s *Store) Replay(ctx context.Context, spec *circuit.SceneSpec) (*engine.Engine, *ReplayReport, error) {
	mutations, err := s.ReadAllMutations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("replay: %w", err)
	}
	evaluations, err := s.ReadAllEvaluations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("replay: %w", err)
	}
	verdictAt := make(map[int64]circuit.EvaluationRecord, len(evaluations))
	for _, rec := range evaluations {
		verdictAt[rec.Seq] = rec
	}

	var wireIDs []circuit.WireID
	for _, m := range mutations {
		if m.Kind == circuit.MutationAddWire {
			id, err := payloadString(m, "wire_id")
			if err != nil {
				return nil, nil, fmt.Errorf("replay: %w", err)
			}
			wireIDs = append(wireIDs, circuit.WireID(id))
		}
	}

	// A session generator (rather than a strict fixed one) lets callers
	// keep using the returned engine after replay: new wires get fresh
	// UUIDv7 identifiers once the recorded sequence is exhausted.
	eng := engine.New(spec, engine.NewSessionGenerator(wireIDs...))
	report := &ReplayReport{}

	for _, m := range mutations {
		if err := applyMutation(eng, m); err != nil {
			return nil, nil, fmt.Errorf("replay: mutation %s (seq %d): %w", m.ID, m.Seq, err)
		}
		report.Mutations++

		if got := eng.Revision(); got != m.Seq {
			return nil, nil, &DivergenceError{
				Seq:  m.Seq,
				What: "revision",
				Want: fmt.Sprintf("%d", m.Seq),
				Got:  fmt.Sprintf("%d", got),
			}
		}

		rec, ok := verdictAt[m.Seq]
		if !ok {
			continue
		}
		hash, err := circuit.EvaluationHash(eng.Evaluate())
		if err != nil {
			return nil, nil, fmt.Errorf("replay: hash evaluation at seq %d: %w", m.Seq, err)
		}
		if hash != rec.ID {
			return nil, nil, &DivergenceError{
				Seq:  m.Seq,
				What: "evaluation",
				Want: rec.ID,
				Got:  hash,
			}
		}
		report.Evaluations++
	}

	return eng, report, nil
}

// applyMutation feeds one journal record through the engine's public API.
func applyMutation(eng *engine.Engine, m circuit.Mutation) error {
	switch m.Kind {
	case circuit.MutationAddWire:
		a, err := payloadTerminal(m, "a")
		if err != nil {
			return err
		}
		b, err := payloadTerminal(m, "b")
		if err != nil {
			return err
		}
		recorded, err := payloadString(m, "wire_id")
		if err != nil {
			return err
		}
		w, err := eng.AddWire(a, b)
		if err != nil {
			return err
		}
		if string(w.ID) != recorded {
			return fmt.Errorf("wire id mismatch: journal %s, engine %s", recorded, w.ID)
		}
		return nil

	case circuit.MutationRemoveWire:
		id, err := payloadString(m, "wire_id")
		if err != nil {
			return err
		}
		return eng.RemoveWire(circuit.WireID(id))

	case circuit.MutationSetSwitch:
		id, err := payloadString(m, "switch_id")
		if err != nil {
			return err
		}
		closed, err := payloadBool(m, "closed")
		if err != nil {
			return err
		}
		return eng.SetSwitchState(circuit.ComponentID(id), closed)

	case circuit.MutationSetSource:
		id, err := payloadString(m, "source_id")
		if err != nil {
			return err
		}
		installed, err := payloadBool(m, "installed")
		if err != nil {
			return err
		}
		oriented, err := payloadBool(m, "orientation_valid")
		if err != nil {
			return err
		}
		return eng.SetSourceInstalled(circuit.ComponentID(id), installed, oriented)

	case circuit.MutationReset:
		eng.Reset()
		return nil

	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
}

func payloadString(m circuit.Mutation, key string) (string, error) {
	v, ok := m.Payload[key]
	if !ok {
		return "", fmt.Errorf("%s payload missing %q", m.Kind, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s payload field %q is not a string", m.Kind, key)
	}
	return s, nil
}

func payloadBool(m circuit.Mutation, key string) (bool, error) {
	v, ok := m.Payload[key]
	if !ok {
		return false, fmt.Errorf("%s payload missing %q", m.Kind, key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s payload field %q is not a bool", m.Kind, key)
	}
	return b, nil
}

func payloadTerminal(m circuit.Mutation, key string) (circuit.Terminal, error) {
	s, err := payloadString(m, key)
	if err != nil {
		return circuit.Terminal{}, err
	}
	t, err := circuit.ParseTerminal(s)
	if err != nil {
		return circuit.Terminal{}, fmt.Errorf("%s payload field %q: %w", m.Kind, key, err)
	}
	return t, nil
}
