package store

import (
	"context"
	"fmt"

	"github.com/roach88/voltlab/internal/circuit"
)

// WriteMutation inserts a mutation record into the journal.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations (e.g., a different
// mutation claiming the same seq) still return errors.
//
// The mutation's payload is serialized to canonical JSON per RFC 8785
// for deterministic replay.
func (s *Store) WriteMutation(ctx context.Context, m circuit.Mutation) error {
	payloadJSON, err := marshalPayload(m.Payload)
	if err != nil {
		return fmt.Errorf("write mutation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mutations
		(id, seq, kind, payload, engine_version, journal_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID,
		m.Seq,
		string(m.Kind),
		payloadJSON,
		m.EngineVersion,
		m.JournalVersion,
	)
	if err != nil {
		return fmt.Errorf("write mutation: %w", err)
	}

	return nil
}

// WriteEvaluation inserts an evaluation record into the journal.
// Uses ON CONFLICT(seq) DO NOTHING for idempotency - each revision
// carries at most one verdict snapshot, and re-recording it is a no-op.
func (s *Store) WriteEvaluation(ctx context.Context, rec circuit.EvaluationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(seq, id, verdict)
		VALUES (?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		rec.Seq,
		rec.ID,
		rec.Verdict,
	)
	if err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}

	return nil
}
