package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/voltlab/internal/circuit"
)

// ErrNotFound is returned when a requested journal record doesn't exist.
var ErrNotFound = errors.New("record not found")

// ReadAllMutations returns every journaled mutation.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE
// BINARY ASC.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ReadAllMutations(ctx context.Context) ([]circuit.Mutation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, kind, payload, engine_version, journal_version
		FROM mutations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query mutations: %w", err)
	}
	defer rows.Close()

	mutations := []circuit.Mutation{}
	for rows.Next() {
		m, err := scanMutation(rows)
		if err != nil {
			return nil, err
		}
		mutations = append(mutations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}

	return mutations, nil
}

// ReadMutation returns a single mutation by its content-addressed ID.
// Returns ErrNotFound if no such record exists.
func (s *Store) ReadMutation(ctx context.Context, id string) (circuit.Mutation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, payload, engine_version, journal_version
		FROM mutations
		WHERE id = ?
	`, id)

	m, err := scanMutation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return circuit.Mutation{}, fmt.Errorf("mutation %s: %w", id, ErrNotFound)
	}
	return m, err
}

// ReadAllEvaluations returns every journaled evaluation record.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE
// BINARY ASC.
func (s *Store) ReadAllEvaluations(ctx context.Context) ([]circuit.EvaluationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, verdict
		FROM evaluations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	records := []circuit.EvaluationRecord{}
	for rows.Next() {
		var rec circuit.EvaluationRecord
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Verdict); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}

	return records, nil
}

// ReadEvaluation returns the evaluation record taken at the given
// revision. Returns ErrNotFound if no verdict was journaled there.
func (s *Store) ReadEvaluation(ctx context.Context, seq int64) (circuit.EvaluationRecord, error) {
	var rec circuit.EvaluationRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, id, verdict
		FROM evaluations
		WHERE seq = ?
	`, seq).Scan(&rec.Seq, &rec.ID, &rec.Verdict)
	if errors.Is(err, sql.ErrNoRows) {
		return circuit.EvaluationRecord{}, fmt.Errorf("evaluation at seq %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return circuit.EvaluationRecord{}, fmt.Errorf("read evaluation: %w", err)
	}
	return rec, nil
}

// GetLastSeq returns the highest seq across the whole journal, or 0 for
// an empty journal. Used to resume the logical clock on replay.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM (
			SELECT seq FROM mutations
			UNION ALL
			SELECT seq FROM evaluations
		)
	`).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	if !last.Valid {
		return 0, nil
	}
	return last.Int64, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanMutation(row scanner) (circuit.Mutation, error) {
	var m circuit.Mutation
	var kind, payload string
	if err := row.Scan(&m.ID, &m.Seq, &kind, &payload, &m.EngineVersion, &m.JournalVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return circuit.Mutation{}, err
		}
		return circuit.Mutation{}, fmt.Errorf("scan mutation: %w", err)
	}
	m.Kind = circuit.MutationKind(kind)

	decoded, err := unmarshalPayload(payload)
	if err != nil {
		return circuit.Mutation{}, err
	}
	m.Payload = decoded

	return m, nil
}
