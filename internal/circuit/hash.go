package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without colliding with old records.
const (
	DomainMutation   = "voltlab/mutation/v1"
	DomainEvaluation = "voltlab/evaluation/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MutationID computes the content-addressed ID of a journal mutation.
// Stable across restarts and replays given the same kind, payload and seq.
func MutationID(kind string, payload map[string]any, seq int64) (string, error) {
	obj := map[string]any{
		"kind":    kind,
		"payload": payload,
		"seq":     seq,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("MutationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMutation, canonical), nil
}

// EvaluationHash computes the content-addressed hash of an evaluation
// result. Replay verification compares recorded hashes against hashes of
// re-derived evaluations; equal hashes mean byte-identical verdicts.
func EvaluationHash(e *Evaluation) (string, error) {
	canonical, err := MarshalCanonical(e.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("EvaluationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvaluation, canonical), nil
}

// MustMutationID is like MutationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustMutationID(kind string, payload map[string]any, seq int64) string {
	id, err := MutationID(kind, payload, seq)
	if err != nil {
		panic(err)
	}
	return id
}
