// Package store provides SQLite-backed durable storage for the mutation
// journal.
//
// The store implements an append-only log with:
//   - Mutations: applied graph mutation records
//   - Evaluations: verdict snapshots taken after mutations
//
// The journal exists for determinism and debugging, not session
// persistence: circuit state is never restored directly from disk.
// Replay rebuilds a fresh engine by feeding recorded mutations back
// through the public mutation API and verifies the rebuilt verdicts
// hash-match the recorded ones.
//
// # Critical Patterns
//
// Logical Identity and Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - Enables deterministic replay regardless of wall time
//
// Deterministic Query Results
//   - All list queries MUST include: ORDER BY seq ASC, id COLLATE BINARY ASC
//   - Ensures identical results across replays
//
// Idempotent Writes
//   - ON CONFLICT DO NOTHING on content-addressed IDs
//   - Re-recording the same mutation is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All content-addressed IDs are computed via functions in
// internal/circuit/hash.go using RFC 8785 canonical JSON and SHA-256
// with domain separation.
package store
