// Package circuit defines the typed domain model shared by the continuity
// engine, the scene compiler, the journal store, and the harness.
//
// Identity is structural, never string-concatenated: a Terminal is a
// (component, key) pair, a wire is a WireID plus two Terminals, and every
// verdict is a typed struct. Canonical JSON (RFC 8785) and domain-separated
// SHA-256 hashing live here because journal record identity and golden trace
// comparison both depend on byte-stable serialization.
package circuit
