// Package engine implements the circuit continuity engine.
//
// The engine is the heart of voltlab - it owns the abstract circuit
// graph for one lesson scene (nodes = component terminals, edges = user
// wires plus internal conductive paths), applies learner mutations, and
// runs reachability analysis to decide which loads are energized.
//
// ARCHITECTURE:
//
// Single-Writer Mutation Model:
// All graph mutations happen synchronously on one logical thread. The
// scene adapter issues one mutation followed by one Evaluate per
// completed gesture. This ensures:
// - Predictable, totally-ordered mutation history
// - Reproducible verdicts on replay
// - Simple reasoning about what the learner did
//
// Evaluation Flow:
// 1. snapshot() rebuilds the conductive graph from current state
//    (intrinsic edges are derived, never stored as mutable data)
// 2. sourceChains() groups valid sources into supply chains
// 3. enumeratePaths() walks simple paths between each chain's free
//    poles, crossing other chains as polarity-aligned supply hops,
//    bounded by a step budget
// 4. Paths crossing a load energize it; loadless paths are shorts
//
// The engine is designed for correctness and determinism, not
// throughput. Lesson scenes hold a handful of 2-terminal components, so
// exhaustive path enumeration is cheap and exact.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// All applied mutations stamped with a monotonic seq counter from
// Clock.Next(). NEVER use wall-clock timestamps for ordering.
//
// Deterministic Traversal:
// Wires walked in creation order, components in declaration order.
// No randomness, no concurrency, no non-determinism.
package engine
