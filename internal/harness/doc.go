// Package harness provides conformance testing for circuit scenes.
//
// The harness loads a scene, drives a real engine through a scripted
// sequence of mutations, journals every step, and validates the final
// verdict as an executable contract test.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	scene: path/to/scene.cue
//	steps:
//	  - op: set_source
//	    source: battery
//	    installed: true
//	    orientation_valid: true
//	  - op: set_switch
//	    switch: sw
//	    closed: true
//	  - op: add_wire
//	    a: battery.pos
//	    b: sw.front
//	  - op: add_wire
//	    a: battery.pos
//	    b: bulb.t1
//	    expect_error: OCCUPIED_TERMINAL
//	assertions:
//	  - type: load_energized
//	    load: bulb
//	    value: true
//	  - type: load_tier
//	    load: bulb
//	    tier: single-source
//	  - type: any_success
//	    value: true
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - load_energized: Verifies a load's final energized flag
//   - load_tier: Verifies a load's final intensity tier
//   - any_success: Verifies the scene-level success flag
//   - short_circuit: Verifies the scene-level short-circuit flag
//   - journal_count: Verifies the number of journaled mutations
//
// # Deterministic Testing
//
// All scenarios execute with a deterministic trace clock and sequential
// wire ID generation to ensure reproducible results and golden snapshot
// comparison.
//
// The harness uses:
//   - Sequential wire IDs (from scenario.wire_prefix, default "wire")
//   - Deterministic trace clock (testutil.DeterministicClock)
//   - In-memory SQLite journal (isolated per test)
//
// Every run finishes with a journal replay: the journal is fed back
// through a fresh engine and the rebuilt verdicts are hash-verified, so
// a passing scenario also proves the session is reproducible.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/single_loop.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
