package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/voltlab/internal/circuit"
)

// Scenario defines a conformance test scenario.
// Scenarios drive a scene through a scripted sequence of mutations and
// assert on the resulting trace and final verdict.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scene is the path to the CUE scene file to compile and load.
	// Relative paths resolve against the scenario file location.
	Scene string `yaml:"scene"`

	// Steps contains the mutation sequence. Each step applies one
	// mutation; steps that script a rejection carry expect_error.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final verdict.
	// Supported types: load_energized, load_tier, any_success,
	// short_circuit, journal_count.
	Assertions []Assertion `yaml:"assertions"`

	// WirePrefix seeds the sequential wire ID generator.
	// If empty, defaults to "wire" for deterministic golden comparison.
	WirePrefix string `yaml:"wire_prefix,omitempty"`
}

// Step represents a single mutation in a scenario.
type Step struct {
	// Op is the mutation kind: add_wire, remove_wire, set_switch,
	// set_source, or reset.
	Op string `yaml:"op"`

	// A and B are terminal refs ("component.terminal"), used by add_wire.
	A string `yaml:"a,omitempty"`
	B string `yaml:"b,omitempty"`

	// Wire is the wire ID to remove, used by remove_wire.
	Wire string `yaml:"wire,omitempty"`

	// Switch and Closed set a switch pose, used by set_switch.
	Switch string `yaml:"switch,omitempty"`
	Closed *bool  `yaml:"closed,omitempty"`

	// Source, Installed, and OrientationValid set a battery pose, used
	// by set_source.
	Source           string `yaml:"source,omitempty"`
	Installed        *bool  `yaml:"installed,omitempty"`
	OrientationValid *bool  `yaml:"orientation_valid,omitempty"`

	// ExpectError scripts a rejection: the step must fail with this
	// mutation error code (e.g. "OCCUPIED_TERMINAL"). If empty, the
	// step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the trace or final verdict.
type Assertion struct {
	// Type specifies the assertion type:
	// - "load_energized": Check a load's final energized flag
	// - "load_tier": Check a load's final intensity tier
	// - "any_success": Check the scene-level success flag
	// - "short_circuit": Check the scene-level short-circuit flag
	// - "journal_count": Check the number of journaled mutations
	Type string `yaml:"type"`

	// Load is the load component ID (used by load_energized, load_tier).
	Load string `yaml:"load,omitempty"`

	// Tier is the expected intensity tier (used by load_tier).
	Tier string `yaml:"tier,omitempty"`

	// Value is the expected boolean (used by load_energized,
	// any_success, short_circuit).
	Value *bool `yaml:"value,omitempty"`

	// Count is the expected number of journaled mutations (used by
	// journal_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLoadEnergized = "load_energized"
	AssertLoadTier      = "load_tier"
	AssertAnySuccess    = "any_success"
	AssertShortCircuit  = "short_circuit"
	AssertJournalCount  = "journal_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the scene path relative to the provided base path.
// This is useful when scenario files reference scenes using relative paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the scene path relative to base path BEFORE validation
	if scenario.Scene != "" && !filepath.IsAbs(scenario.Scene) && basePath != "" {
		scenario.Scene = filepath.Join(basePath, scenario.Scene)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Scene == "" {
		return fmt.Errorf("scene is required")
	}
	if _, err := os.Stat(s.Scene); os.IsNotExist(err) {
		return fmt.Errorf("scene file not found: %s", s.Scene)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, step *Step) error {
	switch step.Op {
	case string(circuit.MutationAddWire):
		if step.A == "" || step.B == "" {
			return fmt.Errorf("steps[%d]: a and b are required for add_wire", index)
		}
	case string(circuit.MutationRemoveWire):
		if step.Wire == "" {
			return fmt.Errorf("steps[%d]: wire is required for remove_wire", index)
		}
	case string(circuit.MutationSetSwitch):
		if step.Switch == "" {
			return fmt.Errorf("steps[%d]: switch is required for set_switch", index)
		}
		if step.Closed == nil {
			return fmt.Errorf("steps[%d]: closed is required for set_switch", index)
		}
	case string(circuit.MutationSetSource):
		if step.Source == "" {
			return fmt.Errorf("steps[%d]: source is required for set_source", index)
		}
		if step.Installed == nil {
			return fmt.Errorf("steps[%d]: installed is required for set_source", index)
		}
		if step.OrientationValid == nil {
			return fmt.Errorf("steps[%d]: orientation_valid is required for set_source", index)
		}
	case string(circuit.MutationReset):
		// No params.
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLoadEnergized:
		if a.Load == "" {
			return fmt.Errorf("assertions[%d]: load is required for load_energized", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for load_energized", index)
		}
	case AssertLoadTier:
		if a.Load == "" {
			return fmt.Errorf("assertions[%d]: load is required for load_tier", index)
		}
		if a.Tier == "" {
			return fmt.Errorf("assertions[%d]: tier is required for load_tier", index)
		}
	case AssertAnySuccess, AssertShortCircuit:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertJournalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for journal_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
