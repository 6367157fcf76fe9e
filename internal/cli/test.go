package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	Update bool   // regenerate golden trace files
	Filter string // scenario filter (glob pattern on file base name)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files against the engine",
		Long: `Run YAML scenario files through the scenario harness.

Each scenario drives a fresh engine with deterministic wire identifiers,
journals every accepted step, checks its assertions, and replay-verifies
the journal. When a golden trace exists at <dir>/golden/<name>.golden
the canonical trace must also match it byte for byte.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (invalid paths, etc.)

Examples:
  voltlab test ./scenarios
  voltlab test ./scenarios --filter "short_*"
  voltlab test ./scenarios --update
  voltlab test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, args[0], opts, rootOpts)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden trace files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTest(cmd *cobra.Command, scenariosDir string, opts *TestOptions, rootOpts *RootOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "finding scenarios", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files found in %s", scenariosDir))
	}

	result := TestResult{}
	for _, path := range files {
		sr := runScenario(path, opts)
		result.Scenarios = append(result.Scenarios, sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if rootOpts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, sr := range result.Scenarios {
			if sr.Pass {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", sr.Name)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				for _, line := range strings.Split(e, "\n") {
					fmt.Fprintf(formatter.Writer, "    %s\n", line)
				}
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d passed, %d failed, %d total\n",
			result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, "scenario failures")
	}
	return nil
}

// runScenario executes one scenario file, including golden comparison.
func runScenario(path string, opts *TestOptions) ScenarioResult {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sr := ScenarioResult{Name: name}

	scenario, err := harness.LoadScenarioWithBasePath(path, filepath.Dir(path))
	if err != nil {
		sr.Errors = append(sr.Errors, fmt.Sprintf("load: %v", err))
		return sr
	}

	result, err := harness.Run(scenario)
	if err != nil {
		sr.Errors = append(sr.Errors, fmt.Sprintf("run: %v", err))
		return sr
	}
	sr.Errors = append(sr.Errors, result.Errors...)

	snapshot := harness.TraceSnapshot{ScenarioName: scenario.Name, Trace: result.Trace}
	traceJSON, err := snapshot.CanonicalJSON()
	if err != nil {
		sr.Errors = append(sr.Errors, fmt.Sprintf("trace: %v", err))
		return sr
	}

	goldenPath := filepath.Join(filepath.Dir(path), "golden", name+".golden")
	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
			return sr
		}
		if err := os.WriteFile(goldenPath, traceJSON, 0644); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
			return sr
		}
	} else if want, err := os.ReadFile(goldenPath); err == nil {
		if !bytes.Equal(want, traceJSON) {
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden mismatch: %s\nwant: %s\ngot:  %s",
				goldenPath, want, traceJSON))
		}
	}
	// A missing golden file is not a failure: scenarios assert behavior
	// on their own, goldens pin the exact trace when present.

	sr.Pass = len(sr.Errors) == 0
	return sr
}

// findScenarioFiles lists *.yaml / *.yml files in the scenarios
// directory, optionally filtered by a glob on the base name.
func findScenarioFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, err := filepath.Match(filter, e.Name())
			if err != nil {
				return nil, fmt.Errorf("bad filter %q: %w", filter, err)
			}
			if !ok {
				base := strings.TrimSuffix(e.Name(), ext)
				if ok2, _ := filepath.Match(filter, base); !ok2 {
					continue
				}
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
