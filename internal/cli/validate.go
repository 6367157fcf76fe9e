package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/scene"
)

// ValidationResult holds the validation outcome for one scene file.
type ValidationResult struct {
	File   string                  `json:"file"`
	Valid  bool                    `json:"valid"`
	Errors []scene.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scene.cue> [more scenes...]",
		Short: "Validate scene files against the schema",
		Long:  "Compiles each CUE scene file and reports every schema violation (duplicate IDs, bad terminal counts, malformed groups) instead of stopping at the first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, rootOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string, rootOpts *RootOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	results := make([]ValidationResult, 0, len(args))
	failed := false

	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scene file %s", path), err)
		}

		result := ValidationResult{File: path}
		_, verrs, err := compileSceneFile(path)
		switch {
		case err != nil:
			// Compile failures surface as a single schema error so the
			// per-file report shape stays uniform.
			result.Errors = []scene.ValidationError{{
				Field:   "scene",
				Message: err.Error(),
				Code:    "E001",
			}}
		default:
			result.Errors = verrs
		}
		result.Valid = len(result.Errors) == 0
		if !result.Valid {
			failed = true
		}
		results = append(results, result)
	}

	if rootOpts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", r.File)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(formatter.Writer, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
			}
		}
	}

	if failed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
