package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/scene"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	Output string // output file path (empty = stdout)
}

// CompilationResult is the JSON payload for a successful compile.
type CompilationResult struct {
	File  string             `json:"file"`
	Scene *circuit.SceneSpec `json:"scene"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <scene.cue>",
		Short: "Compile a scene file to its canonical JSON spec",
		Long:  "Compiles and validates a CUE scene file, then emits the resolved component spec as JSON. Useful for inspecting what the engine will actually see.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], opts, rootOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the compiled spec to a file instead of stdout")

	return cmd
}

func runCompile(cmd *cobra.Command, path string, opts *CompileOptions, rootOpts *RootOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	spec, err := scene.LoadFile(path)
	if err != nil {
		formatter.Error("E001", fmt.Sprintf("compiling %s", path), err.Error())
		return NewExitError(ExitFailure, "compilation failed")
	}

	formatter.VerboseLog("compiled scene %q: %d components", spec.Name, len(spec.Components))

	specJSON, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "encoding scene spec", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(specJSON, '\n'), 0644); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("writing %s", opts.Output), err)
		}
		formatter.VerboseLog("wrote %s", opts.Output)
		if rootOpts.Format == "json" {
			return formatter.Success(map[string]string{"output": opts.Output})
		}
		fmt.Fprintf(formatter.Writer, "✓ %s → %s\n", path, opts.Output)
		return nil
	}

	if rootOpts.Format == "json" {
		return formatter.Success(CompilationResult{File: path, Scene: spec})
	}

	fmt.Fprintf(formatter.Writer, "%s\n", specJSON)
	return nil
}
