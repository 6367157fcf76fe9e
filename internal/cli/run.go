package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/scene"
	"github.com/roach88/voltlab/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Database string
}

// RunStatus is the JSON payload describing a restored session.
type RunStatus struct {
	Scene       string              `json:"scene"`
	Components  int                 `json:"components"`
	Revision    int64               `json:"revision"`
	Mutations   int                 `json:"mutations"`
	Evaluations int                 `json:"evaluations"`
	Verdict     *circuit.Evaluation `json:"verdict"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <scene.cue>",
		Short: "Open a session against a scene and report its state",
		Long: `Open (or create) a journaled session for a scene.

The journal is replayed through a fresh engine to rebuild the circuit,
every recorded verdict is re-verified, and the current evaluation is
printed. Use 'voltlab apply' to mutate the circuit afterwards.

Example:
  voltlab run --db ./lesson.db scenes/single_loop.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args[0], opts, rootOpts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSession(cmd *cobra.Command, scenePath string, opts *RunOptions, rootOpts *RootOptions) error {
	logLevel := slog.LevelInfo
	if rootOpts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	spec, err := scene.LoadFile(scenePath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("loading scene %s", scenePath), err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening journal", err)
	}
	defer st.Close()

	ctx := context.Background()
	eng, report, err := st.Replay(ctx, spec)
	if err != nil {
		if store.IsDivergence(err) {
			formatter.Error("E_DETERMINISM", "journal does not replay deterministically", err.Error())
			return NewExitError(ExitFailure, "replay diverged")
		}
		return WrapExitError(ExitCommandError, "replaying journal", err)
	}

	logger.Debug("session restored",
		"scene", spec.Name,
		"revision", eng.Revision(),
		"mutations", report.Mutations)

	eval := eng.Evaluate()
	status := RunStatus{
		Scene:       spec.Name,
		Components:  len(spec.Components),
		Revision:    eng.Revision(),
		Mutations:   report.Mutations,
		Evaluations: report.Evaluations,
		Verdict:     eval,
	}

	if rootOpts.Format == "json" {
		return formatter.Success(status)
	}

	fmt.Fprintf(formatter.Writer, "Scene %q: %d components, revision %d (%d journaled mutations)\n",
		status.Scene, status.Components, status.Revision, status.Mutations)
	for _, line := range feedbackLines(spec, eval) {
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
