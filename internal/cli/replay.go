package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/scene"
	"github.com/roach88/voltlab/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	Database string
}

// ReplayResult is the JSON payload for a verified replay.
type ReplayResult struct {
	Scene         string `json:"scene"`
	Mutations     int    `json:"mutations"`
	Evaluations   int    `json:"evaluations"`
	Revision      int64  `json:"revision"`
	Deterministic bool   `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <scene.cue>",
		Short: "Verify a journal replays deterministically",
		Long: `Rebuild the circuit by feeding the journal through a fresh engine.

Every mutation must land on its recorded revision and every journaled
verdict must hash-match a re-derived evaluation. Any mismatch means the
journal was tampered with or the engine's behavior changed, and the
command exits non-zero.

Example:
  voltlab replay --db lesson.db scenes/single_loop.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], opts, rootOpts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(cmd *cobra.Command, scenePath string, opts *ReplayOptions, rootOpts *RootOptions) error {
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

	result := ReplayResult{
		Scene:         spec.Name,
		Mutations:     report.Mutations,
		Evaluations:   report.Evaluations,
		Revision:      eng.Revision(),
		Deterministic: true,
	}

	if rootOpts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ journal replays deterministically\n")
	fmt.Fprintf(formatter.Writer, "  scene:       %s\n", result.Scene)
	fmt.Fprintf(formatter.Writer, "  mutations:   %d\n", result.Mutations)
	fmt.Fprintf(formatter.Writer, "  evaluations: %d verified\n", result.Evaluations)
	fmt.Fprintf(formatter.Writer, "  revision:    %d\n", result.Revision)
	return nil
}
