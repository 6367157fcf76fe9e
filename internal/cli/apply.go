package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/engine"
	"github.com/roach88/voltlab/internal/scene"
	"github.com/roach88/voltlab/internal/store"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	Database string
	Scene    string

	A                string // add_wire
	B                string // add_wire
	Wire             string // remove_wire
	Switch           string // set_switch
	Closed           bool   // set_switch
	Source           string // set_source
	Installed        bool   // set_source
	OrientationValid bool   // set_source
}

// ApplyResult is the JSON payload for a journaled mutation.
type ApplyResult struct {
	Op         string              `json:"op"`
	MutationID string              `json:"mutation_id"`
	WireID     string              `json:"wire_id,omitempty"`
	Revision   int64               `json:"revision"`
	Verdict    *circuit.Evaluation `json:"verdict"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <op>",
		Short: "Apply one mutation to a journaled session",
		Long: `Apply a single circuit mutation and journal it.

The session is first rebuilt by replaying the journal, then the mutation
runs through the engine's validation. Accepted mutations are journaled
together with the resulting verdict; rejected ones leave the journal
untouched and exit non-zero.

Operations:
  add_wire    --a <component.terminal> --b <component.terminal>
  remove_wire --wire <wire-id>
  set_switch  --switch <id> [--closed]
  set_source  --source <id> [--installed] [--oriented]
  reset

Examples:
  voltlab apply add_wire --db lesson.db --scene loop.cue --a battery.pos --b bulb.t1
  voltlab apply set_switch --db lesson.db --scene loop.cue --switch sw --closed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], opts, rootOpts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "path to the scene file (required)")
	cmd.Flags().StringVar(&opts.A, "a", "", "first terminal for add_wire")
	cmd.Flags().StringVar(&opts.B, "b", "", "second terminal for add_wire")
	cmd.Flags().StringVar(&opts.Wire, "wire", "", "wire identifier for remove_wire")
	cmd.Flags().StringVar(&opts.Switch, "switch", "", "switch identifier for set_switch")
	cmd.Flags().BoolVar(&opts.Closed, "closed", false, "close the switch (set_switch)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "source identifier for set_source")
	cmd.Flags().BoolVar(&opts.Installed, "installed", false, "mark the source installed (set_source)")
	cmd.Flags().BoolVar(&opts.OrientationValid, "oriented", false, "mark the source orientation valid (set_source)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("scene")

	return cmd
}

func runApply(cmd *cobra.Command, op string, opts *ApplyOptions, rootOpts *RootOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	spec, err := scene.LoadFile(opts.Scene)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("loading scene %s", opts.Scene), err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening journal", err)
	}
	defer st.Close()

	ctx := context.Background()
	eng, _, err := st.Replay(ctx, spec)
	if err != nil {
		if store.IsDivergence(err) {
			formatter.Error("E_DETERMINISM", "journal does not replay deterministically", err.Error())
			return NewExitError(ExitFailure, "replay diverged")
		}
		return WrapExitError(ExitCommandError, "replaying journal", err)
	}

	result := ApplyResult{Op: op}
	m, err := applyOperation(eng, op, opts, &result)
	if err != nil {
		var me *engine.MutationError
		if errors.As(err, &me) {
			formatter.Error(string(me.Code), me.Message, nil)
			return NewExitError(ExitFailure, "mutation rejected")
		}
		return WrapExitError(ExitCommandError, fmt.Sprintf("apply %s", op), err)
	}

	if err := st.WriteMutation(ctx, m); err != nil {
		return WrapExitError(ExitCommandError, "journaling mutation", err)
	}
	eval := eng.Evaluate()
	rec, err := circuit.NewEvaluationRecord(eng.Revision(), eval)
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing evaluation", err)
	}
	if err := st.WriteEvaluation(ctx, rec); err != nil {
		return WrapExitError(ExitCommandError, "journaling evaluation", err)
	}

	result.MutationID = m.ID
	result.Revision = eng.Revision()
	result.Verdict = eval

	if rootOpts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s applied at revision %d\n", op, result.Revision)
	if result.WireID != "" {
		fmt.Fprintf(formatter.Writer, "  wire: %s\n", result.WireID)
	}
	for _, line := range feedbackLines(spec, eval) {
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}

// applyOperation runs one named mutation through the engine and builds
// the matching journal record at the engine's new revision.
func applyOperation(eng *engine.Engine, op string, opts *ApplyOptions, result *ApplyResult) (circuit.Mutation, error) {
	switch op {
	case string(circuit.MutationAddWire):
		if opts.A == "" || opts.B == "" {
			return circuit.Mutation{}, fmt.Errorf("add_wire requires --a and --b")
		}
		a, err := circuit.ParseTerminal(opts.A)
		if err != nil {
			return circuit.Mutation{}, err
		}
		b, err := circuit.ParseTerminal(opts.B)
		if err != nil {
			return circuit.Mutation{}, err
		}
		w, err := eng.AddWire(a, b)
		if err != nil {
			return circuit.Mutation{}, err
		}
		result.WireID = string(w.ID)
		return circuit.NewAddWireMutation(eng.Revision(), w.ID, a, b)

	case string(circuit.MutationRemoveWire):
		if opts.Wire == "" {
			return circuit.Mutation{}, fmt.Errorf("remove_wire requires --wire")
		}
		if err := eng.RemoveWire(circuit.WireID(opts.Wire)); err != nil {
			return circuit.Mutation{}, err
		}
		return circuit.NewRemoveWireMutation(eng.Revision(), circuit.WireID(opts.Wire))

	case string(circuit.MutationSetSwitch):
		if opts.Switch == "" {
			return circuit.Mutation{}, fmt.Errorf("set_switch requires --switch")
		}
		if err := eng.SetSwitchState(circuit.ComponentID(opts.Switch), opts.Closed); err != nil {
			return circuit.Mutation{}, err
		}
		return circuit.NewSetSwitchMutation(eng.Revision(), circuit.ComponentID(opts.Switch), opts.Closed)

	case string(circuit.MutationSetSource):
		if opts.Source == "" {
			return circuit.Mutation{}, fmt.Errorf("set_source requires --source")
		}
		if err := eng.SetSourceInstalled(circuit.ComponentID(opts.Source), opts.Installed, opts.OrientationValid); err != nil {
			return circuit.Mutation{}, err
		}
		return circuit.NewSetSourceMutation(eng.Revision(), circuit.ComponentID(opts.Source), opts.Installed, opts.OrientationValid)

	case string(circuit.MutationReset):
		eng.Reset()
		return circuit.NewResetMutation(eng.Revision())

	default:
		return circuit.Mutation{}, fmt.Errorf("unknown operation %q, want one of: %s",
			op, strings.Join([]string{
				string(circuit.MutationAddWire),
				string(circuit.MutationRemoveWire),
				string(circuit.MutationSetSwitch),
				string(circuit.MutationSetSource),
				string(circuit.MutationReset),
			}, ", "))
	}
}
