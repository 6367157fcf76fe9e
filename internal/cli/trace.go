package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	Database string
	Kind     string // optional mutation-kind filter
}

// JournalEvent is one row of the trace timeline.
type JournalEvent struct {
	Seq     int64          `json:"seq"`
	Type    string         `json:"type"` // "mutation" or "evaluation"
	ID      string         `json:"id"`
	Kind    string         `json:"kind,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	Verdict string         `json:"verdict,omitempty"`
}

// TraceStats summarizes the journal.
type TraceStats struct {
	Mutations   int            `json:"mutations"`
	Evaluations int            `json:"evaluations"`
	ByKind      map[string]int `json:"by_kind"`
	LastSeq     int64          `json:"last_seq"`
}

// TraceResult is the JSON payload for the trace command.
type TraceResult struct {
	Events []JournalEvent `json:"events"`
	Stats  TraceStats     `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the journal timeline",
		Long: `Print every journaled mutation and verdict snapshot in seq order.

Examples:
  voltlab trace --db lesson.db
  voltlab trace --db lesson.db --kind add_wire
  voltlab trace --db lesson.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, opts, rootOpts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show mutations of this kind")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(cmd *cobra.Command, opts *TraceOptions, rootOpts *RootOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening journal", err)
	}
	defer st.Close()

	ctx := context.Background()
	mutations, err := st.ReadAllMutations(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading mutations", err)
	}
	evaluations, err := st.ReadAllEvaluations(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading evaluations", err)
	}

	result := buildTrace(mutations, evaluations, opts.Kind)

	if rootOpts.Format == "json" {
		return formatter.Success(result)
	}

	for _, e := range result.Events {
		switch e.Type {
		case "mutation":
			fmt.Fprintf(formatter.Writer, "%4d  %-12s %s  %s\n", e.Seq, e.Kind, shortID(e.ID), payloadSummary(e.Payload))
		case "evaluation":
			fmt.Fprintf(formatter.Writer, "%4d  %-12s %s\n", e.Seq, "verdict", shortID(e.ID))
		}
	}

	fmt.Fprintf(formatter.Writer, "\n%d mutations, %d evaluations, last seq %d\n",
		result.Stats.Mutations, result.Stats.Evaluations, result.Stats.LastSeq)
	kinds := make([]string, 0, len(result.Stats.ByKind))
	for k := range result.Stats.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(formatter.Writer, "  %-12s %d\n", k, result.Stats.ByKind[k])
	}
	return nil
}

// buildTrace merges mutations and evaluations into one seq-ordered
// timeline. A mutation and its verdict share a seq; the mutation sorts
// first because it caused the verdict.
func buildTrace(mutations []circuit.Mutation, evaluations []circuit.EvaluationRecord, kindFilter string) *TraceResult {
	result := &TraceResult{
		Events: []JournalEvent{},
		Stats:  TraceStats{ByKind: map[string]int{}},
	}

	for _, m := range mutations {
		result.Stats.Mutations++
		result.Stats.ByKind[string(m.Kind)]++
		if m.Seq > result.Stats.LastSeq {
			result.Stats.LastSeq = m.Seq
		}
		if kindFilter != "" && string(m.Kind) != kindFilter {
			continue
		}
		result.Events = append(result.Events, JournalEvent{
			Seq:     m.Seq,
			Type:    "mutation",
			ID:      m.ID,
			Kind:    string(m.Kind),
			Payload: m.Payload,
		})
	}
	for _, rec := range evaluations {
		result.Stats.Evaluations++
		if rec.Seq > result.Stats.LastSeq {
			result.Stats.LastSeq = rec.Seq
		}
		if kindFilter != "" {
			continue
		}
		result.Events = append(result.Events, JournalEvent{
			Seq:     rec.Seq,
			Type:    "evaluation",
			ID:      rec.ID,
			Verdict: rec.Verdict,
		})
	}

	sort.SliceStable(result.Events, func(i, j int) bool {
		if result.Events[i].Seq != result.Events[j].Seq {
			return result.Events[i].Seq < result.Events[j].Seq
		}
		return result.Events[i].Type == "mutation" && result.Events[j].Type == "evaluation"
	})
	return result
}

// shortID truncates content hashes for the text timeline.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// payloadSummary renders a payload as stable key=value pairs.
func payloadSummary(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
