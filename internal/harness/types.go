package harness

// TraceEvent is one entry in a scenario's execution trace: either an
// applied (or rejected) mutation, or the evaluation taken right after it.
type TraceEvent struct {
	Type     string         `json:"type"` // "mutation" or "evaluation"
	Op       string         `json:"op,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Error    string         `json:"error,omitempty"` // rejection code for expected failures
	Verdict  map[string]any `json:"verdict,omitempty"`
	Seq      int64          `json:"seq"`      // trace ordinal (deterministic clock)
	Revision int64          `json:"revision"` // engine revision after the step
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every step behaved as scripted and all assertions match.
	Pass bool `json:"pass"`

	// Trace contains all mutations and evaluations in order.
	// Used for golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion and step failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddMutationTrace adds a mutation step to the trace. errCode is empty
// for applied mutations and carries the rejection code for expected
// failures.
func (r *Result) AddMutationTrace(op string, params map[string]any, errCode string, seq, revision int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:     "mutation",
		Op:       op,
		Params:   params,
		Error:    errCode,
		Seq:      seq,
		Revision: revision,
	})
}

// AddEvaluationTrace adds a verdict snapshot to the trace. verdict is
// the evaluation's canonical map.
func (r *Result) AddEvaluationTrace(verdict map[string]any, seq, revision int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:     "evaluation",
		Verdict:  verdict,
		Seq:      seq,
		Revision: revision,
	})
}
