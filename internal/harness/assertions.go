package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/voltlab/internal/circuit"
	"github.com/roach88/voltlab/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Mutation history for context
	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		if event.Type == "mutation" {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Op, event.Params)
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store      *store.Store
	Evaluation *circuit.Evaluation
	Ctx        context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides the final verdict and journal access.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertLoadEnergized:
			err = assertLoadEnergized(actx.Evaluation, assertion, result.Trace)
		case AssertLoadTier:
			err = assertLoadTier(actx.Evaluation, assertion, result.Trace)
		case AssertAnySuccess:
			err = assertAnySuccess(actx.Evaluation, assertion, result.Trace)
		case AssertShortCircuit:
			err = assertShortCircuit(actx.Evaluation, assertion, result.Trace)
		case AssertJournalCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: journal_count requires journal context", i)
			} else {
				err = assertJournalCount(actx.Ctx, actx.Store, assertion, result.Trace)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertLoadEnergized checks a load's final energized flag.
func assertLoadEnergized(eval *circuit.Evaluation, assertion Assertion, trace []TraceEvent) error {
	verdict, ok := eval.Loads[circuit.ComponentID(assertion.Load)]
	if !ok {
		return &AssertionError{
			Type:     AssertLoadEnergized,
			Expected: fmt.Sprintf("load %s in verdict", assertion.Load),
			Actual:   "load not present in verdict",
			Trace:    trace,
		}
	}
	if verdict.Energized != *assertion.Value {
		return &AssertionError{
			Type:     AssertLoadEnergized,
			Expected: fmt.Sprintf("load %s energized = %t", assertion.Load, *assertion.Value),
			Actual:   fmt.Sprintf("energized = %t", verdict.Energized),
			Trace:    trace,
		}
	}
	return nil
}

// assertLoadTier checks a load's final intensity tier.
func assertLoadTier(eval *circuit.Evaluation, assertion Assertion, trace []TraceEvent) error {
	verdict, ok := eval.Loads[circuit.ComponentID(assertion.Load)]
	if !ok {
		return &AssertionError{
			Type:     AssertLoadTier,
			Expected: fmt.Sprintf("load %s in verdict", assertion.Load),
			Actual:   "load not present in verdict",
			Trace:    trace,
		}
	}
	if string(verdict.Tier) != assertion.Tier {
		return &AssertionError{
			Type:     AssertLoadTier,
			Expected: fmt.Sprintf("load %s tier = %s", assertion.Load, assertion.Tier),
			Actual:   fmt.Sprintf("tier = %s", verdict.Tier),
			Trace:    trace,
		}
	}
	return nil
}

// assertAnySuccess checks the scene-level success flag.
func assertAnySuccess(eval *circuit.Evaluation, assertion Assertion, trace []TraceEvent) error {
	if eval.AnySuccess != *assertion.Value {
		return &AssertionError{
			Type:     AssertAnySuccess,
			Expected: fmt.Sprintf("any_success = %t", *assertion.Value),
			Actual:   fmt.Sprintf("any_success = %t", eval.AnySuccess),
			Trace:    trace,
		}
	}
	return nil
}

// assertShortCircuit checks the scene-level short-circuit flag.
func assertShortCircuit(eval *circuit.Evaluation, assertion Assertion, trace []TraceEvent) error {
	if eval.ShortCircuitDetected != *assertion.Value {
		return &AssertionError{
			Type:     AssertShortCircuit,
			Expected: fmt.Sprintf("short_circuit = %t", *assertion.Value),
			Actual:   fmt.Sprintf("short_circuit = %t", eval.ShortCircuitDetected),
			Trace:    trace,
		}
	}
	return nil
}

// assertJournalCount checks the number of journaled mutations.
func assertJournalCount(ctx context.Context, st *store.Store, assertion Assertion, trace []TraceEvent) error {
	mutations, err := st.ReadAllMutations(ctx)
	if err != nil {
		return &AssertionError{
			Type:     AssertJournalCount,
			Expected: fmt.Sprintf("%d journaled mutations", assertion.Count),
			Actual:   fmt.Sprintf("journal read error: %v", err),
			Trace:    trace,
		}
	}
	if len(mutations) != assertion.Count {
		return &AssertionError{
			Type:     AssertJournalCount,
			Expected: fmt.Sprintf("%d journaled mutations", assertion.Count),
			Actual:   fmt.Sprintf("%d journaled mutations", len(mutations)),
			Trace:    trace,
		}
	}
	return nil
}
