package engine

// DefaultMaxSteps is the default path-enumeration budget per Evaluate call.
//
// Lesson scenes are tiny (a handful of 2-terminal components), so real
// evaluations spend a few dozen steps. The budget exists so a pathological
// scene can never hang the UI thread: once it is spent, enumeration stops
// and the evaluation is served from whatever paths were found.
const DefaultMaxSteps = 10000

// pathBudget tracks traversal steps spent during one Evaluate call.
//
// Each Evaluate gets a fresh budget. A step is one node expansion during
// path enumeration. Exhaustion truncates the search; it never fails the
// evaluation, because Evaluate is error-free by construction.
type pathBudget struct {
	maxSteps int // maximum allowed steps for this evaluation
	used     int // steps spent so far
}

// newPathBudget creates a budget with the given limit.
func newPathBudget(maxSteps int) *pathBudget {
	return &pathBudget{maxSteps: maxSteps}
}

// spend consumes one step. Returns false once the budget is exhausted,
// which tells the traversal to stop expanding.
func (b *pathBudget) spend() bool {
	if b.used >= b.maxSteps {
		return false
	}
	b.used++
	return true
}

// exhausted reports whether the budget ran out.
// Used for logging and diagnostics.
func (b *pathBudget) exhausted() bool {
	return b.used >= b.maxSteps
}

// spent returns the number of steps consumed.
// Used for logging and diagnostics.
func (b *pathBudget) spent() int {
	return b.used
}
