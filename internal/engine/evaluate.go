package engine

import (
	"log/slog"

	"github.com/roach88/voltlab/internal/circuit"
)

// Evaluate answers, for each load in the scene, whether a complete path
// energizes it and at what intensity tier.
//
// Evaluate is a pure function of current graph state: it never mutates
// the graph, never fails, and yields identical results when called twice
// with no mutation in between. An empty or disconnected graph is a valid
// input that simply produces all-loads-off.
//
// A load is energized when a simple path runs from one free pole of a
// source chain to an opposite-polarity free pole of the same chain,
// crossing the load's intrinsic edge, over the union of user wires and
// active intrinsic edges. The path may cross other source chains along
// the way, entering at one polarity and leaving at the other, so
// batteries linked through components on both legs still add up as one
// series supply. A path that closes a loop without crossing any load is
// a short circuit: it zeroes every verdict in the scene and raises
// ShortCircuitDetected, never counting as "energized".
func (e *Engine) Evaluate() *circuit.Evaluation {
	g := e.snapshot()
	chains := e.sourceChains()
	budget := newPathBudget(e.maxSteps)

	type loadAccum struct {
		tier      circuit.IntensityTier
		viaSwitch bool
		supplies  []map[int]bool // distinct chain sets that energized the load
	}
	accum := make(map[circuit.ComponentID]*loadAccum)
	short := false

	for ci, ch := range chains {
		if len(ch.free) == 0 {
			// Every pole is consumed by intra-chain joins: a closed
			// ring of pure sources.
			short = true
			continue
		}
		for i := 0; i < len(ch.free); i++ {
			for j := i + 1; j < len(ch.free); j++ {
				fa, fb := ch.free[i], ch.free[j]
				if e.poleIndex(fa) == e.poleIndex(fb) {
					// Same-polarity poles: opposing cells, no current.
					continue
				}
				hops := e.supplyHops(chains, ci, e.poleIndex(fa))
				g.enumeratePaths(fa, fb, hops, budget, func(loads []circuit.ComponentID, viaSwitch bool, crossed []int) {
					supply := map[int]bool{ci: true}
					for _, other := range crossed {
						if other < ci {
							// Already counted from the lowest chain in
							// the loop.
							return
						}
						supply[other] = true
					}
					if len(loads) == 0 {
						short = true
						return
					}
					tier := loopTier(chains, supply)
					for _, id := range loads {
						a := accum[id]
						if a == nil {
							a = &loadAccum{tier: circuit.TierOff}
							accum[id] = a
						}
						a.tier = a.tier.Max(tier)
						a.viaSwitch = a.viaSwitch || viaSwitch
						if !containsSupply(a.supplies, supply) {
							a.supplies = append(a.supplies, supply)
						}
					}
				})
			}
		}
	}

	if budget.exhausted() {
		slog.Warn("path enumeration budget exhausted, verdicts may be partial",
			"steps", budget.spent(),
			"max_steps", e.maxSteps)
	}

	eval := &circuit.Evaluation{
		Loads:                make(map[circuit.ComponentID]circuit.LoadVerdict),
		ShortCircuitDetected: short,
	}
	for _, id := range e.scene.Loads() {
		v := circuit.LoadVerdict{Tier: circuit.TierOff}
		if a := accum[id]; a != nil && !short {
			v.Energized = true
			v.ControlledBySwitch = a.viaSwitch
			v.Tier = a.tier
			if hasDisjointSupplies(a.supplies) {
				// Independent supplies each completing the circuit.
				v.Tier = circuit.TierParallel
			}
			eval.AnySuccess = true
		}
		eval.Loads[id] = v
	}

	slog.Debug("evaluation complete",
		"revision", e.clock.Current(),
		"chains", len(chains),
		"any_success", eval.AnySuccess,
		"short_circuit", eval.ShortCircuitDetected,
		"steps", budget.spent())
	return eval
}

// loopTier grades one energizing loop by the supply chains it runs
// through: the best single-chain tier, upgraded to series when the loop
// spans two or more cells in total.
func loopTier(chains []*sourceChain, supply map[int]bool) circuit.IntensityTier {
	tier := circuit.TierSingle
	total := 0
	for ci := range supply {
		total += len(chains[ci].members)
		tier = tier.Max(chains[ci].tier())
	}
	if total >= 2 {
		tier = tier.Max(circuit.TierSeries)
	}
	return tier
}

// containsSupply reports whether the set of chains is already recorded.
func containsSupply(sets []map[int]bool, supply map[int]bool) bool {
	for _, s := range sets {
		if len(s) != len(supply) {
			continue
		}
		same := true
		for ci := range supply {
			if !s[ci] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// hasDisjointSupplies reports whether two recorded loops share no
// source chain, which is what makes supplies independent.
func hasDisjointSupplies(sets []map[int]bool) bool {
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			disjoint := true
			for ci := range sets[i] {
				if sets[j][ci] {
					disjoint = false
					break
				}
			}
			if disjoint {
				return true
			}
		}
	}
	return false
}

func (e *Engine) poleIndex(t circuit.Terminal) int {
	c, ok := e.scene.Component(t.Component)
	if !ok {
		return -1
	}
	return c.PoleIndex(t.Key)
}
