package engine

import (
	"github.com/roach88/voltlab/internal/circuit"
)

// edgeKind distinguishes the conductive connection behind an adjacency
// entry, so path enumeration can tell which components a path crosses.
type edgeKind int

const (
	edgeWire   edgeKind = iota // user wire
	edgeLoad                   // load intrinsic edge (the filament)
	edgeSwitch                 // closed-switch intrinsic edge
)

// edge is one directed half of a conductive connection.
type edge struct {
	kind      edgeKind
	to        circuit.Terminal
	component circuit.ComponentID // owning component for intrinsic edges
	wire      circuit.WireID      // wire identity for user edges
}

// graph is the instantaneous circuit snapshot: the union of all user
// edges and all currently-active intrinsic edges, viewed as an
// undirected graph over the terminals of the live components. It has no
// identity beyond "current snapshot" and is rebuilt on every Evaluate.
type graph struct {
	adj map[circuit.Terminal][]edge

	// sourcePole marks terminals of valid sources. These participate in
	// reachability only as the fixed start/end of a search or as a
	// supply-hop crossing, never as a plain relay.
	sourcePole map[circuit.Terminal]bool
}

// supplyHop lets path enumeration cross another source chain as a
// series supply: a path reaching the entry pole continues from each
// listed exit pole, having traversed the chain internally.
type supplyHop struct {
	chain int
	exits []circuit.Terminal
}

// snapshot rebuilds the circuit graph from current component state.
//
// Terminals of invalid sources (uninstalled or misoriented) are excluded
// entirely: wires touching them are left out of the adjacency, which
// models "battery missing or backwards, so no current".
func (e *Engine) snapshot() *graph {
	g := &graph{
		adj:        make(map[circuit.Terminal][]edge),
		sourcePole: make(map[circuit.Terminal]bool),
	}

	excluded := make(map[circuit.Terminal]bool)
	for _, c := range e.scene.Components {
		if c.Kind != circuit.KindSource {
			continue
		}
		valid := e.sources[c.ID].Valid()
		for _, key := range c.Terminals {
			t := c.Terminal(key)
			if valid {
				g.sourcePole[t] = true
			} else {
				excluded[t] = true
			}
		}
	}

	// User edges in creation order, so adjacency lists are deterministic.
	for _, id := range e.wireOrder {
		w := e.wires[id]
		if excluded[w.A] || excluded[w.B] {
			continue
		}
		g.adj[w.A] = append(g.adj[w.A], edge{kind: edgeWire, to: w.B, wire: w.ID})
		g.adj[w.B] = append(g.adj[w.B], edge{kind: edgeWire, to: w.A, wire: w.ID})
	}

	// Active intrinsic edges in declaration order. Sources contribute
	// none: a source is the thing we search between, not through.
	for _, c := range e.scene.Components {
		switch c.Kind {
		case circuit.KindLoad:
			g.addIntrinsic(&c, edgeLoad)
		case circuit.KindSwitch:
			if e.switches[c.ID] {
				g.addIntrinsic(&c, edgeSwitch)
			}
		}
	}

	return g
}

func (g *graph) addIntrinsic(c *circuit.ComponentSpec, kind edgeKind) {
	a := c.Terminal(c.Terminals[0])
	b := c.Terminal(c.Terminals[1])
	g.adj[a] = append(g.adj[a], edge{kind: kind, to: b, component: c.ID})
	g.adj[b] = append(g.adj[b], edge{kind: kind, to: a, component: c.ID})
}

// enumeratePaths visits every simple path from one source pole to
// another, reporting the loads whose intrinsic edges the path crossed,
// whether it crossed any closed switch, and which other source chains
// it traversed as supplies along the way.
//
// A source pole is never a plain relay: a path that reaches one either
// terminates there (the goal) or enters the owning chain through a hop
// and continues from a far-side pole. Poles with no hop entry are dead
// ends. The budget bounds total node expansions; once spent,
// enumeration stops silently (the caller logs the truncation).
func (g *graph) enumeratePaths(from, goal circuit.Terminal, hops map[circuit.Terminal]supplyHop, budget *pathBudget, visit func(loads []circuit.ComponentID, viaSwitch bool, crossed []int)) {
	visited := map[circuit.Terminal]bool{from: true}
	var loads []circuit.ComponentID
	var crossed []int
	used := make(map[int]bool)

	var walk func(at circuit.Terminal, switches int)
	walk = func(at circuit.Terminal, switches int) {
		for _, ed := range g.adj[at] {
			if !budget.spend() {
				return
			}
			next := ed.to
			if next == goal {
				// Only user wires can touch a source pole, so no load
				// or switch bookkeeping is pending on this last hop.
				visit(append([]circuit.ComponentID(nil), loads...), switches > 0,
					append([]int(nil), crossed...))
				continue
			}
			if g.sourcePole[next] {
				hop, ok := hops[next]
				if !ok || used[hop.chain] {
					continue
				}
				used[hop.chain] = true
				crossed = append(crossed, hop.chain)
				for _, out := range hop.exits {
					walk(out, switches)
				}
				crossed = crossed[:len(crossed)-1]
				delete(used, hop.chain)
				continue
			}
			if visited[next] {
				continue
			}

			visited[next] = true
			switch ed.kind {
			case edgeLoad:
				loads = append(loads, ed.component)
				walk(next, switches)
				loads = loads[:len(loads)-1]
			case edgeSwitch:
				walk(next, switches+1)
			default:
				walk(next, switches)
			}
			visited[next] = false
		}
	}

	walk(from, 0)
}
