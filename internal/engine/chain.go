package engine

import (
	"github.com/roach88/voltlab/internal/circuit"
)

// sourceChain is a maximal set of valid sources acting as one supply.
//
// Sources join into a chain three ways: by sharing a series group (a
// battery box chains its docked cells end-to-end in declaration order),
// by sharing a parallel group (the box presents same-index poles as one
// node), or by a user wire run directly pole-to-pole between two
// sources. Poles consumed by intra-chain joins are unavailable to the
// rest of the circuit; the remaining free poles are where a complete
// path starts, ends, or crosses into another chain's supply.
type sourceChain struct {
	members  []circuit.ComponentID // declaration order
	free     []circuit.Terminal    // unconsumed poles, deterministic order
	parallel bool                  // any member docked in a parallel group
}

// tier is the intensity a single path supplied by this chain earns.
func (c *sourceChain) tier() circuit.IntensityTier {
	switch {
	case c.parallel && len(c.members) >= 2:
		return circuit.TierParallel
	case len(c.members) >= 2:
		return circuit.TierSeries
	default:
		return circuit.TierSingle
	}
}

// sourceChains partitions the currently-valid sources into chains.
//
// Invalid sources never join a chain. An invalid cell in the middle of a
// series group breaks the group there: its neighbors do not join through
// an empty slot.
func (e *Engine) sourceChains() []*sourceChain {
	valid := make(map[circuit.ComponentID]*circuit.ComponentSpec)
	var order []circuit.ComponentID
	for i := range e.scene.Components {
		c := &e.scene.Components[i]
		if c.Kind == circuit.KindSource && e.sources[c.ID].Valid() {
			valid[c.ID] = c
			order = append(order, c.ID)
		}
	}

	uf := newUnionFind()
	consumed := make(map[circuit.Terminal]bool)
	inParallel := make(map[circuit.ComponentID]bool)

	// Series groups chain consecutive valid cells; the facing poles of
	// each join are consumed by the box's internal strap.
	lastInSeries := make(map[string]*circuit.ComponentSpec)
	for i := range e.scene.Components {
		c := &e.scene.Components[i]
		if c.Kind != circuit.KindSource || c.SeriesGroup == "" {
			continue
		}
		if _, ok := valid[c.ID]; !ok {
			delete(lastInSeries, c.SeriesGroup)
			continue
		}
		if prev := lastInSeries[c.SeriesGroup]; prev != nil {
			uf.union(prev.ID, c.ID)
			consumed[prev.Terminal(prev.Terminals[1])] = true
			consumed[c.Terminal(c.Terminals[0])] = true
		}
		lastInSeries[c.SeriesGroup] = c
	}

	// Parallel groups merge valid cells without consuming any pole.
	firstInParallel := make(map[string]circuit.ComponentID)
	for _, id := range order {
		c := valid[id]
		if c.ParallelGroup == "" {
			continue
		}
		inParallel[id] = true
		if first, ok := firstInParallel[c.ParallelGroup]; ok {
			uf.union(first, id)
		} else {
			firstInParallel[c.ParallelGroup] = id
		}
	}

	// A user wire run directly between two valid sources chains them and
	// consumes both endpoints.
	for _, wid := range e.wireOrder {
		w := e.wires[wid]
		sa, aOK := valid[w.A.Component]
		sb, bOK := valid[w.B.Component]
		if !aOK || !bOK || sa.ID == sb.ID {
			continue
		}
		uf.union(sa.ID, sb.ID)
		consumed[w.A] = true
		consumed[w.B] = true
	}

	byRoot := make(map[circuit.ComponentID]*sourceChain)
	var chains []*sourceChain
	for _, id := range order {
		root := uf.find(id)
		ch := byRoot[root]
		if ch == nil {
			ch = &sourceChain{}
			byRoot[root] = ch
			chains = append(chains, ch)
		}
		ch.members = append(ch.members, id)
		ch.parallel = ch.parallel || inParallel[id]
		for _, key := range valid[id].Terminals {
			t := valid[id].Terminal(key)
			if !consumed[t] {
				ch.free = append(ch.free, t)
			}
		}
	}

	return chains
}

// supplyHops indexes the other chains' free poles for a path search
// leaving the start chain from a pole of index s. Entering another
// chain at an index 1-s pole and leaving from an index s pole keeps
// every traversed supply pushing the same way around the loop;
// like-polarity entry would mean opposing cells, so those poles get no
// hop.
func (e *Engine) supplyHops(chains []*sourceChain, start, s int) map[circuit.Terminal]supplyHop {
	hops := make(map[circuit.Terminal]supplyHop)
	for ci, ch := range chains {
		if ci == start {
			continue
		}
		var exits []circuit.Terminal
		for _, p := range ch.free {
			if e.poleIndex(p) == s {
				exits = append(exits, p)
			}
		}
		if len(exits) == 0 {
			continue
		}
		for _, p := range ch.free {
			if e.poleIndex(p) == 1-s {
				hops[p] = supplyHop{chain: ci, exits: exits}
			}
		}
	}
	return hops
}

// unionFind is a plain disjoint-set over component IDs.
type unionFind struct {
	parent map[circuit.ComponentID]circuit.ComponentID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[circuit.ComponentID]circuit.ComponentID)}
}

func (u *unionFind) find(id circuit.ComponentID) circuit.ComponentID {
	p, ok := u.parent[id]
	if !ok || p == id {
		return id
	}
	root := u.find(p)
	u.parent[id] = root
	return root
}

func (u *unionFind) union(a, b circuit.ComponentID) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
