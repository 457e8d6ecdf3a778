package sim

// StageEdge is one row of the stage graph: a single transfer channel's
// per-tick behavior, named for diagnostics. Complete2 reports whether
// this edge's mapping has fully retired (the "observed" edge of its
// two-phase contract); TryAdvance performs one tick's worth of
// find-target-or-advance-counter work and is always safe to call —
// "nothing to do this tick" is a normal return, not an error.
//
// This table replaces the giant per-stage if/elif ladder the source
// used: every topology builds a StageGraph once, during construction,
// and the stage sequencer just walks it every tick.
type StageEdge struct {
	Name       string
	Complete2  func() bool
	TryAdvance func()
}

// StageGraph is the table of per-stage dataflow edges a topology's
// sequencer walks once per tick.
type StageGraph struct {
	edges []StageEdge
}

// Add appends an edge to the graph. Edges are walked in the order
// added. Edges can share state (two edges may drain the same core's
// array), so an earlier edge's effects are visible to later ones in the
// same tick and the order is part of the simulated timing.
func (g *StageGraph) Add(e StageEdge) { g.edges = append(g.edges, e) }

// Tick walks every edge whose mapping has not yet fully retired and
// invokes its find-or-advance step, per stage sequencer rule 1.
func (g *StageGraph) Tick() {
	for _, e := range g.edges {
		if e.Complete2 != nil && e.Complete2() {
			continue
		}
		e.TryAdvance()
	}
}

// AllComplete reports whether every edge with a Complete2 predicate has
// retired. Edges with no predicate (pass-through channels, which have no
// notion of a single terminal mapping) are ignored.
func (g *StageGraph) AllComplete() bool {
	for _, e := range g.edges {
		if e.Complete2 != nil && !e.Complete2() {
			return false
		}
	}
	return true
}
