package sim

import "testing"

func TestStageGraph_Tick_SkipsCompletedEdges(t *testing.T) {
	var g StageGraph
	var advanced int
	done := false
	g.Add(StageEdge{
		Name:      "e1",
		Complete2: func() bool { return done },
		TryAdvance: func() {
			advanced++
		},
	})

	g.Tick()
	if advanced != 1 {
		t.Fatalf("advanced = %d, want 1", advanced)
	}
	done = true
	g.Tick()
	if advanced != 1 {
		t.Fatalf("advanced = %d after completion, want still 1 (edge should be skipped)", advanced)
	}
}

func TestStageGraph_AllComplete_IgnoresEdgesWithNoPredicate(t *testing.T) {
	var g StageGraph
	g.Add(StageEdge{Name: "passthrough", TryAdvance: func() {}})
	if !g.AllComplete() {
		t.Fatal("an edge with no Complete2 predicate should not block AllComplete")
	}

	done := false
	g.Add(StageEdge{Name: "gated", Complete2: func() bool { return done }, TryAdvance: func() {}})
	if g.AllComplete() {
		t.Fatal("AllComplete should be false while the gated edge is not done")
	}
	done = true
	if !g.AllComplete() {
		t.Fatal("AllComplete should be true once every predicated edge is done")
	}
}
