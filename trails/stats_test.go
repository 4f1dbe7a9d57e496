package trails

import (
	"strings"
	"testing"
)

func TestStatsSquare(t *testing.T) {
	st := newSquareStore(t, 1).Stats(0)

	if st.Nodes != 4 || st.Edges != 4 {
		t.Errorf("counts = %d nodes, %d edges", st.Nodes, st.Edges)
	}
	if st.AdjacentPairs != 4 {
		t.Errorf("adjacent pairs = %d, want 4", st.AdjacentPairs)
	}
	if st.MaxOutDegree != 1 || st.MaxInDegree != 1 {
		t.Errorf("max degrees = %d/%d, want 1/1", st.MaxOutDegree, st.MaxInDegree)
	}
	if st.TotalLength != 4 || st.MeanLength != 1 || st.MaxLength != 1 {
		t.Errorf("lengths total=%g mean=%g max=%g", st.TotalLength, st.MeanLength, st.MaxLength)
	}
	if st.Components != 1 || st.LargestComponent != 4 {
		t.Errorf("components = %d (largest %d)", st.Components, st.LargestComponent)
	}
	if st.Curved != 0 || st.SelfLoops != 0 || st.Mismatches != 0 {
		t.Errorf("unexpected curved=%d loops=%d mismatches=%d", st.Curved, st.SelfLoops, st.Mismatches)
	}
}

func TestStatsGrid(t *testing.T) {
	g := testGrid()
	all := newGridStore(t, g, 2).AllStats()
	if len(all) != 2 {
		t.Fatalf("expected 2 stats records, got %d", len(all))
	}
	for e, st := range all {
		if st.Env != e {
			t.Errorf("record %d has env %d", e, st.Env)
		}
		if st.Tagged != g.Rows {
			t.Errorf("tagged nodes = %d, want %d", st.Tagged, g.Rows)
		}
		if st.MaxOutDegree != 4 || st.AdjacentPairs != g.Edges() {
			t.Errorf("max out-degree %d, adjacent pairs %d", st.MaxOutDegree, st.AdjacentPairs)
		}
		if st.Components != 1 {
			t.Errorf("grid should be strongly connected, got %d components", st.Components)
		}
	}
}

func TestToDOT(t *testing.T) {
	s := newSquareStore(t, 1)
	dot := s.ToDOT(0, DOTOptions{Pinned: true, Lengths: true})

	for _, want := range []string{
		"digraph trails {",
		"n0 -> n1",
		"n3 -> n0",
		`pos="0.000,0.000!"`,
		`label="1.00"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "dashed") {
		t.Error("straight edges should not be dashed")
	}
}
