package trails

import (
	"errors"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestShortestRouteOnSquare(t *testing.T) {
	s := newSquareStore(t, 1)
	r := s.Router(0)

	route, err := r.Shortest(0, 3)
	if err != nil {
		t.Fatalf("Shortest: %v", err)
	}
	if !slices.Equal(route.Nodes, []int{0, 1, 2, 3}) {
		t.Errorf("nodes = %v", route.Nodes)
	}
	if !slices.Equal(route.Edges, []int{0, 1, 2}) {
		t.Errorf("edges = %v", route.Edges)
	}
	if route.Length != 3 {
		t.Errorf("length = %g, want 3", route.Length)
	}

	self, err := r.Shortest(2, 2)
	if err != nil || len(self.Nodes) != 1 || self.Length != 0 {
		t.Errorf("self route = %+v, %v", self, err)
	}

	if _, err := r.Shortest(0, 4); !errors.Is(err, ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestShortestRouteOnGrid(t *testing.T) {
	g := testGrid()
	s := newGridStore(t, g, 1)

	// Opposite corners: 8 steps across and 6 down
	route, err := s.Router(0).Shortest(0, g.Nodes()-1)
	if err != nil {
		t.Fatalf("Shortest: %v", err)
	}
	if len(route.Edges) != (g.Cols-1)+(g.Rows-1) {
		t.Errorf("route takes %d edges, want %d", len(route.Edges), (g.Cols-1)+(g.Rows-1))
	}
	if want := g.Spacing * float64(len(route.Edges)); !near(route.Length, want, 1e-9) {
		t.Errorf("length = %g, want %g", route.Length, want)
	}
	for i, k := range route.Edges {
		e := s.Edge(0, k)
		if e.StartNode != route.Nodes[i] || e.EndNode != route.Nodes[i+1] {
			t.Fatalf("edge %d does not join %d->%d", k, route.Nodes[i], route.Nodes[i+1])
		}
	}
}

func TestRouterPrefersShorterParallelEdge(t *testing.T) {
	s := newStore(t, Dims{Envs: 1, Nodes: 2, Edges: 3, MaxEdgesPerNode: 3}, 1)
	in := NewBuildInput(1, 2, 3)
	a, b := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}
	in.SetNode(0, 0, a, 0)
	in.SetNode(0, 1, b, 0)
	// Curved detour, direct line, self-loop
	in.SetEdge(0, 0, EdgeInput{Start: 0, End: 1, StartPos: a, EndPos: b, StartControl: r2.Vec{Y: 2}, EndControl: r2.Vec{Y: 2}, CurveFlag: CurveBezier})
	in.SetEdge(0, 1, EdgeInput{Start: 0, End: 1, StartPos: a, EndPos: b, CurveFlag: CurveLine})
	in.SetEdge(0, 2, EdgeInput{Start: 1, End: 1, StartPos: b, EndPos: b, CurveFlag: CurveLine})
	if err := s.Build(in); err != nil {
		t.Fatalf("Build: %v", err)
	}

	route, err := s.Router(0).Shortest(0, 1)
	if err != nil {
		t.Fatalf("Shortest: %v", err)
	}
	if !slices.Equal(route.Edges, []int{1}) || route.Length != 1 {
		t.Errorf("route = %+v, want direct edge 1", route)
	}

	if _, err := s.Router(0).Shortest(1, 0); !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	if got := newSquareStore(t, 1).Router(0).Components(); len(got) != 1 || len(got[0]) != 4 {
		t.Errorf("square components = %v, want one of size 4", got)
	}

	s := newStore(t, Dims{Envs: 1, Nodes: 3, Edges: 1, MaxEdgesPerNode: 1}, 1)
	in := NewBuildInput(1, 3, 1)
	in.SetEdge(0, 0, EdgeInput{Start: 0, End: 1, CurveFlag: CurveLine})
	if err := s.Build(in); err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := s.Router(0).Components()
	want := [][]int{{0}, {1}, {2}}
	if len(got) != len(want) {
		t.Fatalf("components = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("components = %v, want %v", got, want)
		}
	}
}
