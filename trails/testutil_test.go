package trails

import (
	"io"
	"log/slog"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// squareInput is a unit square walked counter-clockwise: 0→1→2→3→0.
func squareInput(envs int) *BuildInput {
	corners := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	in := NewBuildInput(envs, 4, 4)
	in.Controls = ControlOffset
	for e := 0; e < envs; e++ {
		for i, c := range corners {
			in.SetNode(e, i, c, 0)
		}
		for k := 0; k < 4; k++ {
			in.SetEdge(e, k, EdgeInput{
				Start:     k,
				End:       (k + 1) % 4,
				StartPos:  corners[k],
				EndPos:    corners[(k+1)%4],
				CurveFlag: CurveLine,
			})
		}
	}
	return in
}

func newStore(t *testing.T, d Dims, scale float64, opts ...Option) *Store {
	t.Helper()
	s, err := NewStore(d, scale, append([]Option{WithLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func newSquareStore(t *testing.T, envs int) *Store {
	t.Helper()
	s := newStore(t, Dims{Envs: envs, Nodes: 4, Edges: 4, MaxEdgesPerNode: 2}, 1)
	if err := s.Build(squareInput(envs)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func testGrid() GridSpec {
	return GridSpec{Cols: 9, Rows: 7, Spacing: 1.85, Margin: 0.74, Scale: 20, CurveFlag: CurveLine}
}

func newGridStore(t *testing.T, g GridSpec, envs int) *Store {
	t.Helper()
	s := newStore(t, Dims{Envs: envs, Nodes: g.Nodes(), Edges: g.Edges(), MaxEdgesPerNode: 4}, g.Scale)
	if err := s.Build(GridScenario(g, envs)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func near(a, b, tol float64) bool {
	d := a - b
	return d <= tol && d >= -tol
}

func nearVec(a, b r2.Vec, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol)
}
