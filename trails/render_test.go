package trails

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

type recordingSurface struct {
	centers      []r2.Vec
	radius       float64
	nodeColor    uint32
	starts, ends []r2.Vec
	edgeColor    uint32
}

func (r *recordingSurface) Circles(centers []r2.Vec, radius float64, color uint32) {
	r.centers, r.radius, r.nodeColor = centers, radius, color
}

func (r *recordingSurface) Lines(starts, ends []r2.Vec, color uint32) {
	r.starts, r.ends, r.edgeColor = starts, ends, color
}

func TestRenderProjectsByScale(t *testing.T) {
	s := newStore(t, Dims{Envs: 1, Nodes: 4, Edges: 4, MaxEdgesPerNode: 2}, 1)
	in := squareInput(1)
	in.Scale = 2
	if err := s.Build(in); err != nil {
		t.Fatalf("Build: %v", err)
	}

	surf := &recordingSurface{}
	s.Render(surf, 0, RenderOptions{NodeRadius: 6, NodeColor: 0xa0a0a0, EdgeColor: 0x303030})

	if len(surf.centers) != 4 || surf.radius != 6 || surf.nodeColor != 0xa0a0a0 {
		t.Fatalf("circles = %v r=%g c=%x", surf.centers, surf.radius, surf.nodeColor)
	}
	if surf.centers[2] != (r2.Vec{X: 0.5, Y: 0.5}) {
		t.Errorf("node 2 projected to %v, want (0.5, 0.5)", surf.centers[2])
	}
	if len(surf.starts) != 4 || len(surf.ends) != 4 || surf.edgeColor != 0x303030 {
		t.Fatalf("lines = %d/%d c=%x", len(surf.starts), len(surf.ends), surf.edgeColor)
	}
	if surf.starts[1] != (r2.Vec{X: 0.5, Y: 0}) || surf.ends[1] != (r2.Vec{X: 0.5, Y: 0.5}) {
		t.Errorf("edge 1 projected to %v -> %v", surf.starts[1], surf.ends[1])
	}
}

func TestRenderCurves(t *testing.T) {
	g := testGrid()
	g.CurveFlag = CurveBezier
	g.Bend = 0.2
	s := newGridStore(t, g, 1)

	straight := &recordingSurface{}
	s.Render(straight, 0, RenderOptions{CurveSegments: 8})
	if len(straight.starts) != g.Edges() {
		t.Errorf("chord rendering drew %d lines, want %d", len(straight.starts), g.Edges())
	}

	curved := &recordingSurface{}
	s.Render(curved, 0, RenderOptions{Curves: true, CurveSegments: 8})
	if len(curved.starts) != 8*g.Edges() {
		t.Errorf("curve rendering drew %d lines, want %d", len(curved.starts), 8*g.Edges())
	}
	for i := range curved.starts {
		p := curved.starts[i]
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Fatalf("segment %d starts outside the unit square: %v", i, p)
		}
	}
}
