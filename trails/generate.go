package trails

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/config"
)

// GridSpec describes a rectangular warehouse-style trail grid: nodes on a
// regular lattice joined to their 4-neighbours by a trail in each direction.
// Nodes in the first column carry attribute 1.
type GridSpec struct {
	Cols, Rows int
	Spacing    float64
	Margin     float64
	Scale      float64

	CurveFlag float64 // flag applied to every edge
	Bend      float64 // sideways control offset as a fraction of the edge chord
}

// GridFromConfig reads the grid layout from the scenario config section.
func GridFromConfig(cfg *config.Config) GridSpec {
	return GridSpec{
		Cols:      cfg.Derived.GridCols,
		Rows:      cfg.Derived.GridRows,
		Spacing:   cfg.Scenario.Spacing,
		Margin:    cfg.Scenario.Margin,
		Scale:     cfg.Scenario.Scale,
		CurveFlag: CurveLine,
	}
}

// Nodes returns the node count of the grid.
func (g GridSpec) Nodes() int { return g.Cols * g.Rows }

// Edges returns the directed edge count of the grid.
func (g GridSpec) Edges() int {
	return 2 * (g.Cols*(g.Rows-1) + (g.Cols-1)*g.Rows)
}

// Position returns the world position of node i. Row 0 is at the top.
func (g GridSpec) Position(i int) r2.Vec {
	col, row := i%g.Cols, i/g.Cols
	return r2.Vec{
		X: g.Margin + g.Spacing*float64(col+1),
		Y: g.Scale - (g.Margin + g.Spacing*float64(row+1)),
	}
}

// neighbours returns i's 4-neighbours in ascending index order.
func (g GridSpec) neighbours(i int) []int {
	col := i % g.Cols
	out := make([]int, 0, 4)
	if i-g.Cols >= 0 {
		out = append(out, i-g.Cols)
	}
	if col > 0 {
		out = append(out, i-1)
	}
	if col < g.Cols-1 {
		out = append(out, i+1)
	}
	if i+g.Cols < g.Nodes() {
		out = append(out, i+g.Cols)
	}
	return out
}

// GridScenario builds identical grids for every environment. Edges are
// numbered by (start, end) in ascending order. Control points are offsets
// placing them a third of the way along the chord, pushed sideways by Bend.
func GridScenario(g GridSpec, envs int) *BuildInput {
	in := NewBuildInput(envs, g.Nodes(), g.Edges())
	in.Scale = g.Scale
	in.Controls = ControlOffset

	for e := 0; e < envs; e++ {
		k := 0
		for i := 0; i < g.Nodes(); i++ {
			var attr int8
			if i%g.Cols == 0 {
				attr = 1
			}
			in.SetNode(e, i, g.Position(i), attr)

			for _, j := range g.neighbours(i) {
				s, t := g.Position(i), g.Position(j)
				chord := r2.Sub(t, s)
				side := r2.Scale(g.Bend, r2.Vec{X: -chord.Y, Y: chord.X})
				in.SetEdge(e, k, EdgeInput{
					Start:        i,
					End:          j,
					StartPos:     s,
					EndPos:       t,
					StartControl: r2.Add(r2.Scale(1.0/3, chord), side),
					EndControl:   r2.Add(r2.Scale(-1.0/3, chord), side),
					CurveFlag:    g.CurveFlag,
				})
				k++
			}
		}
	}
	return in
}
