package trails

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/config"
)

// Surface receives draw calls in normalised [0,1] coordinates.
type Surface interface {
	Circles(centers []r2.Vec, radius float64, color uint32)
	Lines(starts, ends []r2.Vec, color uint32)
}

// RenderOptions controls how Render draws one environment.
type RenderOptions struct {
	NodeRadius float64
	NodeColor  uint32
	EdgeColor  uint32

	// Curves draws non-straight edges as polylines of CurveSegments pieces.
	// When false every edge is drawn as its chord.
	Curves        bool
	CurveSegments int
}

// RenderOptionsFromConfig reads the render and geometry config sections.
func RenderOptionsFromConfig(cfg *config.Config) RenderOptions {
	return RenderOptions{
		NodeRadius:    cfg.Render.NodeRadius,
		NodeColor:     cfg.Render.NodeColor,
		EdgeColor:     cfg.Render.EdgeColor,
		Curves:        cfg.Render.Curves,
		CurveSegments: cfg.Geometry.CurveSegments,
	}
}

// Render draws env's nodes as circles and its edges as line segments, with all
// positions divided by the store's scale.
func (s *Store) Render(surf Surface, env int, opts RenderOptions) {
	inv := 1 / s.Scale()

	var centers, starts, ends []r2.Vec
	s.Read(env, func(nodes []Node, edges []Edge) {
		centers = make([]r2.Vec, len(nodes))
		for i := range nodes {
			centers[i] = r2.Scale(inv, nodes[i].Position)
		}

		starts = make([]r2.Vec, 0, len(edges))
		ends = make([]r2.Vec, 0, len(edges))
		for k := range edges {
			ed := &edges[k]
			if !opts.Curves || ed.IsStraight() {
				starts = append(starts, r2.Scale(inv, ed.StartPos))
				ends = append(ends, r2.Scale(inv, ed.EndPos))
				continue
			}
			pts := ed.Polyline(opts.CurveSegments)
			for j := 1; j < len(pts); j++ {
				starts = append(starts, r2.Scale(inv, pts[j-1]))
				ends = append(ends, r2.Scale(inv, pts[j]))
			}
		}
	})

	surf.Circles(centers, opts.NodeRadius, opts.NodeColor)
	surf.Lines(starts, ends, opts.EdgeColor)
}
