package trails

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Curve flag values. Fractional flags blend the two shapes linearly.
const (
	CurveBezier = 0.0
	CurveLine   = 1.0
)

// DefaultArcSamples is the sample count used by ArcLength callers that have no
// configured value.
const DefaultArcSamples = 16

// Edge is a directed trail between two nodes of one environment.
// Control points are absolute positions.
type Edge struct {
	StartNode    int
	EndNode      int
	StartPos     r2.Vec
	EndPos       r2.Vec
	StartControl r2.Vec
	EndControl   r2.Vec
	CurveFlag    float64 // 0 = cubic Bezier, 1 = direct line
	Length       float64 // cached at build time, never persisted
}

// PositionAt returns the point at parameter t in [0,1]:
// the straight segment weighted by CurveFlag plus the cubic Bezier weighted by 1-CurveFlag.
func (e *Edge) PositionAt(t float64) r2.Vec {
	switch e.CurveFlag {
	case CurveLine:
		return e.lineAt(t)
	case CurveBezier:
		return e.bezierAt(t)
	}
	return blend(e.lineAt(t), e.bezierAt(t), e.CurveFlag)
}

func (e *Edge) lineAt(t float64) r2.Vec {
	return r2.Add(r2.Scale(1-t, e.StartPos), r2.Scale(t, e.EndPos))
}

func (e *Edge) bezierAt(t float64) r2.Vec {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return r2.Vec{
		X: b0*e.StartPos.X + b1*e.StartControl.X + b2*e.EndControl.X + b3*e.EndPos.X,
		Y: b0*e.StartPos.Y + b1*e.StartControl.Y + b2*e.EndControl.Y + b3*e.EndPos.Y,
	}
}

// blend returns a*w + b*(1-w).
func blend(a, b r2.Vec, w float64) r2.Vec {
	return r2.Add(r2.Scale(w, a), r2.Scale(1-w, b))
}

// ArcLength estimates the edge length. The straight part is exact; the Bezier part
// sums chords between samples+1 evenly spaced parameters, so samples=1 yields
// the chord length only. Both parts are blended by CurveFlag like PositionAt.
func (e *Edge) ArcLength(samples int) float64 {
	chord := r2.Norm(r2.Sub(e.EndPos, e.StartPos))
	switch e.CurveFlag {
	case CurveLine:
		return chord
	case CurveBezier:
		return e.bezierLength(samples)
	}
	return chord*e.CurveFlag + e.bezierLength(samples)*(1-e.CurveFlag)
}

func (e *Edge) bezierLength(samples int) float64 {
	if samples < 1 {
		samples = 1
	}
	var length float64
	last := e.bezierAt(0)
	for i := 1; i <= samples; i++ {
		p := e.bezierAt(float64(i) / float64(samples))
		length += r2.Norm(r2.Sub(p, last))
		last = p
	}
	return length
}

// IsStraight reports whether the edge reduces to its chord.
func (e *Edge) IsStraight() bool {
	return e.CurveFlag == CurveLine
}

// Polyline samples the edge at segments+1 evenly spaced parameters.
func (e *Edge) Polyline(segments int) []r2.Vec {
	if segments < 1 || e.IsStraight() {
		return []r2.Vec{e.StartPos, e.EndPos}
	}
	pts := make([]r2.Vec, segments+1)
	for i := range pts {
		pts[i] = e.PositionAt(float64(i) / float64(segments))
	}
	return pts
}

// ParamAtDistance maps a distance travelled from the start onto a curve parameter,
// using the cached Length. The result is clamped to [0,1].
func (e *Edge) ParamAtDistance(d float64) float64 {
	if e.Length <= 0 {
		return 1
	}
	return clamp01(d / e.Length)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
