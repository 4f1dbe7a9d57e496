package trails

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func curvedEdge(flag float64) Edge {
	return Edge{
		StartPos:     r2.Vec{X: 0, Y: 0},
		EndPos:       r2.Vec{X: 2, Y: 0},
		StartControl: r2.Vec{X: 0, Y: 1},
		EndControl:   r2.Vec{X: 2, Y: 1},
		CurveFlag:    flag,
	}
}

func TestPositionAtEndpoints(t *testing.T) {
	for _, flag := range []float64{CurveBezier, 0.5, CurveLine} {
		e := curvedEdge(flag)
		if got := e.PositionAt(0); got != e.StartPos {
			t.Errorf("flag %g: PositionAt(0) = %v, want %v", flag, got, e.StartPos)
		}
		if got := e.PositionAt(1); got != e.EndPos {
			t.Errorf("flag %g: PositionAt(1) = %v, want %v", flag, got, e.EndPos)
		}
	}

	// Arbitrary blend weights are exact only up to rounding
	e := curvedEdge(0.3)
	if got := e.PositionAt(1); !nearVec(got, e.EndPos, 1e-12) {
		t.Errorf("flag 0.3: PositionAt(1) = %v, want %v", got, e.EndPos)
	}
}

func TestStraightEdgeReducesToSegment(t *testing.T) {
	e := Edge{
		StartPos:     r2.Vec{X: 1, Y: 2},
		EndPos:       r2.Vec{X: 4, Y: 6},
		StartControl: r2.Vec{X: -10, Y: 30},
		EndControl:   r2.Vec{X: 50, Y: -7},
		CurveFlag:    CurveLine,
	}

	for i := 0; i <= 10; i++ {
		tt := float64(i) / 10
		want := r2.Vec{X: 1 + 3*tt, Y: 2 + 4*tt}
		if got := e.PositionAt(tt); !nearVec(got, want, 1e-12) {
			t.Errorf("PositionAt(%g) = %v, want %v", tt, got, want)
		}
	}

	for _, n := range []int{0, 1, 2, 16, 1000} {
		if got := e.ArcLength(n); got != 5 {
			t.Errorf("ArcLength(%d) = %g, want exactly 5", n, got)
		}
	}
}

func TestBezierMidpoint(t *testing.T) {
	e := curvedEdge(CurveBezier)
	want := r2.Vec{X: 1, Y: 0.75}
	if got := e.PositionAt(0.5); !nearVec(got, want, 1e-12) {
		t.Errorf("PositionAt(0.5) = %v, want %v", got, want)
	}
}

func TestFractionalFlagBlends(t *testing.T) {
	bez := curvedEdge(CurveBezier)
	line := curvedEdge(CurveLine)
	mixed := curvedEdge(0.25)

	for _, tt := range []float64{0.1, 0.5, 0.9} {
		want := r2.Add(r2.Scale(0.25, line.PositionAt(tt)), r2.Scale(0.75, bez.PositionAt(tt)))
		if got := mixed.PositionAt(tt); !nearVec(got, want, 1e-12) {
			t.Errorf("PositionAt(%g) = %v, want %v", tt, got, want)
		}
	}

	want := 0.25*line.ArcLength(32) + 0.75*bez.ArcLength(32)
	if got := mixed.ArcLength(32); !near(got, want, 1e-12) {
		t.Errorf("ArcLength = %g, want %g", got, want)
	}
}

func TestBezierArcLengthSampling(t *testing.T) {
	e := curvedEdge(CurveBezier)

	if got := e.ArcLength(1); got != 2 {
		t.Errorf("ArcLength(1) = %g, want chord 2", got)
	}
	if got := e.ArcLength(0); got != 2 {
		t.Errorf("ArcLength(0) = %g, want chord 2", got)
	}

	prev := e.ArcLength(1)
	for _, n := range []int{2, 4, 16, 256} {
		l := e.ArcLength(n)
		if l < prev {
			t.Errorf("ArcLength(%d) = %g decreased from %g", n, l, prev)
		}
		prev = l
	}
	// Converged length of this curve lies between the chord and the control polygon
	if prev <= 2 || prev >= 4 {
		t.Errorf("ArcLength(256) = %g, want within (2, 4)", prev)
	}
	if d := math.Abs(e.ArcLength(16) - prev); d > 0.01 {
		t.Errorf("ArcLength(16) differs from converged length by %g", d)
	}
}

func TestPolyline(t *testing.T) {
	e := curvedEdge(CurveBezier)
	pts := e.Polyline(4)
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pts))
	}
	if pts[0] != e.StartPos || pts[4] != e.EndPos {
		t.Errorf("polyline ends = %v, %v", pts[0], pts[4])
	}
	if !nearVec(pts[2], r2.Vec{X: 1, Y: 0.75}, 1e-12) {
		t.Errorf("polyline midpoint = %v", pts[2])
	}

	straight := curvedEdge(CurveLine)
	if got := straight.Polyline(30); len(got) != 2 {
		t.Errorf("straight edge polyline has %d points, want 2", len(got))
	}
}

func TestParamAtDistance(t *testing.T) {
	e := curvedEdge(CurveLine)
	e.Length = e.ArcLength(1)

	tests := []struct {
		d, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.25},
		{2, 1},
		{3, 1},
	}
	for _, tc := range tests {
		if got := e.ParamAtDistance(tc.d); got != tc.want {
			t.Errorf("ParamAtDistance(%g) = %g, want %g", tc.d, got, tc.want)
		}
	}

	var zero Edge
	if got := zero.ParamAtDistance(0); got != 1 {
		t.Errorf("zero-length edge: ParamAtDistance = %g, want 1", got)
	}
}
