package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNewShowsWholeOverlay(t *testing.T) {
	cam := New(540)

	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 0) {
		t.Errorf("origin maps to (%f, %f), want (0, 0)", sx, sy)
	}
	sx, sy = cam.WorldToScreen(1, 1)
	if !near(sx, 540) || !near(sy, 540) {
		t.Errorf("far corner maps to (%f, %f), want (540, 540)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(540)
	cam.SetZoom(3)
	cam.Pan(100, -40)

	for _, tc := range []struct{ sx, sy float32 }{{270, 270}, {10, 20}, {500, 530}} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(100)
	cam.ZoomBy(0.5)
	if cam.Zoom != 1 {
		t.Errorf("zoom = %f, want 1", cam.Zoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %f, want %f", cam.Zoom, cam.MaxZoom)
	}
}

func TestPanStaysInside(t *testing.T) {
	cam := New(100)
	cam.SetZoom(2)
	cam.Pan(-1e6, 1e6)

	minX, minY, maxX, maxY := cam.VisibleBounds()
	if !near(minX, 0) || !near(maxY, 1) || !near(maxX, 0.5) || !near(minY, 0.5) {
		t.Errorf("bounds = (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
	if cam.IsVisible(0.9, 0.2, 0.01) || !cam.IsVisible(0.1, 0.9, 0) {
		t.Error("visibility does not match the bottom-left quarter")
	}

	cam.Reset()
	if cam.X != 0.5 || cam.Y != 0.5 || cam.Zoom != 1 {
		t.Errorf("reset camera = %+v", *cam)
	}
}
