// Package renderer draws trail overlays with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/camera"
)

// Surface draws normalised [0,1] coordinates into a square screen region.
// It must be used between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	X, Y  float32 // top-left corner in pixels
	Size  float32 // side in pixels
	Width float32 // line thickness in pixels

	// Camera selects the visible part of the square; nil shows all of it
	Camera *camera.Camera

	tex         rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewSurface creates a surface covering size x size pixels at (x, y).
func NewSurface(x, y, size float32) *Surface {
	return &Surface{X: x, Y: y, Size: size, Width: 1}
}

// RGB converts a 0xRRGGBB colour to an opaque raylib colour.
func RGB(c uint32) rl.Color {
	return rl.Color{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}

func (s *Surface) point(p r2.Vec) rl.Vector2 {
	if s.Camera == nil {
		return rl.Vector2{X: s.X + float32(p.X)*s.Size, Y: s.Y + float32(p.Y)*s.Size}
	}
	sx, sy := s.Camera.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: s.X + sx, Y: s.Y + sy}
}

func (s *Surface) zoom() float32 {
	if s.Camera == nil {
		return 1
	}
	return s.Camera.Zoom
}

// Begin clips drawing to the surface region until End.
func (s *Surface) Begin() {
	rl.BeginScissorMode(int32(s.X), int32(s.Y), int32(s.Size), int32(s.Size))
}

// End stops clipping.
func (s *Surface) End() {
	rl.EndScissorMode()
}

// SetImage uploads a grey-scale image and draws it over the whole region.
func (s *Surface) SetImage(pix []uint8, w, h int) {
	if len(pix) != w*h {
		return
	}
	if !s.initialized || w != s.texW || h != s.texH {
		s.Unload()
		img := rl.GenImageColor(w, h, rl.Black)
		s.tex = rl.LoadTextureFromImage(img)
		rl.SetTextureFilter(s.tex, rl.FilterPoint)
		rl.UnloadImage(img)
		s.texW, s.texH = w, h
		s.pixels = make([]color.RGBA, w*h)
		s.initialized = true
	}

	for i, v := range pix {
		s.pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	rl.UpdateTexture(s.tex, s.pixels)
	s.Redraw()
}

// Redraw draws the last uploaded image again.
func (s *Surface) Redraw() {
	if !s.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(s.texW), Height: float32(s.texH)}
	if s.Camera != nil {
		minX, minY, maxX, maxY := s.Camera.VisibleBounds()
		w, h := float32(s.texW), float32(s.texH)
		src = rl.Rectangle{X: minX * w, Y: minY * h, Width: (maxX - minX) * w, Height: (maxY - minY) * h}
	}
	dst := rl.Rectangle{X: s.X, Y: s.Y, Width: s.Size, Height: s.Size}
	rl.DrawTexturePro(s.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Circles draws filled circles with radius in pixels.
func (s *Surface) Circles(centers []r2.Vec, radius float64, c uint32) {
	col := RGB(c)
	for _, p := range centers {
		rl.DrawCircleV(s.point(p), float32(radius)*s.zoom(), col)
	}
}

// Lines draws one segment per start/end pair.
func (s *Surface) Lines(starts, ends []r2.Vec, c uint32) {
	col := RGB(c)
	for i := range starts {
		rl.DrawLineEx(s.point(starts[i]), s.point(ends[i]), s.Width*s.zoom(), col)
	}
}

// Agents draws world-space agent positions as small dots.
func (s *Surface) Agents(positions []r2.Vec, scale float64, radius float32, c uint32) {
	col := RGB(c)
	inv := 1 / scale
	for _, p := range positions {
		rl.DrawCircleV(s.point(r2.Scale(inv, p)), radius*s.zoom(), col)
	}
}

// Unload frees the image texture.
func (s *Surface) Unload() {
	if s.initialized {
		rl.UnloadTexture(s.tex)
		s.initialized = false
	}
}
