// Package camera provides pan and zoom over the unit-square overlay.
package camera

// Camera controls which part of the overlay fills the view. Positions are
// normalised overlay coordinates in [0,1]; the view never leaves the square.
type Camera struct {
	// X, Y is the view center
	X, Y float32

	// Zoom level (1.0 = whole overlay visible, 2.0 = 2x magnification)
	Zoom float32

	// View side in screen pixels
	Viewport float32

	MaxZoom float32
}

// New creates a camera showing the whole overlay in a viewport pixels wide.
func New(viewport float32) *Camera {
	return &Camera{X: 0.5, Y: 0.5, Zoom: 1, Viewport: viewport, MaxZoom: 8}
}

// WorldToScreen converts overlay coordinates to viewport pixels.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	scale := c.Zoom * c.Viewport
	sx = c.Viewport/2 + (wx-c.X)*scale
	sy = c.Viewport/2 + (wy-c.Y)*scale
	return sx, sy
}

// ScreenToWorld converts viewport pixels to overlay coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	scale := c.Zoom * c.Viewport
	wx = c.X + (sx-c.Viewport/2)/scale
	wy = c.Y + (sy-c.Viewport/2)/scale
	return wx, wy
}

// Pan moves the view by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	scale := c.Zoom * c.Viewport
	c.X += dx / scale
	c.Y += dy / scale
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to [1, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset shows the whole overlay again.
func (c *Camera) Reset() {
	c.X, c.Y, c.Zoom = 0.5, 0.5, 1
}

// VisibleBounds returns the visible overlay rectangle.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float32) {
	half := 0.5 / c.Zoom
	return c.X - half, c.Y - half, c.X + half, c.Y + half
}

// IsVisible reports whether a circle of radius r around (wx, wy) may be on screen.
func (c *Camera) IsVisible(wx, wy, r float32) bool {
	minX, minY, maxX, maxY := c.VisibleBounds()
	return wx+r >= minX && wx-r <= maxX && wy+r >= minY && wy-r <= maxY
}

func (c *Camera) clampCenter() {
	half := 0.5 / c.Zoom
	c.X = clamp(c.X, half, 1-half)
	c.Y = clamp(c.Y, half, 1-half)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
