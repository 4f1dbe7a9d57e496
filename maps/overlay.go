package maps

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/config"
	"github.com/pthm-cable/trailnet/parallel"
	"github.com/pthm-cable/trailnet/trails"
)

// Surface is a trail surface that can also show a grey-scale background image.
// pix is row-major with w*h entries; the surface must not retain it.
type Surface interface {
	trails.Surface
	SetImage(pix []uint8, w, h int)
}

// Overlay draws a raster field with a trail network on top.
type Overlay struct {
	raster *Raster
	store  *trails.Store
	pool   *parallel.Pool

	size   int
	render trails.RenderOptions
	canvas []uint8
}

// NewOverlay pairs a raster with a store holding the same environments.
// The canvas is size x size pixels.
func NewOverlay(r *Raster, s *trails.Store, size int, opts trails.RenderOptions, pool *parallel.Pool) (*Overlay, error) {
	if r.Envs != s.Dims().Envs {
		return nil, schemaErr("raster has %d environments, trail store has %d", r.Envs, s.Dims().Envs)
	}
	if size <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %d", size)
	}
	return &Overlay{
		raster: r,
		store:  s,
		pool:   pool,
		size:   size,
		render: opts,
		canvas: make([]uint8, size*size),
	}, nil
}

// Load reads a raster and a trail file into a new overlay sized by cfg.
func Load(cfg *config.Config, rasterPath, trailsPath string, s *trails.Store, pool *parallel.Pool) (*Overlay, error) {
	r, err := LoadRaster(rasterPath, s.Dims().Envs, cfg.Map.GridN)
	if err != nil {
		return nil, err
	}
	if err := s.Load(trailsPath); err != nil {
		return nil, err
	}
	return NewOverlay(r, s, cfg.Render.CanvasSize, trails.RenderOptionsFromConfig(cfg), pool)
}

// Raster returns the overlay's field.
func (o *Overlay) Raster() *Raster { return o.raster }

// Store returns the overlay's trail store.
func (o *Overlay) Store() *trails.Store { return o.store }

// SetRenderOptions replaces the trail drawing options.
func (o *Overlay) SetRenderOptions(opts trails.RenderOptions) { o.render = opts }

// RenderOptions returns the trail drawing options.
func (o *Overlay) RenderOptions() trails.RenderOptions { return o.render }

// Canvas down-samples env's field to the canvas by nearest-index lookup and
// returns the row-major pixels. The slice is reused by the next call.
func (o *Overlay) Canvas(env int) []uint8 {
	n, size := o.raster.GridN, o.size
	o.pool.For(size, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fy := y * n / size
			row := o.canvas[y*size : (y+1)*size]
			for x := range row {
				row[x] = o.raster.At(x*n/size, fy, env)
			}
		}
	})
	return o.canvas
}

// Render draws env's field followed by its trails.
func (o *Overlay) Render(surf Surface, env int) {
	surf.SetImage(o.Canvas(env), o.size, o.size)
	o.store.Render(surf, env, o.render)
}

// CellAt samples env's field at a world position. It reports false outside the grid.
func (o *Overlay) CellAt(env int, pos r2.Vec) (uint8, bool) {
	cs := o.raster.CellSize()
	x := int(math.Floor(pos.X / cs))
	y := int(math.Floor(pos.Y / cs))
	if x < 0 || y < 0 || x >= o.raster.GridN || y >= o.raster.GridN {
		return 0, false
	}
	return o.raster.At(x, y, env), true
}
