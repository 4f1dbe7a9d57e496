// Package maps pairs a static raster field with a trail store and draws both
// onto a display surface.
package maps

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/trailnet/metrics"
	"github.com/pthm-cable/trailnet/trails"
)

// Raster is a static scalar field of GridN x GridN cells per environment.
// Cell (x, y) covers world coordinates [x, x+1) * Scale/GridN horizontally.
type Raster struct {
	GridN int
	Scale float64 // world size covered by the grid
	Envs  int

	cells []uint8 // (x*GridN + y)*Envs + env
}

// rasterDocument is the interchange payload: maps[x][y][env].
type rasterDocument struct {
	GridN   *int      `json:"grid_n" yaml:"grid_n"`
	Maps    [][][]int `json:"maps" yaml:"maps"`
	MaxSize *float64  `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	Scale   *float64  `json:"scale,omitempty" yaml:"scale,omitempty"`
}

func schemaErr(format string, args ...any) error {
	return &trails.Error{Kind: trails.ErrSchema, Env: -1, Entity: "raster", Index: -1, Msg: fmt.Sprintf(format, args...)}
}

// NewRaster allocates a zeroed field.
func NewRaster(gridN, envs int, scale float64) *Raster {
	return &Raster{
		GridN: gridN,
		Scale: scale,
		Envs:  envs,
		cells: make([]uint8, gridN*gridN*envs),
	}
}

func (r *Raster) index(x, y, env int) int {
	return (x*r.GridN+y)*r.Envs + env
}

// At returns cell (x, y) of env.
func (r *Raster) At(x, y, env int) uint8 {
	return r.cells[r.index(x, y, env)]
}

// Set writes cell (x, y) of env.
func (r *Raster) Set(x, y, env int, v uint8) {
	r.cells[r.index(x, y, env)] = v
}

// CellSize returns the world size of one cell.
func (r *Raster) CellSize() float64 {
	return r.Scale / float64(r.GridN)
}

// LoadRaster reads a raster interchange file (.json, .yaml or .yml) holding
// envs environments. A positive gridN additionally pins the grid side.
func LoadRaster(path string, envs, gridN int) (*Raster, error) {
	doc, f, err := trails.ReadFile[rasterDocument](path)
	if err == nil {
		var r *Raster
		if r, err = fromDocument(doc, envs, gridN); err == nil {
			metrics.LoadsTotal.WithLabelValues(string(f), metrics.ResultOK).Inc()
			slog.Info("raster loaded", "path", path, "grid_n", r.GridN, "envs", r.Envs, "scale", r.Scale)
			return r, nil
		}
	}

	format := string(f)
	if format == "" {
		format = "unknown"
	}
	metrics.LoadsTotal.WithLabelValues(format, metrics.ResultError).Inc()
	return nil, fmt.Errorf("loading raster: %w", err)
}

func fromDocument(doc *rasterDocument, envs, gridN int) (*Raster, error) {
	if doc.GridN == nil && doc.Maps == nil {
		return nil, &trails.Error{Kind: trails.ErrConfig, Env: -1, Index: -1, Msg: "raster document is empty"}
	}
	if doc.GridN == nil {
		return nil, schemaErr("missing key grid_n")
	}
	if doc.Maps == nil {
		return nil, schemaErr("missing key maps")
	}

	scale := doc.Scale
	if scale == nil {
		scale = doc.MaxSize
	}
	if scale == nil {
		return nil, schemaErr("missing key scale")
	}
	if !(*scale > 0) {
		return nil, schemaErr("scale must be positive, got %g", *scale)
	}

	n := *doc.GridN
	if n <= 0 {
		return nil, schemaErr("grid_n must be positive, got %d", n)
	}
	if gridN > 0 && n != gridN {
		return nil, schemaErr("grid_n %d does not match configured %d", n, gridN)
	}
	if len(doc.Maps) != n {
		return nil, schemaErr("maps has %d columns, want %d", len(doc.Maps), n)
	}

	r := NewRaster(n, envs, *scale)
	for x, col := range doc.Maps {
		if len(col) != n {
			return nil, schemaErr("maps[%d] has %d rows, want %d", x, len(col), n)
		}
		for y, cell := range col {
			if len(cell) != envs {
				return nil, schemaErr("maps[%d][%d] has %d environments, want %d", x, y, len(cell), envs)
			}
			for e, v := range cell {
				if v < 0 || v > 255 {
					return nil, schemaErr("maps[%d][%d][%d] = %d outside [0,255]", x, y, e, v)
				}
				r.Set(x, y, e, uint8(v))
			}
		}
	}
	return r, nil
}

// Save writes the raster as an interchange file chosen by suffix.
func (r *Raster) Save(path string) error {
	n := r.GridN
	scale := r.Scale
	doc := rasterDocument{GridN: &n, Scale: &scale, Maps: make([][][]int, n)}
	for x := range doc.Maps {
		doc.Maps[x] = make([][]int, n)
		for y := range doc.Maps[x] {
			cell := make([]int, r.Envs)
			for e := range cell {
				cell[e] = int(r.At(x, y, e))
			}
			doc.Maps[x][y] = cell
		}
	}
	if err := trails.WriteFile(path, doc); err != nil {
		return fmt.Errorf("saving raster: %w", err)
	}
	return nil
}
