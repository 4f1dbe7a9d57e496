// Package config provides configuration loading and access for trail scenarios.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scenario configuration parameters.
type Config struct {
	Scenario  ScenarioConfig  `yaml:"scenario"`
	Geometry  GeometryConfig  `yaml:"geometry"`
	Render    RenderConfig    `yaml:"render"`
	Map       MapConfig       `yaml:"map"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Agents    AgentsConfig    `yaml:"agents"`
	Screen    ScreenConfig    `yaml:"screen"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScenarioConfig holds the fixed batch dimensions of the trail store.
type ScenarioConfig struct {
	Envs            int     `yaml:"envs"`               // Independent environments
	Nodes           int     `yaml:"nodes"`              // Nodes per environment
	Edges           int     `yaml:"edges"`              // Edges per environment
	MaxEdgesPerNode int     `yaml:"max_edges_per_node"` // Incidence slot capacity per node and direction
	Scale           float64 `yaml:"scale"`              // World size used to normalise coordinates
	Cols            int     `yaml:"cols"`               // Generated grid columns (0 = derive from nodes)
	Spacing         float64 `yaml:"spacing"`            // Generated grid node spacing in world units
	Margin          float64 `yaml:"margin"`             // Generated grid margin in world units
}

// GeometryConfig holds edge evaluation parameters.
type GeometryConfig struct {
	ArcSamples    int `yaml:"arc_samples"`    // Samples used when caching edge lengths at build time
	CurveSegments int `yaml:"curve_segments"` // Polyline segments when drawing curved edges
}

// RenderConfig holds drawing parameters for the overlay.
type RenderConfig struct {
	CanvasSize int     `yaml:"canvas_size"` // Display canvas side in pixels
	NodeRadius float64 `yaml:"node_radius"`
	NodeColor  uint32  `yaml:"node_color"`
	EdgeColor  uint32  `yaml:"edge_color"`
	Curves     bool    `yaml:"curves"` // Draw Bezier edges as polylines instead of straight chords
}

// MapConfig holds raster field parameters.
type MapConfig struct {
	GridN int `yaml:"grid_n"` // Expected raster side (0 = take from file)
}

// ParallelConfig holds kernel scheduling parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // Worker goroutines (0 = GOMAXPROCS)
	Threshold int `yaml:"threshold"` // Index count below which kernels run serially
}

// AgentsConfig holds trail agent parameters.
type AgentsConfig struct {
	PerEnv int     `yaml:"per_env"` // Trail agents spawned per environment
	Speed  float64 `yaml:"speed"`   // World units per second
	Jitter float64 `yaml:"jitter"`  // Fractional speed variation between agents
	DT     float64 `yaml:"dt"`      // Seconds per simulation tick
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks between stats records
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Agents.DT as float32
	GridCols int     // Columns of the generated grid scenario
	GridRows int     // Rows of the generated grid scenario
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	s := c.Scenario
	if s.Envs <= 0 || s.Nodes <= 0 || s.Edges < 0 {
		return fmt.Errorf("scenario dimensions must be positive (envs=%d nodes=%d edges=%d)", s.Envs, s.Nodes, s.Edges)
	}
	if s.MaxEdgesPerNode <= 0 {
		return fmt.Errorf("scenario.max_edges_per_node must be positive, got %d", s.MaxEdgesPerNode)
	}
	if s.Scale <= 0 {
		return fmt.Errorf("scenario.scale must be positive, got %g", s.Scale)
	}
	if c.Render.CanvasSize <= 0 {
		return fmt.Errorf("render.canvas_size must be positive, got %d", c.Render.CanvasSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Agents.DT)

	if c.Geometry.ArcSamples < 1 {
		c.Geometry.ArcSamples = 1
	}
	if c.Geometry.CurveSegments < 1 {
		c.Geometry.CurveSegments = 1
	}

	// Grid shape for generated scenarios: explicit columns, else the squarest split
	cols := c.Scenario.Cols
	if cols <= 0 {
		cols = 1
		for k := 1; k*k <= c.Scenario.Nodes; k++ {
			if c.Scenario.Nodes%k == 0 {
				cols = c.Scenario.Nodes / k
			}
		}
	}
	c.Derived.GridCols = cols
	c.Derived.GridRows = (c.Scenario.Nodes + cols - 1) / cols
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
