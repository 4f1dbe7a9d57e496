// Package game runs the trail viewer: a trail overlay with agents walking it.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/trailnet/agents"
	"github.com/pthm-cable/trailnet/camera"
	"github.com/pthm-cable/trailnet/config"
	"github.com/pthm-cable/trailnet/maps"
	"github.com/pthm-cable/trailnet/parallel"
	"github.com/pthm-cable/trailnet/renderer"
	"github.com/pthm-cable/trailnet/telemetry"
	"github.com/pthm-cable/trailnet/trails"
)

// Options configures a Game.
type Options struct {
	Seed       int64
	MapPath    string // raster file; empty = blank field
	TrailsPath string // trail file; empty = generated grid scenario
	Env        int    // environment shown first
	OutputDir  string // CSV output; empty = disabled
	LogStats   bool
	Headless   bool

	StepsPerUpdate int
	Logger         *slog.Logger
}

// Game holds the viewer state.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	pool   *parallel.Pool

	store   *trails.Store
	overlay *maps.Overlay
	swarm   *agents.Swarm

	surface  *renderer.Surface
	camera   *camera.Camera
	canvasOK bool // surface holds the current env's canvas

	env            int
	tick           int
	paused         bool
	headless       bool
	stepsPerUpdate int
	logStats       bool

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
}

// NewGame loads or generates the trail network described by opts and the
// global config, and spawns the agents.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:            cfg,
		logger:         logger,
		pool:           parallel.NewPool(cfg.Parallel.Workers, cfg.Parallel.Threshold),
		env:            opts.Env,
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		logStats:       opts.LogStats,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
	if g.env < 0 || g.env >= cfg.Scenario.Envs {
		return nil, fmt.Errorf("environment %d outside [0,%d)", g.env, cfg.Scenario.Envs)
	}

	store, err := trails.FromConfig(cfg, trails.WithPool(g.pool), trails.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	g.store = store
	if err := g.loadTrails(opts.TrailsPath); err != nil {
		return nil, err
	}
	if err := g.loadOverlay(opts.MapPath); err != nil {
		return nil, err
	}

	g.swarm = agents.FromConfig(cfg, store, opts.Seed, agents.WithOverlay(g.overlay), agents.WithLogger(logger))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	if !g.headless {
		size := float32(cfg.Render.CanvasSize)
		g.camera = camera.New(size)
		g.surface = renderer.NewSurface(0, float32(cfg.Screen.Height)-size, size)
		g.surface.Camera = g.camera
	}

	logger.Info("trail network ready",
		"envs", store.Dims().Envs,
		"nodes", store.Dims().Nodes,
		"edges", store.Dims().Edges,
		"scale", store.Scale(),
		"agents", g.swarm.Count(),
	)
	return g, nil
}

func (g *Game) loadTrails(path string) error {
	if path != "" {
		return g.store.Load(path)
	}
	grid := trails.GridFromConfig(g.cfg)
	if err := g.store.Build(trails.GridScenario(grid, g.cfg.Scenario.Envs)); err != nil {
		return fmt.Errorf("building grid scenario: %w", err)
	}
	return nil
}

func (g *Game) loadOverlay(path string) error {
	var r *maps.Raster
	if path == "" {
		r = maps.NewRaster(max(g.cfg.Map.GridN, 1), g.cfg.Scenario.Envs, g.store.Scale())
	} else {
		var err error
		if r, err = maps.LoadRaster(path, g.cfg.Scenario.Envs, g.cfg.Map.GridN); err != nil {
			return err
		}
	}
	o, err := maps.NewOverlay(r, g.store, g.cfg.Render.CanvasSize, trails.RenderOptionsFromConfig(g.cfg), g.pool)
	if err != nil {
		return err
	}
	g.overlay = o
	return nil
}

// Store returns the game's trail store.
func (g *Game) Store() *trails.Store { return g.store }

// Swarm returns the game's agents.
func (g *Game) Swarm() *agents.Swarm { return g.swarm }

// Env returns the environment on screen.
func (g *Game) Env() int { return g.env }

// Tick returns the current simulation tick.
func (g *Game) Tick() int { return g.tick }

// SetEnv switches the displayed environment, wrapping around.
func (g *Game) SetEnv(env int) {
	n := g.store.Dims().Envs
	g.env = ((env % n) + n) % n
	g.canvasOK = false
}

// ToggleCurves switches between chord and polyline edge drawing.
func (g *Game) ToggleCurves() {
	opts := g.overlay.RenderOptions()
	opts.Curves = !opts.Curves
	g.overlay.SetRenderOptions(opts)
}

// Update handles input and advances the simulation in windowed mode.
// The perf tick it starts is closed by Draw.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.perfCollector.StartTick()
		g.step()
		g.perfCollector.EndTick()
	}
}

func (g *Game) step() {
	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.swarm.Step(g.cfg.Agents.DT)
	g.tick++
	g.perfCollector.StartPhase(telemetry.PhaseStats)
	g.flushTelemetry()
}

// Unload closes output files and GPU resources.
func (g *Game) Unload() {
	if g.surface != nil {
		g.surface.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
	g.pool.Close()
}
