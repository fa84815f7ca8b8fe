// Package game runs a Lenia engine with telemetry, a seed scene and an
// optional raylib viewer.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lenia/camera"
	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/systems"
	"github.com/pthm-cable/lenia/telemetry"
	"github.com/pthm-cable/lenia/ui"
)

// Simulation is the surface shared by engine.Engine and engine.Multi.
type Simulation interface {
	systems.Painter
	Step()
	Stats() engine.Stats
	Params() engine.Params
	SetParams(u engine.Update) error
	Clear()
	Randomize(density, radius float64)
}

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindow    int // steps, 0 = use config
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// StatsCallback receives every flushed window (optional).
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete run state.
type Game struct {
	cfg     *config.Config
	rngSeed int64

	sim    Simulation
	single *engine.Engine // nil in multi-channel mode
	multi  *engine.Multi  // nil in single-channel mode
	scene  *systems.Scene

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// Rendering (nil when headless)
	field       *renderer.FieldRenderer
	camera      *camera.Camera
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	paramsPanel *ui.ParamsPanel

	// State
	paused         bool
	stepsPerUpdate int
	brushRadius    float64
	showPerf       bool
	follow         bool
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions builds the engine, scene and telemetry described by
// the config and seeds the field.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		rngSeed:          opts.Seed,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.Cells),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
		stepsPerUpdate:   max(1, opts.StepsPerUpdate),
		brushRadius:      float64(cfg.Grid.Size) / 32,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}
	if opts.StepsPerUpdate <= 0 {
		g.stepsPerUpdate = cfg.Screen.StepsPerFrame
	}

	if err := g.buildSimulation(); err != nil {
		return nil, err
	}

	scene, err := systems.NewSceneFromConfig(cfg.Scene, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	g.scene = scene

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.field = renderer.NewFieldRenderer(cfg.Grid.Size)
		side := g.fieldRect().Width
		g.camera = camera.New(side, side, cfg.Grid.Size)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 0)
		g.paramsPanel = ui.NewParamsPanel(0, 10, panelWidth)
		g.layoutPanels()
	}

	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset reseeds the field randomly, then paints the scene over it.
func (g *Game) Reset() error {
	g.sim.Randomize(g.cfg.Seed.Density, g.cfg.Seed.Radius)
	if err := g.scene.Apply(g.sim); err != nil {
		return fmt.Errorf("applying scene: %w", err)
	}
	g.resetTelemetry()
	return nil
}

// Clear empties the field.
func (g *Game) Clear() {
	g.sim.Clear()
	g.resetTelemetry()
}

func (g *Game) resetTelemetry() {
	g.collector.StartAt(g.Step())
	g.bookmarkDetector.Reset()
}

// Update handles input, then runs simulation steps unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.simulationStep()
		}
	}

	if g.follow {
		if s := g.sim.Stats(); s.Mass > 0 {
			g.camera.Follow(float32(s.CenterX), float32(s.CenterY))
		}
	}
}

// UpdateHeadless runs simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single engine step and its telemetry.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()
	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(g.sim.Stats())
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// Step returns the current engine step.
func (g *Game) Step() int {
	return g.sim.Stats().Step
}

// Simulation returns the running engine.
func (g *Game) Simulation() Simulation {
	return g.sim
}

// Unload releases all resources.
func (g *Game) Unload() {
	if g.field != nil {
		g.field.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
