// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/growth"
	"github.com/pthm-cable/lenia/kernel"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Params      engine.Params     `yaml:"params"`
	Multi       MultiConfig       `yaml:"multi"`
	KernelRings []kernel.Ring     `yaml:"kernel_rings"`
	GrowthPeaks []growth.Peak     `yaml:"growth_peaks"`
	Seed        SeedConfig        `yaml:"seed"`
	Scene       []PlacementConfig `yaml:"scene"`
	Screen      ScreenConfig      `yaml:"screen"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Bookmarks   BookmarksConfig   `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the simulation grid settings.
type GridConfig struct {
	Size            int   `yaml:"size"`             // Side length N, power of two
	TableResolution int   `yaml:"table_resolution"` // Growth lookup entries (0 = default)
	Seed            int64 `yaml:"seed"`             // Random source for Randomize
}

// MultiConfig holds three-channel settings.
type MultiConfig struct {
	Enabled     bool    `yaml:"enabled"`
	RSpread     float64 `yaml:"r_spread"`     // Channel i gets R + (i-1)*r_spread
	MuSpread    float64 `yaml:"mu_spread"`
	SigmaSpread float64 `yaml:"sigma_spread"`
	Parallel    bool    `yaml:"parallel"` // Step channels concurrently
}

// SeedConfig controls the random initial field.
type SeedConfig struct {
	Density float64 `yaml:"density"` // Probability a cell inside the disc is set
	Radius  float64 `yaml:"radius"`  // Disc radius as a fraction of N
}

// PlacementConfig describes one scene entry applied on reset.
type PlacementConfig struct {
	Kind     string  `yaml:"kind"`     // blob, ring, noise or circle
	X        float64 `yaml:"x"`        // Center as a fraction of N
	Y        float64 `yaml:"y"`        // Center as a fraction of N
	Radius   float64 `yaml:"radius"`   // Pattern or brush radius in cells
	Value    float64 `yaml:"value"`    // Peak (pattern) or fill (circle) value
	Scale    float64 `yaml:"scale"`    // Pattern resampling factor
	Channels []int   `yaml:"channels"` // Multi-channel targets; empty = all
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	TargetFPS     int `yaml:"target_fps"`
	StepsPerFrame int `yaml:"steps_per_frame"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Steps per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	Extinction    ExtinctionConfig    `yaml:"extinction"`
	Saturation    SaturationConfig    `yaml:"saturation"`
	MassCrash     MassCrashConfig     `yaml:"mass_crash"`
	StableSoliton StableSolitonConfig `yaml:"stable_soliton"`
}

// ExtinctionConfig holds extinction detection parameters.
type ExtinctionConfig struct {
	MinMass float64 `yaml:"min_mass"` // Mass below this counts as extinct
}

// SaturationConfig holds saturation detection parameters.
type SaturationConfig struct {
	Fill float64 `yaml:"fill"` // Mean cell value above this counts as saturated
}

// MassCrashConfig holds mass crash detection parameters.
type MassCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"` // Fractional drop from recent peak
}

// StableSolitonConfig holds stable soliton detection parameters.
type StableSolitonConfig struct {
	CVThreshold   float64 `yaml:"cv_threshold"` // Max coefficient of variation of window mass
	MinSpeed      float64 `yaml:"min_speed"`    // Mean centroid speed, cells per step
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells     int           // Grid.Size squared
	Spread    engine.Spread // Multi spreads as an engine record
	ScreenW32 float32       // Screen.Width as float32
	ScreenH32 float32       // Screen.Height as float32
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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Grid.Size * c.Grid.Size
	c.Derived.Spread = engine.Spread{
		R:     c.Multi.RSpread,
		Mu:    c.Multi.MuSpread,
		Sigma: c.Multi.SigmaSpread,
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Screen.StepsPerFrame < 1 {
		c.Screen.StepsPerFrame = 1
	}

	// Scene entries default to full strength at unit scale
	for i := range c.Scene {
		p := &c.Scene[i]
		if p.Value == 0 {
			p.Value = 1
		}
		if p.Scale == 0 {
			p.Scale = 1
		}
	}
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
