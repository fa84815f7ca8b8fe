package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lenia/engine"
)

// engineOptions translates config into engine options.
func (g *Game) engineOptions() []engine.Option {
	cfg := g.cfg
	opts := []engine.Option{
		engine.WithSeed(g.rngSeed),
		engine.WithTableResolution(cfg.Grid.TableResolution),
		engine.WithPhaseRecorder(g.perfCollector),
	}
	if len(cfg.KernelRings) > 0 {
		opts = append(opts, engine.WithKernelRings(cfg.KernelRings))
	}
	if len(cfg.GrowthPeaks) > 0 {
		opts = append(opts, engine.WithGrowthPeaks(cfg.GrowthPeaks))
	}
	if cfg.Multi.Enabled {
		opts = append(opts, engine.WithParallel(cfg.Multi.Parallel))
	}
	return opts
}

// buildSimulation creates a single or three-channel engine.
func (g *Game) buildSimulation() error {
	cfg := g.cfg
	n := cfg.Grid.Size

	if cfg.Multi.Enabled {
		m, err := engine.NewMulti(n, cfg.Params, cfg.Derived.Spread, g.engineOptions()...)
		if err != nil {
			return fmt.Errorf("creating multi-channel engine: %w", err)
		}
		g.sim = m
		g.multi = m
		slog.Info("engine ready", "mode", "multi", "size", n, "params", m.ChannelParams(), "parallel", cfg.Multi.Parallel)
		return nil
	}

	e, err := engine.New(n, cfg.Params, g.engineOptions()...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	g.sim = e
	g.single = e
	slog.Info("engine ready", "mode", "single", "size", n, "params", e.Params())
	return nil
}
