package main

import (
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/game"
	"github.com/pthm-cable/lenia/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestSnapshot *telemetry.Snapshot
	lastQuality  float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestSnapshot returns the final state of the best evaluation's best seed.
func (fe *FitnessEvaluator) BestSnapshot() *telemetry.Snapshot {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSnapshot
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Warmup before extinction and saturation checks apply.
const warmupSteps = 20

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSteps int                     // steps before the field died or filled (or maxSteps)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	snapshot      *telemetry.Snapshot
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	snapshot *telemetry.Snapshot
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival steps scaled by up to 20% for quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:  computeFitness(result.survivalSteps, quality),
				quality:  quality,
				snapshot: result.snapshot,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedSnapshot *telemetry.Snapshot

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedSnapshot = r.snapshot
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSnapshot = bestSeedSnapshot
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until the field dies out, saturates, or reaches maxSteps.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		// Parameters the engine rejects score as an immediate death.
		return result
	}
	defer g.Unload()

	cells := float64(cfg.Derived.Cells)
	minMass := cfg.Bookmarks.Extinction.MinMass
	maxFill := cfg.Bookmarks.Saturation.Fill

	for g.Step() < fe.maxSteps {
		g.UpdateHeadless()

		step := g.Step()
		if step < warmupSteps {
			continue
		}

		mass := g.Simulation().Stats().Mass
		if mass <= minMass || mass/cells >= maxFill {
			result.survivalSteps = step
			result.snapshot = g.Snapshot()
			return result
		}
	}

	result.survivalSteps = fe.maxSteps
	result.snapshot = g.Snapshot()
	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.KernelRings = slices.Clone(fe.baseConfig.KernelRings)
	cfg.GrowthPeaks = slices.Clone(fe.baseConfig.GrowthPeaks)
	cfg.Scene = slices.Clone(fe.baseConfig.Scene)
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalSteps × (1.0 + 0.2 × quality))
func computeFitness(survivalSteps int, quality float64) float64 {
	return -(float64(survivalSteps) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.6
	qualityWeightMotion    = 0.4

	qualityWarmupWindows = 2    // skip first N windows (warmup)
	qualityTargetSpeed   = 0.05 // cells per step that scores ~0.63
)

// computeQuality scores a run in [0, 1]: a steady mass and a moving
// centroid both point to a travelling soliton rather than a static blob or
// a turbulent soup.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	masses := make([]float64, len(valid))
	var speedSum float64
	for i, w := range valid {
		masses[i] = w.MassMean
		speedSum += w.MeanSpeed
	}

	stabilityScore := 0.0
	if len(masses) >= 2 {
		c := cv(masses)
		stabilityScore = math.Exp(-c * c * 25)
	}

	meanSpeed := speedSum / float64(len(valid))
	motionScore := 1 - math.Exp(-meanSpeed/qualityTargetSpeed)

	quality := qualityWeightStability*stabilityScore + qualityWeightMotion*motionScore
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(1, max(0, x))
}
