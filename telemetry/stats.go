// Package telemetry aggregates per-step engine statistics into windows,
// times step phases, detects notable moments and writes experiment output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of steps.
type WindowStats struct {
	WindowStartStep int `csv:"-"`
	WindowEndStep   int `csv:"window_end"`
	Steps           int `csv:"steps"`

	// Field state at window end
	Mass    float64 `csv:"mass"`
	Fill    float64 `csv:"fill"` // mass per cell
	CenterX float64 `csv:"center_x"`
	CenterY float64 `csv:"center_y"`

	// Mass distribution over the window
	MassMean float64 `csv:"mass_mean"`
	MassStd  float64 `csv:"mass_std"`
	MassMin  float64 `csv:"mass_min"`
	MassMax  float64 `csv:"mass_max"`
	MassP10  float64 `csv:"mass_p10"`
	MassP50  float64 `csv:"mass_p50"`
	MassP90  float64 `csv:"mass_p90"`

	// Centroid motion
	MeanSpeed float64 `csv:"mean_speed"`
	MaxSpeed  float64 `csv:"max_speed"`
	Distance  float64 `csv:"distance"` // path length travelled
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// MassStats summarizes a series of mass samples.
type MassStats struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// ComputeMassStats calculates mean, population standard deviation, range
// and percentiles of values.
func ComputeMassStats(values []float64) MassStats {
	if len(values) == 0 {
		return MassStats{}
	}

	var s MassStats
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

// CV returns the coefficient of variation of window mass, or 0 when the
// window held no mass.
func (s WindowStats) CV() float64 {
	if s.MassMean <= 0 {
		return 0
	}
	return s.MassStd / s.MassMean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Int("steps", s.Steps),
		slog.Float64("mass", s.Mass),
		slog.Float64("fill", s.Fill),
		slog.Float64("center_x", s.CenterX),
		slog.Float64("center_y", s.CenterY),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("mass_std", s.MassStd),
		slog.Float64("mass_min", s.MassMin),
		slog.Float64("mass_max", s.MassMax),
		slog.Float64("mass_p10", s.MassP10),
		slog.Float64("mass_p50", s.MassP50),
		slog.Float64("mass_p90", s.MassP90),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("distance", s.Distance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"mass", s.Mass,
		"fill", s.Fill,
		"center_x", s.CenterX,
		"center_y", s.CenterY,
		"mass_mean", s.MassMean,
		"mass_std", s.MassStd,
		"mass_p10", s.MassP10,
		"mass_p50", s.MassP50,
		"mass_p90", s.MassP90,
		"mean_speed", s.MeanSpeed,
		"distance", s.Distance,
	)
}
