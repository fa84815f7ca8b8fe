package telemetry

import "github.com/pthm-cable/lenia/engine"

// Collector accumulates per-step statistics within windows and produces
// WindowStats.
type Collector struct {
	windowSteps int
	cells       int

	// Current window tracking
	windowStartStep int
	masses          []float64
	speeds          []float64
	last            engine.Stats
}

// NewCollector creates a new stats collector.
// windowSteps: engine steps per window
// cells: grid cell count, used to report fill
func NewCollector(windowSteps, cells int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	if cells < 1 {
		cells = 1
	}
	return &Collector{
		windowSteps: windowSteps,
		cells:       cells,
		masses:      make([]float64, 0, windowSteps),
		speeds:      make([]float64, 0, windowSteps),
	}
}

// Record adds one step's statistics to the current window.
func (c *Collector) Record(s engine.Stats) {
	c.masses = append(c.masses, s.Mass)
	c.speeds = append(c.speeds, s.Velocity)
	c.last = s
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStartStep >= c.windowSteps
}

// Flush produces a WindowStats from the recorded samples and starts a new
// window at the last recorded step.
func (c *Collector) Flush() WindowStats {
	ms := ComputeMassStats(c.masses)

	var distance, maxSpeed float64
	for _, v := range c.speeds {
		distance += v
		maxSpeed = max(maxSpeed, v)
	}
	var meanSpeed float64
	if len(c.speeds) > 0 {
		meanSpeed = distance / float64(len(c.speeds))
	}

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   c.last.Step,
		Steps:           len(c.masses),

		Mass:    c.last.Mass,
		Fill:    c.last.Mass / float64(c.cells),
		CenterX: c.last.CenterX,
		CenterY: c.last.CenterY,

		MassMean: ms.Mean,
		MassStd:  ms.Std,
		MassMin:  ms.Min,
		MassMax:  ms.Max,
		MassP10:  ms.P10,
		MassP50:  ms.P50,
		MassP90:  ms.P90,

		MeanSpeed: meanSpeed,
		MaxSpeed:  maxSpeed,
		Distance:  distance,
	}

	// Reset for next window
	c.windowStartStep = c.last.Step
	c.masses = c.masses[:0]
	c.speeds = c.speeds[:0]

	return stats
}

// Reset discards the current window. Call after the engine's step counter
// is reset by Clear or Randomize.
func (c *Collector) Reset() {
	c.windowStartStep = 0
	c.masses = c.masses[:0]
	c.speeds = c.speeds[:0]
	c.last = engine.Stats{}
}

// StartAt discards the current window and opens a new one at step, for
// engines restored mid-run.
func (c *Collector) StartAt(step int) {
	c.Reset()
	c.windowStartStep = step
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}
