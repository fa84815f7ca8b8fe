package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/lenia/engine"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeMassStats(t *testing.T) {
	values := []float64{40, 10, 30, 20}
	s := ComputeMassStats(values)

	if s.Mean != 25 {
		t.Errorf("mean = %v, want 25", s.Mean)
	}
	// population std of 10,20,30,40
	if want := math.Sqrt(125); math.Abs(s.Std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", s.Std, want)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Errorf("range = [%v, %v], want [10, 40]", s.Min, s.Max)
	}
	if s.P50 != 25 {
		t.Errorf("p50 = %v, want 25", s.P50)
	}
	// input must not be reordered
	if values[0] != 40 {
		t.Error("ComputeMassStats sorted its input")
	}
}

func TestComputeMassStatsEmpty(t *testing.T) {
	if s := ComputeMassStats(nil); s != (MassStats{}) {
		t.Errorf("empty input = %+v, want zero", s)
	}
}

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(4, 100)

	steps := []engine.Stats{
		{Step: 1, Mass: 10, Velocity: 0},
		{Step: 2, Mass: 12, Velocity: 0.5},
		{Step: 3, Mass: 14, Velocity: 0.5},
		{Step: 4, Mass: 16, Velocity: 1, CenterX: 3, CenterY: 7},
	}
	for i, s := range steps {
		if c.ShouldFlush(s.Step) && i < len(steps)-1 {
			t.Fatalf("flush requested early at step %d", s.Step)
		}
		c.Record(s)
	}
	if !c.ShouldFlush(4) {
		t.Fatal("expected flush at step 4")
	}

	w := c.Flush()
	if w.WindowStartStep != 0 || w.WindowEndStep != 4 || w.Steps != 4 {
		t.Errorf("window = [%d, %d] with %d steps", w.WindowStartStep, w.WindowEndStep, w.Steps)
	}
	if w.Mass != 16 || w.Fill != 0.16 {
		t.Errorf("mass %v fill %v, want 16 and 0.16", w.Mass, w.Fill)
	}
	if w.CenterX != 3 || w.CenterY != 7 {
		t.Errorf("center = (%v, %v)", w.CenterX, w.CenterY)
	}
	if w.MassMean != 13 || w.MassMin != 10 || w.MassMax != 16 {
		t.Errorf("mass stats = %+v", w)
	}
	if w.Distance != 2 || w.MeanSpeed != 0.5 || w.MaxSpeed != 1 {
		t.Errorf("motion = distance %v mean %v max %v", w.Distance, w.MeanSpeed, w.MaxSpeed)
	}

	// Next window starts where this one ended
	if c.ShouldFlush(7) {
		t.Error("second window flushed early")
	}
	if !c.ShouldFlush(8) {
		t.Error("second window not flushed at step 8")
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(2, 10)
	c.Record(engine.Stats{Step: 1, Mass: 1})
	c.Record(engine.Stats{Step: 2, Mass: 1})
	c.Flush()
	c.Record(engine.Stats{Step: 3, Mass: 1})

	c.Reset()
	if c.ShouldFlush(1) {
		t.Error("window not restarted at step 0")
	}
	if w := c.Flush(); w.Steps != 0 || w.Mass != 0 {
		t.Errorf("reset collector flushed %+v", w)
	}
}

func TestCollectorStartAt(t *testing.T) {
	c := NewCollector(10, 10)
	c.Record(engine.Stats{Step: 4, Mass: 1})
	c.StartAt(500)
	if c.ShouldFlush(505) {
		t.Error("restored window flushed early")
	}
	if !c.ShouldFlush(510) {
		t.Error("restored window not flushed at step 510")
	}
}

func TestWindowStatsCV(t *testing.T) {
	if cv := (WindowStats{}).CV(); cv != 0 {
		t.Errorf("empty CV = %v", cv)
	}
	if cv := (WindowStats{MassMean: 10, MassStd: 1}).CV(); cv != 0.1 {
		t.Errorf("CV = %v, want 0.1", cv)
	}
}
