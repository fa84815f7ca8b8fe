package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/lenia/components"
	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
)

func TestPatterns(t *testing.T) {
	tests := []struct {
		name string
		p    engine.Pattern
		side int
	}{
		{"blob", GaussianBlob(5, 0.8), 11},
		{"ring", Ring(5, 0.8), 11},
		{"noise", NoiseDisc(5, 0.8, 1), 11},
		{"fractional radius", GaussianBlob(2.5, 1), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.Width != tt.side || tt.p.Height != tt.side || len(tt.p.Cells) != tt.side*tt.side {
				t.Fatalf("pattern is %dx%d with %d cells, want side %d", tt.p.Width, tt.p.Height, len(tt.p.Cells), tt.side)
			}
			var mass float64
			for i, v := range tt.p.Cells {
				if v < 0 || v > 1 {
					t.Fatalf("cell %d = %v outside [0,1]", i, v)
				}
				mass += v
			}
			if mass == 0 {
				t.Error("pattern is empty")
			}
			// corners lie outside the disc
			if tt.p.At(0, 0) != 0 {
				t.Errorf("corner = %v, want 0", tt.p.At(0, 0))
			}
		})
	}
}

func TestGaussianBlobPeak(t *testing.T) {
	p := GaussianBlob(4, 0.8)
	if got := p.At(4, 4); got != 0.8 {
		t.Errorf("center = %v, want 0.8", got)
	}
	if p.At(5, 4) >= p.At(4, 4) {
		t.Error("blob does not fall off from center")
	}
}

func TestRingPeaksAtHalfRadius(t *testing.T) {
	p := Ring(10, 1)
	center, mid := p.At(10, 10), p.At(15, 10)
	if mid != 1 {
		t.Errorf("ring at half radius = %v, want 1", mid)
	}
	if center >= mid {
		t.Errorf("ring center %v not below ridge %v", center, mid)
	}
}

func TestNoiseDiscDeterministic(t *testing.T) {
	a, b := NoiseDisc(6, 1, 3), NoiseDisc(6, 1, 3)
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("cell %d differs for equal seeds", i)
		}
	}
}

func TestBuildPatternErrors(t *testing.T) {
	if _, err := BuildPattern(components.Stamp{Kind: components.PatternBlob}); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := BuildPattern(components.Stamp{Kind: 99, Radius: 2}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPerlinFBMRange(t *testing.T) {
	n := NewPerlinNoise(9)
	for y := 0.0; y < 4; y += 0.37 {
		for x := 0.0; x < 4; x += 0.29 {
			if v := n.FBM(x, y, 4); v < 0 || v > 1 {
				t.Fatalf("FBM(%v,%v) = %v outside [0,1]", x, y, v)
			}
		}
	}
	// lattice points are zero in every octave
	if v := n.Noise2D(3, 7); v != 0 {
		t.Errorf("Noise2D at lattice = %v, want 0", v)
	}
}

func fieldMass(field []float64) float64 {
	var m float64
	for _, v := range field {
		m += v
	}
	return m
}

func TestSceneApplySingle(t *testing.T) {
	e, err := engine.New(64, engine.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	s := NewScene()
	s.AddStamp(components.Placement{X: 0.5, Y: 0.5}, components.Stamp{Kind: components.PatternBlob, Radius: 4, Peak: 0.5, Scale: 1}, components.Channels{})
	brush := s.AddBrush(components.Placement{X: 0.25, Y: 0.25}, components.Brush{Radius: 2, Value: 1}, components.Channels{})
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	if err := s.Apply(e); err != nil {
		t.Fatal(err)
	}
	if got := e.Value(32, 32); got != 0.5 {
		t.Errorf("blob center = %v, want 0.5", got)
	}
	if got := e.Value(16, 16); got != 1 {
		t.Errorf("brush center = %v, want 1", got)
	}

	s.Remove(brush)
	s.Remove(brush)
	if s.Len() != 1 {
		t.Errorf("len after remove = %d, want 1", s.Len())
	}
	e.Clear()
	if err := s.Apply(e); err != nil {
		t.Fatal(err)
	}
	if got := e.Value(16, 16); got != 0 {
		t.Errorf("removed brush still painted: %v", got)
	}
}

func TestSceneApplyMultiChannels(t *testing.T) {
	m, err := engine.NewMulti(32, engine.DefaultParams(), engine.DefaultSpread())
	if err != nil {
		t.Fatal(err)
	}

	s := NewScene()
	s.AddBrush(components.Placement{X: 0.5, Y: 0.5}, components.Brush{Radius: 1, Value: 1}, components.MaskOf(2))
	if err := s.Apply(m); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < engine.Channels; i++ {
		ch, _ := m.Channel(i)
		mass := fieldMass(ch.State())
		if i == 2 && mass == 0 {
			t.Error("selected channel not painted")
		}
		if i != 2 && mass != 0 {
			t.Errorf("channel %d painted with mask for channel 2", i)
		}
	}

	// Unmasked entities use the engine's own offsets
	m.Clear()
	all := NewScene()
	all.AddBrush(components.Placement{X: 0.5, Y: 0.5}, components.Brush{Radius: 0, Value: 1}, components.Channels{})
	if err := all.Apply(m); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < engine.Channels; i++ {
		ch, _ := m.Channel(i)
		if ch.Value(16+i-1, 16+i-1) != 1 {
			t.Errorf("channel %d missing offset brush", i)
		}
	}
}

func TestNewSceneFromConfig(t *testing.T) {
	cfg := config.Defaults()
	s, err := NewSceneFromConfig(cfg.Scene, cfg.Grid.Seed)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != len(cfg.Scene) {
		t.Errorf("len = %d, want %d", s.Len(), len(cfg.Scene))
	}

	e, err := engine.New(64, engine.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(e); err != nil {
		t.Fatal(err)
	}
	if math.Abs(fieldMass(e.State())) == 0 {
		t.Error("default scene painted nothing")
	}

	bad := []config.PlacementConfig{{Kind: "glider", Radius: 3}}
	if _, err := NewSceneFromConfig(bad, 0); err == nil {
		t.Error("expected error for unknown kind")
	}
	zero := []config.PlacementConfig{{Kind: "blob"}}
	if _, err := NewSceneFromConfig(zero, 0); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestChannelsMask(t *testing.T) {
	all := components.Channels{}
	for i := 0; i < engine.Channels; i++ {
		if !all.Has(i) {
			t.Errorf("zero mask excludes channel %d", i)
		}
	}
	m := components.MaskOf(0, 2, 9)
	if !m.Has(0) || m.Has(1) || !m.Has(2) {
		t.Errorf("mask %08b", m.Mask)
	}
}
