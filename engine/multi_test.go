package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/lenia/kernel"
)

func newTestMulti(t *testing.T, n int, opts ...Option) *Multi {
	t.Helper()
	m, err := NewMulti(n, DefaultParams(), DefaultSpread(), opts...)
	if err != nil {
		t.Fatalf("NewMulti(%d): %v", n, err)
	}
	return m
}

func TestMultiSpreadAtConstruction(t *testing.T) {
	m := newTestMulti(t, 32)
	base := DefaultParams()
	s := DefaultSpread()
	for i, p := range m.ChannelParams() {
		off := float64(i - 1)
		if p.R != base.R+off*s.R {
			t.Errorf("channel %d R = %v, want %v", i, p.R, base.R+off*s.R)
		}
		if p.Mu != base.Mu+off*s.Mu {
			t.Errorf("channel %d mu = %v", i, p.Mu)
		}
		if p.Sigma != base.Sigma+off*s.Sigma {
			t.Errorf("channel %d sigma = %v", i, p.Sigma)
		}
		if p.DT != base.DT {
			t.Errorf("channel %d dt = %v, want %v", i, p.DT, base.DT)
		}
	}
	if m.ChannelParams()[1] != base {
		t.Errorf("middle channel = %+v, want the common record", m.ChannelParams()[1])
	}
}

func TestMultiSetParamsSpreadsRadius(t *testing.T) {
	m := newTestMulti(t, 64)
	if err := m.SetParams(Update{R: Float(10)}); err != nil {
		t.Fatal(err)
	}
	want := [Channels]float64{8, 10, 12}
	for i, p := range m.ChannelParams() {
		if p.R != want[i] {
			t.Errorf("channel %d R = %v, want %v", i, p.R, want[i])
		}
	}
	if m.Params().R != 10 {
		t.Errorf("common R = %v, want 10", m.Params().R)
	}
}

func TestMultiSetParamsSharedFields(t *testing.T) {
	m := newTestMulti(t, 32)
	if err := m.SetParams(Update{DT: Float(0.05), KernelSigma: Float(0.2)}); err != nil {
		t.Fatal(err)
	}
	for i, p := range m.ChannelParams() {
		if p.DT != 0.05 || p.KernelSigma != 0.2 {
			t.Errorf("channel %d = %+v, want dt 0.05 kernelSigma 0.2", i, p)
		}
	}
}

func TestMultiSetParamsAtomic(t *testing.T) {
	m := newTestMulti(t, 32)
	before := m.ChannelParams()
	k2 := m.channels[2].Kernel()

	// Channel 0 would get R = -0.5
	err := m.SetParams(Update{R: Float(1.5)})
	if !errors.Is(err, kernel.ErrZeroMass) {
		t.Fatalf("expected ErrZeroMass, got %v", err)
	}
	if m.ChannelParams() != before {
		t.Errorf("channel params changed on failed update")
	}
	if m.Params() != DefaultParams() {
		t.Errorf("common params changed on failed update")
	}
	got := m.channels[2].Kernel()
	for i := range k2 {
		if got[i] != k2[i] {
			t.Fatalf("channel 2 kernel rebuilt on failed update")
		}
	}
}

func TestMultiChannelIndex(t *testing.T) {
	m := newTestMulti(t, 16)
	for _, i := range []int{-1, Channels} {
		if _, err := m.Channel(i); !errors.Is(err, ErrChannel) {
			t.Errorf("Channel(%d): expected ErrChannel, got %v", i, err)
		}
		if err := m.SetChannelParams(i, Update{}); !errors.Is(err, ErrChannel) {
			t.Errorf("SetChannelParams(%d): expected ErrChannel, got %v", i, err)
		}
	}
	if err := m.SetChannelParams(2, Update{Mu: Float(0.3)}); err != nil {
		t.Fatal(err)
	}
	if got := m.ChannelParams()[2].Mu; got != 0.3 {
		t.Errorf("channel 2 mu = %v, want 0.3 without spread", got)
	}
}

func TestMultiDrawOffsets(t *testing.T) {
	m := newTestMulti(t, 16)
	m.DrawCircle(8, 8, 0, 1)
	for i := 0; i < Channels; i++ {
		ch, _ := m.Channel(i)
		off := i - 1
		if ch.Value(8+off, 8+off) != 1 {
			t.Errorf("channel %d missing circle at offset %d", i, off)
		}
	}

	m.Clear()
	p := Pattern{Width: 1, Height: 1, Cells: []float64{0.5}}
	if err := m.PlacePattern(p, 8, 8, 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < Channels; i++ {
		ch, _ := m.Channel(i)
		off := 2 * (i - 1)
		if ch.Value(8+off, 8+off) != 0.5 {
			t.Errorf("channel %d missing pattern at offset %d", i, off)
		}
	}

	if err := m.PlacePattern(Pattern{Width: 2, Height: 2}, 0, 0, 1); !errors.Is(err, ErrPatternShape) {
		t.Errorf("expected ErrPatternShape, got %v", err)
	}
}

func TestMultiValues(t *testing.T) {
	m := newTestMulti(t, 8)
	m.SetValue(-1, 0, [Channels]float64{0.1, 2, -1})
	got := m.Value(7, 0)
	if got != [Channels]float64{0.1, 1, 0} {
		t.Errorf("Value = %v", got)
	}
}

func TestMultiCombinedMass(t *testing.T) {
	m := newTestMulti(t, 64, WithSeed(11))
	m.Randomize(0.5, 0.4)
	m.Run(5)

	var sum float64
	for i := 0; i < Channels; i++ {
		ch, _ := m.Channel(i)
		sum += ch.Stats().Mass
	}
	want := sum / Channels
	if got := m.Stats().Mass; math.Abs(got-want) > 1e-9*math.Max(1, want) {
		t.Errorf("combined mass = %v, want %v", got, want)
	}
	if m.Stats().Step != 5 {
		t.Errorf("step = %d, want 5", m.Stats().Step)
	}
	for _, f := range m.State() {
		checkClamped(t, f)
	}
}

func TestMultiParallelMatchesSequential(t *testing.T) {
	seq := newTestMulti(t, 64, WithSeed(4))
	par := newTestMulti(t, 64, WithSeed(4), WithParallel(true))
	seq.Randomize(0.5, 0.4)
	par.Randomize(0.5, 0.4)
	seq.Run(4)
	par.Run(4)

	a, b := seq.State(), par.State()
	for c := 0; c < Channels; c++ {
		for i := range a[c] {
			if a[c][i] != b[c][i] {
				t.Fatalf("channel %d cell %d: sequential %v, parallel %v", c, i, a[c][i], b[c][i])
			}
		}
	}
	if seq.Stats() != par.Stats() {
		t.Errorf("stats differ: %+v vs %+v", seq.Stats(), par.Stats())
	}
}

func TestMultiSetState(t *testing.T) {
	m := newTestMulti(t, 8)
	var fields [Channels][]float64
	for i := range fields {
		fields[i] = make([]float64, 64)
	}
	fields[2] = fields[2][:10]
	if err := m.SetState(fields); !errors.Is(err, ErrStateLength) {
		t.Fatalf("expected ErrStateLength, got %v", err)
	}

	fields[2] = make([]float64, 64)
	fields[0][0] = 0.5
	if err := m.SetState(fields); err != nil {
		t.Fatal(err)
	}
	if m.Value(0, 0)[0] != 0.5 {
		t.Errorf("channel 0 not written")
	}
}

func TestMultiExportImport(t *testing.T) {
	src := newTestMulti(t, 32, WithSeed(2))
	src.Randomize(0.5, 0.4)
	if err := src.SetParams(Update{R: Float(8)}); err != nil {
		t.Fatal(err)
	}
	src.Run(2)
	cfg := src.ExportConfig()

	dst := newTestMulti(t, 32)
	if err := dst.ImportConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if dst.ChannelParams() != src.ChannelParams() {
		t.Errorf("params = %+v, want %+v", dst.ChannelParams(), src.ChannelParams())
	}
	if dst.Params().R != 8 {
		t.Errorf("common R = %v, want 8", dst.Params().R)
	}
	if dst.Stats() != src.Stats() {
		t.Errorf("stats = %+v, want %+v", dst.Stats(), src.Stats())
	}

	// Export is a copy
	cfg.State[0][0] = 0.123
	if src.State()[0][0] == 0.123 {
		t.Error("export shares state with engine")
	}

	small := newTestMulti(t, 16)
	if err := small.ImportConfig(cfg); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}
