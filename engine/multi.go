package engine

import (
	"fmt"
	"sync"

	"github.com/pthm-cable/lenia/spectral"
)

// Channels is the number of fields in a Multi (conventionally R, G, B).
const Channels = 3

// Spread offsets per-channel parameters from a common record: channel i
// receives value + (i-1)·offset, so channel 1 gets the literal value and
// channels 0 and 2 sit symmetrically around it. Saved parameter sets depend
// on this arithmetic.
type Spread struct {
	R     float64 `json:"R" yaml:"r"`
	Mu    float64 `json:"mu" yaml:"mu"`
	Sigma float64 `json:"sigma" yaml:"sigma"`
}

// DefaultSpread returns the standard channel offsets.
func DefaultSpread() Spread {
	return Spread{R: 2, Mu: 0.005, Sigma: 0.001}
}

// Multi runs three independent Lenia channels. The channels share one
// transform and scratch pair when stepped sequentially; with WithParallel
// each channel owns its own and they step concurrently.
type Multi struct {
	n        int
	channels [Channels]*Engine
	common   Params
	spread   Spread
	parallel bool
	recorder PhaseRecorder
	tracker  tracker
	fields   [][]float64
}

// NewMulti creates a three-channel engine. Channel i is built from common
// with the spread applied.
func NewMulti(n int, common Params, spread Spread, opts ...Option) (*Multi, error) {
	o := buildOptions(opts)

	chanOpts := append([]Option(nil), opts...)
	chanOpts = append(chanOpts, WithRand(o.rng))
	if o.parallel {
		// Concurrent channels must not share a phase recorder
		chanOpts = append(chanOpts, WithPhaseRecorder(nil))
	} else {
		fft, err := spectral.NewFFT(n)
		if err != nil {
			return nil, err
		}
		chanOpts = append(chanOpts, withTransform(fft, make([]float64, n*n), make([]float64, n*n)))
	}

	m := &Multi{
		n:        n,
		common:   common,
		spread:   spread,
		parallel: o.parallel,
		recorder: o.recorder,
		fields:   make([][]float64, Channels),
	}
	for i := range m.channels {
		ch, err := New(n, spreadParams(common, spread, i), chanOpts...)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		m.channels[i] = ch
	}
	return m, nil
}

func spreadParams(common Params, s Spread, i int) Params {
	off := float64(i - 1)
	p := common
	p.R += off * s.R
	p.Mu += off * s.Mu
	p.Sigma += off * s.Sigma
	return p
}

// Size returns the grid side length N.
func (m *Multi) Size() int {
	return m.n
}

// Step advances every channel once, then measures the channel-averaged field.
func (m *Multi) Step() {
	if m.parallel {
		m.phase(PhaseChannels)
		var wg sync.WaitGroup
		for _, ch := range m.channels {
			wg.Add(1)
			go func(ch *Engine) {
				defer wg.Done()
				ch.Step()
			}(ch)
		}
		wg.Wait()
	} else {
		for _, ch := range m.channels {
			ch.Step()
		}
	}

	m.phase(PhaseStats)
	m.tracker.observeMean(m.n, m.views())
}

// Run calls Step the given number of times.
func (m *Multi) Run(steps int) {
	for i := 0; i < steps; i++ {
		m.Step()
	}
}

func (m *Multi) views() [][]float64 {
	for i, ch := range m.channels {
		m.fields[i] = ch.state
	}
	return m.fields
}

// Channel returns the engine for channel i.
func (m *Multi) Channel(i int) (*Engine, error) {
	if i < 0 || i >= Channels {
		return nil, fmt.Errorf("%w: %d", ErrChannel, i)
	}
	return m.channels[i], nil
}

// Params returns the common parameter record last applied.
func (m *Multi) Params() Params {
	return m.common
}

// Spread returns the channel offsets.
func (m *Multi) Spread() Spread {
	return m.spread
}

// ChannelParams returns each channel's effective parameters.
func (m *Multi) ChannelParams() [Channels]Params {
	var out [Channels]Params
	for i, ch := range m.channels {
		out[i] = ch.params
	}
	return out
}

// SetParams applies a common update. R, Mu and Sigma are spread across
// channels; DT, KernelMu and KernelSigma reach every channel unchanged. On
// error no channel is modified.
func (m *Multi) SetParams(u Update) error {
	var pending [Channels]rebuild
	for i, ch := range m.channels {
		r, err := ch.prepare(ch.params.Apply(channelUpdate(u, m.spread, i)))
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		pending[i] = r
	}
	for i, ch := range m.channels {
		ch.commit(pending[i])
	}
	m.common = m.common.Apply(u)
	return nil
}

func channelUpdate(u Update, s Spread, i int) Update {
	off := float64(i - 1)
	cu := u
	if u.R != nil {
		cu.R = Float(*u.R + off*s.R)
	}
	if u.Mu != nil {
		cu.Mu = Float(*u.Mu + off*s.Mu)
	}
	if u.Sigma != nil {
		cu.Sigma = Float(*u.Sigma + off*s.Sigma)
	}
	return cu
}

// SetChannelParams updates a single channel without spreading.
func (m *Multi) SetChannelParams(i int, u Update) error {
	ch, err := m.Channel(i)
	if err != nil {
		return err
	}
	return ch.SetParams(u)
}

// Stats returns statistics of the channel-averaged field.
func (m *Multi) Stats() Stats {
	return m.tracker.stats
}

// State returns the live field buffers of every channel.
func (m *Multi) State() [Channels][]float64 {
	var out [Channels][]float64
	for i, ch := range m.channels {
		out[i] = ch.state
	}
	return out
}

// SetState overwrites every channel's field. All lengths are checked before
// anything is written.
func (m *Multi) SetState(fields [Channels][]float64) error {
	for i, f := range fields {
		if len(f) != m.n*m.n {
			return fmt.Errorf("channel %d: %w: got %d, want %d", i, ErrStateLength, len(f), m.n*m.n)
		}
	}
	for i, ch := range m.channels {
		// Lengths already verified
		_ = ch.SetState(fields[i])
	}
	return nil
}

// Clear zeroes every channel and resets statistics.
func (m *Multi) Clear() {
	for _, ch := range m.channels {
		ch.Clear()
	}
	m.tracker.reset()
}

// Randomize clears and independently randomizes every channel.
func (m *Multi) Randomize(density, radius float64) {
	for _, ch := range m.channels {
		ch.Randomize(density, radius)
	}
	m.tracker.reset()
}

// DrawCircle draws on every channel, offsetting channel i by (i-1) cells on
// both axes.
func (m *Multi) DrawCircle(x, y int, radius, value float64) {
	for i, ch := range m.channels {
		off := i - 1
		ch.DrawCircle(x+off, y+off, radius, value)
	}
}

// PlacePattern places p on every channel, offsetting channel i by 2·(i-1)
// cells on both axes.
func (m *Multi) PlacePattern(p Pattern, x, y int, scale float64) error {
	if err := p.validate(); err != nil {
		return err
	}
	for i, ch := range m.channels {
		off := 2 * (i - 1)
		if err := ch.PlacePattern(p, x+off, y+off, scale); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the cell at (x, y) on every channel.
func (m *Multi) Value(x, y int) [Channels]float64 {
	var out [Channels]float64
	for i, ch := range m.channels {
		out[i] = ch.Value(x, y)
	}
	return out
}

// SetValue sets the cell at (x, y) on every channel.
func (m *Multi) SetValue(x, y int, values [Channels]float64) {
	for i, ch := range m.channels {
		ch.SetValue(x, y, values[i])
	}
}

// MultiExport is the interchange record for a Multi.
type MultiExport struct {
	Size   int                 `json:"size"`
	Params [Channels]Params    `json:"params"`
	State  [Channels][]float64 `json:"state"`
	Stats  Stats               `json:"stats"`
}

// ExportConfig copies size, per-channel parameters and fields, and the
// combined statistics.
func (m *Multi) ExportConfig() MultiExport {
	out := MultiExport{
		Size:   m.n,
		Params: m.ChannelParams(),
		Stats:  m.tracker.stats,
	}
	for i, ch := range m.channels {
		out.State[i] = append([]float64(nil), ch.state...)
	}
	return out
}

// ImportConfig overwrites every channel from cfg. It fails with
// ErrSizeMismatch on a size mismatch and leaves the engine untouched on any
// error. The common record becomes channel 1's parameters.
func (m *Multi) ImportConfig(cfg MultiExport) error {
	if cfg.Size != m.n {
		return fmt.Errorf("%w: config is %d, engine is %d", ErrSizeMismatch, cfg.Size, m.n)
	}
	for i, f := range cfg.State {
		if len(f) != m.n*m.n {
			return fmt.Errorf("channel %d: %w: got %d, want %d", i, ErrStateLength, len(f), m.n*m.n)
		}
	}

	var pending [Channels]rebuild
	for i, ch := range m.channels {
		r, err := ch.prepare(cfg.Params[i])
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		pending[i] = r
	}
	for i, ch := range m.channels {
		ch.commit(pending[i])
		for j, v := range cfg.State[i] {
			ch.state[j] = clamp01(v)
		}
	}
	m.common = cfg.Params[1]
	m.tracker.restore(cfg.Stats)
	return nil
}

func (m *Multi) phase(name string) {
	if m.recorder != nil {
		m.recorder.StartPhase(name)
	}
}
