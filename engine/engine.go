// Package engine runs the Lenia update rule on a toroidal grid: spectral
// convolution with a ring kernel, quantized growth lookup, and an explicit
// Euler step clipped to [0,1].
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/lenia/growth"
	"github.com/pthm-cable/lenia/kernel"
	"github.com/pthm-cable/lenia/spectral"
)

var (
	// ErrSizeMismatch is returned when imported data was made for another grid size.
	ErrSizeMismatch = errors.New("engine: grid size mismatch")
	// ErrStateLength is returned when a state buffer does not hold N² cells.
	ErrStateLength = errors.New("engine: state length mismatch")
	// ErrChannel is returned for a channel index outside [0, Channels).
	ErrChannel = errors.New("engine: channel out of range")
)

// Engine is a single-channel Lenia simulation. It is not safe for
// concurrent use; callers pace Step themselves.
type Engine struct {
	n int

	fft    *spectral.FFT
	re, im []float64 // transform scratch, possibly shared with sibling channels

	// Double buffer: state is read during growth, next is written, then swapped
	state []float64
	next  []float64

	params   Params
	kernel   []float64
	spectrum kernel.Spectrum
	table    growth.Table

	resolution int
	rings      []kernel.Ring
	peaks      []growth.Peak

	rng      *rand.Rand
	recorder PhaseRecorder
	tracker  tracker
}

// New creates an engine for an n×n grid and builds its kernel and growth
// table. n must be a power of two and p must yield a kernel with positive
// mass.
func New(n int, p Params, opts ...Option) (*Engine, error) {
	o := buildOptions(opts)

	fft := o.fft
	if fft == nil {
		var err error
		fft, err = spectral.NewFFT(n)
		if err != nil {
			return nil, err
		}
	} else if fft.Size() != n {
		return nil, fmt.Errorf("%w: shared transform is %d, grid is %d", ErrSizeMismatch, fft.Size(), n)
	}

	re, im := o.re, o.im
	if re == nil || im == nil {
		re = make([]float64, n*n)
		im = make([]float64, n*n)
	}

	e := &Engine{
		n:          n,
		fft:        fft,
		re:         re,
		im:         im,
		state:      make([]float64, n*n),
		next:       make([]float64, n*n),
		resolution: o.resolution,
		rings:      o.rings,
		peaks:      o.peaks,
		rng:        o.rng,
		recorder:   o.recorder,
	}

	k, spec, err := e.buildKernel(p)
	if err != nil {
		return nil, err
	}
	e.kernel = k
	e.spectrum = spec
	e.table = e.buildTable(p)
	e.params = p

	return e, nil
}

// Size returns the grid side length N.
func (e *Engine) Size() int {
	return e.n
}

// Step advances the field by one time step.
func (e *Engine) Step() {
	e.convolve()

	e.phase(PhaseGrowth)
	dt := e.params.DT
	for i, u := range e.re {
		e.next[i] = clamp01(e.state[i] + dt*e.table.Lookup(u))
	}
	e.state, e.next = e.next, e.state

	e.phase(PhaseStats)
	e.tracker.observe(e.n, e.state)
}

// Run calls Step the given number of times.
func (e *Engine) Run(steps int) {
	for i := 0; i < steps; i++ {
		e.Step()
	}
}

// convolve leaves the potential field U = state ⊛ kernel in e.re.
func (e *Engine) convolve() {
	e.phase(PhaseForward)
	copy(e.re, e.state)
	clear(e.im)
	e.fft.Forward(e.re, e.im)

	// (a+bi)(c+di) = (ac-bd) + (ad+bc)i
	e.phase(PhaseMultiply)
	kr, ki := e.spectrum.Re, e.spectrum.Im
	for i := range e.re {
		a, b := e.re[i], e.im[i]
		c, d := kr[i], ki[i]
		e.re[i] = a*c - b*d
		e.im[i] = a*d + b*c
	}

	e.phase(PhaseInverse)
	e.fft.Inverse(e.re, e.im)
}

// Potential returns a copy of the current potential field U without
// advancing the simulation.
func (e *Engine) Potential() []float64 {
	e.convolve()
	return append([]float64(nil), e.re...)
}

// State returns the live field buffer. It is swapped on the next Step;
// copy it to retain values across steps.
func (e *Engine) State() []float64 {
	return e.state
}

// SetState overwrites the field, clipping every value into [0,1].
func (e *Engine) SetState(field []float64) error {
	if len(field) != e.n*e.n {
		return fmt.Errorf("%w: got %d, want %d", ErrStateLength, len(field), e.n*e.n)
	}
	for i, v := range field {
		e.state[i] = clamp01(v)
	}
	return nil
}

// Params returns the current parameter record.
func (e *Engine) Params() Params {
	return e.params
}

// Stats returns the statistics from the most recent step.
func (e *Engine) Stats() Stats {
	return e.tracker.stats
}

// Kernel returns a copy of the centered spatial kernel.
func (e *Engine) Kernel() []float64 {
	return append([]float64(nil), e.kernel...)
}

// Spectrum returns the cached kernel transform. The slices are shared with
// the engine and must not be modified.
func (e *Engine) Spectrum() kernel.Spectrum {
	return e.spectrum
}

// GrowthTable returns the cached growth table. It is shared with the engine
// and must not be modified.
func (e *Engine) GrowthTable() growth.Table {
	return e.table
}

// SetParams merges u into the parameters. The kernel and its transform are
// rebuilt only if R, KernelMu or KernelSigma changed value, and the growth
// table only if Mu or Sigma changed. On error the engine is unchanged.
func (e *Engine) SetParams(u Update) error {
	pending, err := e.prepare(e.params.Apply(u))
	if err != nil {
		return err
	}
	e.commit(pending)
	return nil
}

// rebuild carries the result of a parameter change until it is committed.
type rebuild struct {
	params   Params
	kernel   []float64 // nil if unchanged
	spectrum kernel.Spectrum
	table    growth.Table // nil if unchanged
}

func (e *Engine) prepare(next Params) (rebuild, error) {
	r := rebuild{params: next}
	kernelDirty, tableDirty := dirty(e.params, next)
	if kernelDirty {
		k, spec, err := e.buildKernel(next)
		if err != nil {
			return rebuild{}, err
		}
		r.kernel = k
		r.spectrum = spec
	}
	if tableDirty {
		r.table = e.buildTable(next)
	}
	return r, nil
}

func (e *Engine) commit(r rebuild) {
	e.params = r.params
	if r.kernel != nil {
		e.kernel = r.kernel
		e.spectrum = r.spectrum
	}
	if r.table != nil {
		e.table = r.table
	}
}

func (e *Engine) buildKernel(p Params) ([]float64, kernel.Spectrum, error) {
	var (
		k   []float64
		err error
	)
	if len(e.rings) > 0 {
		k, err = kernel.GenerateComposite(e.n, p.R, p.KernelMu, p.KernelSigma, e.rings)
	} else {
		k, err = kernel.Generate(e.n, p.R, p.KernelMu, p.KernelSigma)
	}
	if err != nil {
		return nil, kernel.Spectrum{}, fmt.Errorf("building kernel: %w", err)
	}
	return k, kernel.Precompute(e.fft, k), nil
}

func (e *Engine) buildTable(p Params) growth.Table {
	if len(e.peaks) > 0 {
		peaks := append([]growth.Peak(nil), e.peaks...)
		peaks[0].Mu = p.Mu
		peaks[0].Sigma = p.Sigma
		return growth.NewMultiPeakTable(peaks, e.resolution)
	}
	return growth.NewTable(p.Mu, p.Sigma, e.resolution)
}

func (e *Engine) phase(name string) {
	if e.recorder != nil {
		e.recorder.StartPhase(name)
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) { // also maps NaN to 0
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrap maps a coordinate onto [0, n).
func wrap(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
