package engine

import (
	"math/rand"

	"github.com/pthm-cable/lenia/growth"
	"github.com/pthm-cable/lenia/kernel"
	"github.com/pthm-cable/lenia/spectral"
)

// Phase names reported to a PhaseRecorder during Step.
const (
	PhaseForward  = "fft_forward"
	PhaseMultiply = "spectral_multiply"
	PhaseInverse  = "fft_inverse"
	PhaseGrowth   = "growth"
	PhaseStats    = "stats"
	PhaseChannels = "channels" // parallel multi-channel stepping
)

// PhaseRecorder receives phase boundaries while a step runs.
type PhaseRecorder interface {
	StartPhase(phase string)
}

type options struct {
	rng        *rand.Rand
	resolution int
	recorder   PhaseRecorder
	rings      []kernel.Ring
	peaks      []growth.Peak
	parallel   bool

	// Shared transform and scratch, set by Multi for sequential channels
	fft    *spectral.FFT
	re, im []float64
}

// Option configures an Engine or Multi.
type Option func(*options)

// WithRand sets the random source used by Randomize.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSeed seeds a private random source for Randomize.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTableResolution sets the growth table resolution.
func WithTableResolution(n int) Option {
	return func(o *options) {
		o.resolution = n
	}
}

// WithPhaseRecorder reports step phases to r.
func WithPhaseRecorder(r PhaseRecorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithKernelRings replaces the single ring kernel with a weighted blend of
// rings at scaled radii. KernelMu and KernelSigma shape every ring.
func WithKernelRings(rings []kernel.Ring) Option {
	return func(o *options) {
		o.rings = append([]kernel.Ring(nil), rings...)
	}
}

// WithGrowthPeaks builds the growth table from several weighted peaks.
// The first peak tracks Mu and Sigma; the rest are fixed.
func WithGrowthPeaks(peaks []growth.Peak) Option {
	return func(o *options) {
		o.peaks = append([]growth.Peak(nil), peaks...)
	}
}

// WithParallel steps the channels of a Multi concurrently, each with its own
// transform and scratch buffers. Ignored by single-channel engines.
func WithParallel(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}

func withTransform(fft *spectral.FFT, re, im []float64) Option {
	return func(o *options) {
		o.fft = fft
		o.re = re
		o.im = im
	}
}

func buildOptions(opts []Option) options {
	o := options{resolution: growth.DefaultResolution}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(1))
	}
	return o
}
