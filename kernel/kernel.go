// Package kernel builds the normalized ring kernels used for Lenia's
// neighborhood convolution and caches their spectra.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/lenia/spectral"
)

// ErrZeroMass is returned when a kernel has no positive mass to normalize,
// which happens for a non-positive radius or a profile that underflows
// everywhere inside the radius.
var ErrZeroMass = errors.New("kernel: zero total mass")

// Spectrum holds the forward transform of an FFT-shifted kernel.
type Spectrum struct {
	Re []float64
	Im []float64
}

// Ring is one component of a composite kernel. Scale multiplies the base
// radius and Weight sets the ring's contribution before renormalization.
type Ring struct {
	Scale  float64 `yaml:"scale" json:"scale"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Generate builds an n×n ring kernel centered on (n/2, n/2). Each cell's
// distance to the center is measured toroidally per axis and normalized by
// radius; cells with r < 1 take exp(-(r-mu)²/(2σ²)). The result sums to 1.
func Generate(n int, radius, mu, sigma float64) ([]float64, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius %v", ErrZeroMass, radius)
	}

	k := make([]float64, n*n)
	c := n / 2
	for y := 0; y < n; y++ {
		dy := float64(torusDelta(y-c, n))
		for x := 0; x < n; x++ {
			dx := float64(torusDelta(x-c, n))
			r := math.Sqrt(dx*dx+dy*dy) / radius
			if r < 1 {
				d := r - mu
				k[y*n+x] = math.Exp(-(d * d) / (2 * sigma * sigma))
			}
		}
	}

	if err := normalize(k); err != nil {
		return nil, fmt.Errorf("radius %v, mu %v, sigma %v: %w", radius, mu, sigma, err)
	}
	return k, nil
}

// GenerateComposite blends several ring kernels that share the same radial
// profile but differ in radius scale and weight, then renormalizes the sum.
// Rings with non-positive weight are skipped.
func GenerateComposite(n int, radius, mu, sigma float64, rings []Ring) ([]float64, error) {
	out := make([]float64, n*n)
	for i, ring := range rings {
		if ring.Weight <= 0 {
			continue
		}
		k, err := Generate(n, radius*ring.Scale, mu, sigma)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		floats.AddScaled(out, ring.Weight, k)
	}

	if err := normalize(out); err != nil {
		return nil, err
	}
	return out, nil
}

// FFTShift cyclically shifts a kernel by n/2 on both axes so that its center
// lands at index (0,0). Returns a new slice.
func FFTShift(k []float64, n int) []float64 {
	out := make([]float64, len(k))
	h := n / 2
	for y := 0; y < n; y++ {
		sy := (y + h) % n
		for x := 0; x < n; x++ {
			sx := (x + h) % n
			out[sy*n+sx] = k[y*n+x]
		}
	}
	return out
}

// Precompute shifts the kernel and forward-transforms it with a zero
// imaginary part.
func Precompute(fft *spectral.FFT, k []float64) Spectrum {
	n := fft.Size()
	s := Spectrum{
		Re: FFTShift(k, n),
		Im: make([]float64, n*n),
	}
	fft.Forward(s.Re, s.Im)
	return s
}

func normalize(k []float64) error {
	sum := floats.Sum(k)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return ErrZeroMass
	}
	floats.Scale(1/sum, k)
	return nil
}

// torusDelta returns the shorter of the direct and wrapped offsets.
func torusDelta(d, n int) int {
	if d < 0 {
		d = -d
	}
	if w := n - d; w < d {
		return w
	}
	return d
}
