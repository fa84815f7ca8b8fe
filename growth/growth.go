// Package growth provides Lenia growth functions and the quantized lookup
// table used in the update hot path.
package growth

import "math"

// DefaultResolution is the number of table entries spanning u ∈ [0,1].
const DefaultResolution = 2048

// Gaussian returns 2·exp(-(u-mu)²/(2σ²)) - 1, peaking at 1 when u == mu.
func Gaussian(u, mu, sigma float64) float64 {
	d := u - mu
	return 2*math.Exp(-(d*d)/(2*sigma*sigma)) - 1
}

// Peak is one mode of a multi-peak growth function.
type Peak struct {
	Mu     float64 `yaml:"mu" json:"mu"`
	Sigma  float64 `yaml:"sigma" json:"sigma"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// MultiPeak returns the maximum weighted Gaussian growth over all peaks.
// With no peaks everything decays at the minimum rate of -1.
func MultiPeak(u float64, peaks []Peak) float64 {
	if len(peaks) == 0 {
		return -1
	}
	best := math.Inf(-1)
	for _, p := range peaks {
		if g := p.Weight * Gaussian(u, p.Mu, p.Sigma); g > best {
			best = g
		}
	}
	return best
}

// Table samples a growth function at evenly spaced points over [0,1],
// inclusive of both ends.
type Table []float64

// NewTable samples Gaussian(u, mu, sigma). A resolution below 2 selects
// DefaultResolution.
func NewTable(mu, sigma float64, resolution int) Table {
	return sample(resolution, func(u float64) float64 {
		return Gaussian(u, mu, sigma)
	})
}

// NewMultiPeakTable samples MultiPeak over the given peaks.
func NewMultiPeakTable(peaks []Peak, resolution int) Table {
	ps := append([]Peak(nil), peaks...)
	return sample(resolution, func(u float64) float64 {
		return MultiPeak(u, ps)
	})
}

func sample(resolution int, fn func(float64) float64) Table {
	if resolution < 2 {
		resolution = DefaultResolution
	}
	t := make(Table, resolution)
	last := float64(resolution - 1)
	for i := range t {
		t[i] = fn(float64(i) / last)
	}
	return t
}

// Lookup clamps u into [0,1] and returns the entry at floor(u·(len-1)).
// This is floor quantization, not interpolation.
func (t Table) Lookup(u float64) float64 {
	if !(u > 0) { // also catches NaN
		u = 0
	} else if u > 1 {
		u = 1
	}
	last := len(t) - 1
	i := int(math.Floor(u * float64(last)))
	if i < 0 {
		i = 0
	} else if i > last {
		i = last
	}
	return t[i]
}

// Resolution returns the number of table entries.
func (t Table) Resolution() int {
	return len(t)
}
