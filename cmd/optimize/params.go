package main

import (
	"github.com/pthm-cable/lenia/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The kernel radius stays at the base config's value; it sets the creature
// scale rather than whether one survives.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "mu", Path: "params.mu", Min: 0.05, Max: 0.40, Default: 0.15},
			{Name: "sigma", Path: "params.sigma", Min: 0.003, Max: 0.06, Default: 0.015},
			{Name: "kernel_mu", Path: "params.kernel_mu", Min: 0.3, Max: 0.7, Default: 0.5},
			{Name: "kernel_sigma", Path: "params.kernel_sigma", Min: 0.05, Max: 0.3, Default: 0.15},
			{Name: "dt", Path: "params.dt", Min: 0.05, Max: 0.5, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(spec.Max, max(spec.Min, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Params.Mu = clamped[0]
	cfg.Params.Sigma = clamped[1]
	cfg.Params.KernelMu = clamped[2]
	cfg.Params.KernelSigma = clamped[3]
	cfg.Params.DT = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Params.Mu,
		cfg.Params.Sigma,
		cfg.Params.KernelMu,
		cfg.Params.KernelSigma,
		cfg.Params.DT,
	}
}
