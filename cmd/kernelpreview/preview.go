package main

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/growth"
	"github.com/pthm-cable/lenia/kernel"
)

// Preview holds the sampled kernel and curves for one parameter set.
type Preview struct {
	Size    int
	Kernel  []float64 // normalized to a peak of 1 for display
	Profile []float64 // kernel along the center row, right half
	Growth  []float64 // growth over u ∈ [0,1]
}

// BuildPreview samples the kernel on an n×n grid and the growth function at
// samples points.
func BuildPreview(p engine.Params, n, samples int) (*Preview, error) {
	k, err := kernel.Generate(n, p.R, p.KernelMu, p.KernelSigma)
	if err != nil {
		return nil, err
	}
	if peak := floats.Max(k); peak > 0 {
		floats.Scale(1/peak, k)
	}

	c := n / 2
	profile := make([]float64, n-c)
	copy(profile, k[c*n+c:c*n+n])

	curve := make([]float64, samples)
	for i := range curve {
		u := float64(i) / float64(samples-1)
		curve[i] = growth.Gaussian(u, p.Mu, p.Sigma)
	}

	return &Preview{Size: n, Kernel: k, Profile: profile, Growth: curve}, nil
}

// ParamsYAML renders p as a params: block for a config file.
func ParamsYAML(p engine.Params) (string, error) {
	out, err := yaml.Marshal(map[string]engine.Params{"params": p})
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(out), nil
}
