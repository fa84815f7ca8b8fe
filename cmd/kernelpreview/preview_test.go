package main

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/kernel"
)

func TestBuildPreview(t *testing.T) {
	p := engine.DefaultParams()
	pv, err := BuildPreview(p, 64, 101)
	if err != nil {
		t.Fatal(err)
	}

	var peak float64
	for _, v := range pv.Kernel {
		peak = max(peak, v)
	}
	if math.Abs(peak-1) > 1e-12 {
		t.Errorf("kernel peak = %v, want 1", peak)
	}
	if len(pv.Profile) != 32 {
		t.Errorf("profile length = %d", len(pv.Profile))
	}
	// Outside the radius the kernel is empty
	if v := pv.Profile[int(p.R)+1]; v != 0 {
		t.Errorf("profile beyond R = %v", v)
	}

	// Growth peaks at mu: sample 15 of 101 is u = 0.15
	if g := pv.Growth[15]; g < 0.999 {
		t.Errorf("growth at mu = %v", g)
	}
	if g := pv.Growth[100]; g > -0.99 {
		t.Errorf("growth at u=1 = %v, want ~-1", g)
	}
}

func TestBuildPreviewRejectsZeroRadius(t *testing.T) {
	p := engine.DefaultParams()
	p.R = 0
	if _, err := BuildPreview(p, 32, 10); !errors.Is(err, kernel.ErrZeroMass) {
		t.Errorf("err = %v, want ErrZeroMass", err)
	}
}

func TestParamsYAML(t *testing.T) {
	p := engine.DefaultParams()
	out, err := ParamsYAML(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "params:\n") || !strings.Contains(out, "kernel_sigma:") {
		t.Errorf("unexpected YAML:\n%s", out)
	}

	var back map[string]engine.Params
	if err := yaml.Unmarshal([]byte(out), &back); err != nil {
		t.Fatal(err)
	}
	if back["params"] != p {
		t.Errorf("round trip = %+v, want %+v", back["params"], p)
	}
}
