package kernel

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/lenia/spectral"
)

func TestGenerateNormalized(t *testing.T) {
	tests := []struct {
		name             string
		n                int
		radius, mu, sigm float64
	}{
		{"small", 16, 4, 0.5, 0.15},
		{"default", 64, 13, 0.5, 0.15},
		{"wide ring", 128, 30, 0.6, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := Generate(tt.n, tt.radius, tt.mu, tt.sigm)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if sum := floats.Sum(k); math.Abs(sum-1) > 1e-12 {
				t.Errorf("kernel sum = %v, want 1", sum)
			}
			if floats.Min(k) < 0 {
				t.Error("kernel has negative entries")
			}
		})
	}
}

func TestGenerateTruncatesAtRadius(t *testing.T) {
	const n, radius = 32, 5.0
	k, err := Generate(n, radius, 0.5, 0.15)
	if err != nil {
		t.Fatal(err)
	}

	c := n / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := math.Hypot(float64(x-c), float64(y-c))
			if d >= radius && k[y*n+x] != 0 {
				t.Fatalf("cell (%d,%d) at distance %.2f has weight %v", x, y, d, k[y*n+x])
			}
		}
	}
}

func TestGenerateSymmetric(t *testing.T) {
	const n = 32
	k, err := Generate(n, 9, 0.5, 0.15)
	if err != nil {
		t.Fatal(err)
	}

	c := n / 2
	for dy := -8; dy <= 8; dy++ {
		for dx := -8; dx <= 8; dx++ {
			a := k[(c+dy)*n+(c+dx)]
			b := k[(c-dy)*n+(c-dx)]
			tr := k[(c+dx)*n+(c+dy)]
			if math.Abs(a-b) > 1e-15 || math.Abs(a-tr) > 1e-15 {
				t.Fatalf("asymmetry at offset (%d,%d)", dx, dy)
			}
		}
	}
}

func TestGenerateWrapsToroidally(t *testing.T) {
	// Radius larger than half the grid reaches the edges through the wrap
	const n = 8
	k, err := Generate(n, 6, 0.5, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	// Column 0 is 4 cells from the center either way round
	if k[4*n+0] <= 0 {
		t.Errorf("edge cell weight = %v, want > 0", k[4*n+0])
	}
	if math.Abs(k[4*n+1]-k[4*n+7]) > 1e-15 {
		t.Errorf("wrapped cells differ: %v vs %v", k[4*n+1], k[4*n+7])
	}
}

func TestGenerateZeroMass(t *testing.T) {
	tests := []struct {
		name                 string
		radius, mu, sigma float64
	}{
		{"zero radius", 0, 0.5, 0.15},
		{"negative radius", -3, 0.5, 0.15},
		{"underflow", 0.5, 0.5, 1e-4},
		{"zero sigma", 4, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(16, tt.radius, tt.mu, tt.sigma)
			if !errors.Is(err, ErrZeroMass) {
				t.Errorf("expected ErrZeroMass, got %v", err)
			}
		})
	}
}

func TestFFTShiftMovesCenterToOrigin(t *testing.T) {
	const n = 8
	k := make([]float64, n*n)
	k[(n/2)*n+n/2] = 1
	k[(n/2)*n+n/2+1] = 2

	s := FFTShift(k, n)
	if s[0] != 1 {
		t.Errorf("shifted center = %v, want 1", s[0])
	}
	if s[1] != 2 {
		t.Errorf("shifted neighbor = %v, want 2", s[1])
	}
	if floats.Sum(s) != 3 {
		t.Errorf("shift changed mass: %v", floats.Sum(s))
	}
}

func TestPrecomputeDCIsUnitMass(t *testing.T) {
	const n = 32
	fft := spectral.MustNewFFT(n)
	k, err := Generate(n, 6, 0.5, 0.15)
	if err != nil {
		t.Fatal(err)
	}

	s := Precompute(fft, k)

	// Zero-frequency coefficient is the kernel's total mass
	if math.Abs(s.Re[0]-1) > 1e-12 || math.Abs(s.Im[0]) > 1e-12 {
		t.Errorf("DC = %v%+vi, want 1", s.Re[0], s.Im[0])
	}
	// Symmetric kernel centered at the origin has a real spectrum
	for i := range s.Im {
		if math.Abs(s.Im[i]) > 1e-12 {
			t.Fatalf("Im[%d] = %v, want 0", i, s.Im[i])
		}
	}
}

func TestGenerateComposite(t *testing.T) {
	const n = 64
	rings := []Ring{
		{Scale: 1, Weight: 1},
		{Scale: 0.5, Weight: 0.5},
		{Scale: 2, Weight: 0}, // skipped
	}

	k, err := GenerateComposite(n, 12, 0.5, 0.15, rings)
	if err != nil {
		t.Fatalf("GenerateComposite: %v", err)
	}
	if sum := floats.Sum(k); math.Abs(sum-1) > 1e-12 {
		t.Errorf("composite sum = %v, want 1", sum)
	}

	// Composite of a single unit ring equals the plain kernel
	single, err := GenerateComposite(n, 12, 0.5, 0.15, []Ring{{Scale: 1, Weight: 3}})
	if err != nil {
		t.Fatal(err)
	}
	plain, _ := Generate(n, 12, 0.5, 0.15)
	if !floats.EqualApprox(single, plain, 1e-12) {
		t.Error("single-ring composite differs from plain kernel")
	}

	if _, err := GenerateComposite(n, 12, 0.5, 0.15, nil); !errors.Is(err, ErrZeroMass) {
		t.Errorf("empty composite: expected ErrZeroMass, got %v", err)
	}
}
