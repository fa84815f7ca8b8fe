package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/lenia/components"
	"github.com/pthm-cable/lenia/engine"
)

// noiseFeature is the noise wavelength in cells.
const noiseFeature = 6.0

// GaussianBlob returns a (2r+1)² pattern holding a Gaussian bump with
// standard deviation r/2, truncated at radius r.
func GaussianBlob(radius, peak float64) engine.Pattern {
	s := radius / 2
	return disc(radius, func(d float64) float64 {
		return peak * math.Exp(-d*d/(2*s*s))
	})
}

// Ring returns a bell-shaped annulus peaking at half the radius, the same
// profile a Lenia kernel uses.
func Ring(radius, peak float64) engine.Pattern {
	const mu, sigma = 0.5, 0.15
	return disc(radius, func(d float64) float64 {
		r := d / radius
		return peak * math.Exp(-(r-mu)*(r-mu)/(2*sigma*sigma))
	})
}

// NoiseDisc returns a disc of smooth fractal noise scaled to peak.
func NoiseDisc(radius, peak float64, seed int64) engine.Pattern {
	noise := NewPerlinNoise(seed)
	p := disc(radius, func(float64) float64 { return peak })
	side := p.Width
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			i := y*side + x
			if p.Cells[i] == 0 {
				continue
			}
			p.Cells[i] *= noise.FBM(float64(x)/noiseFeature, float64(y)/noiseFeature, 3)
		}
	}
	return p
}

// disc evaluates profile at each cell's distance from the center of a
// (2r+1)² square, leaving cells beyond radius at zero.
func disc(radius float64, profile func(d float64) float64) engine.Pattern {
	r := max(0, int(math.Ceil(radius)))
	side := 2*r + 1
	cells := make([]float64, side*side)
	for y := 0; y < side; y++ {
		dy := float64(y - r)
		for x := 0; x < side; x++ {
			dx := float64(x - r)
			d := math.Sqrt(dx*dx + dy*dy)
			if d > radius {
				continue
			}
			cells[y*side+x] = math.Min(1, math.Max(0, profile(d)))
		}
	}
	return engine.Pattern{Width: side, Height: side, Cells: cells}
}

// BuildPattern renders the pattern a stamp describes.
func BuildPattern(st components.Stamp) (engine.Pattern, error) {
	if !(st.Radius > 0) {
		return engine.Pattern{}, fmt.Errorf("stamp radius %v must be positive", st.Radius)
	}
	switch st.Kind {
	case components.PatternBlob:
		return GaussianBlob(st.Radius, st.Peak), nil
	case components.PatternRing:
		return Ring(st.Radius, st.Peak), nil
	case components.PatternNoise:
		return NoiseDisc(st.Radius, st.Peak, st.Seed), nil
	}
	return engine.Pattern{}, fmt.Errorf("unknown pattern kind %d", st.Kind)
}
