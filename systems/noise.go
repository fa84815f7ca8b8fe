package systems

import (
	"math"
	"math/rand"
)

// PerlinNoise generates coherent 2D noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}
	rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	// Duplicate so corner hashes never need a modulo
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise2D returns a noise value in roughly [-1, 1].
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255

	x -= math.Floor(x)
	y -= math.Floor(y)

	u := fade(x)
	v := fade(y)

	a := p.perm[xi] + yi
	b := p.perm[xi+1] + yi

	return lerp(v,
		lerp(u, grad2D(p.perm[a], x, y), grad2D(p.perm[b], x-1, y)),
		lerp(u, grad2D(p.perm[a+1], x, y-1), grad2D(p.perm[b+1], x-1, y-1)))
}

// FBM sums octaves of noise, each at double the frequency and half the
// amplitude of the last, and maps the result into [0, 1].
func (p *PerlinNoise) FBM(x, y float64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for o := 0; o < max(1, octaves); o++ {
		sum += amp * p.Noise2D(x*freq, y*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	v := 0.5 + 0.5*sum/norm
	return math.Min(1, math.Max(0, v))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad2D(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
