package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrPatternShape is returned when a pattern's cell count does not match its
// dimensions.
var ErrPatternShape = errors.New("engine: pattern cells do not match dimensions")

// Pattern is a rectangular row-major source field for PlacePattern.
type Pattern struct {
	Width  int       `json:"width" yaml:"width"`
	Height int       `json:"height" yaml:"height"`
	Cells  []float64 `json:"cells" yaml:"cells"`
}

// At returns the cell at (x, y) without bounds wrapping.
func (p Pattern) At(x, y int) float64 {
	return p.Cells[y*p.Width+x]
}

func (p Pattern) validate() error {
	if p.Width <= 0 || p.Height <= 0 || len(p.Cells) != p.Width*p.Height {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrPatternShape, p.Width, p.Height, len(p.Cells))
	}
	return nil
}

// Snapshot copies the current field into a Pattern.
func (e *Engine) Snapshot() Pattern {
	return Pattern{
		Width:  e.n,
		Height: e.n,
		Cells:  append([]float64(nil), e.state...),
	}
}

// Clear zeroes the field and resets statistics.
func (e *Engine) Clear() {
	clear(e.state)
	e.tracker.reset()
}

// Randomize clears the field, then gives every cell within radius·N of the
// grid center a uniform random value with probability density.
func (e *Engine) Randomize(density, radius float64) {
	e.Clear()

	n := e.n
	c := float64(n) / 2
	limit := radius * float64(n)
	for y := 0; y < n; y++ {
		dy := float64(y) - c
		for x := 0; x < n; x++ {
			dx := float64(x) - c
			if math.Sqrt(dx*dx+dy*dy) > limit {
				continue
			}
			if e.rng.Float64() < density {
				e.state[y*n+x] = e.rng.Float64()
			}
		}
	}
}

// PlacePattern resamples p by nearest neighbor to the given scale and adds
// it, centered on (x, y), into the field. Sums are clipped to [0,1] and
// positions wrap toroidally. A non-positive or infinite scale is treated
// as 1, and a footprint wider than the grid is cropped to one period.
func (e *Engine) PlacePattern(p Pattern, x, y int, scale float64) error {
	if err := p.validate(); err != nil {
		return err
	}
	if !(scale > 0) || math.IsInf(scale, 1) {
		scale = 1
	}

	n := e.n
	ox, w := span(p.Width, scale, n)
	oy, h := span(p.Height, scale, n)
	x0 := x - w/2
	y0 := y - h/2

	for ty := 0; ty < h; ty++ {
		sy := min(int((oy+float64(ty))/scale), p.Height-1)
		row := wrap(y0+ty, n) * n
		for tx := 0; tx < w; tx++ {
			sx := min(int((ox+float64(tx))/scale), p.Width-1)
			i := row + wrap(x0+tx, n)
			e.state[i] = clamp01(e.state[i] + p.At(sx, sy))
		}
	}
	return nil
}

// span resamples a pattern side of the given length by scale. A result
// wider than the grid keeps only its centered period: offset is the first
// resampled index kept and count is at most n.
func span(side int, scale float64, n int) (offset float64, count int) {
	l := math.Round(float64(side) * scale)
	if l <= float64(n) {
		return 0, max(1, int(l))
	}
	return math.Floor((l - float64(n)) / 2), n
}

// DrawCircle sets every cell within Euclidean radius of (x, y) to value,
// clipped to [0,1]. Coordinates wrap toroidally.
func (e *Engine) DrawCircle(x, y int, radius, value float64) {
	if !(radius >= 0) {
		return
	}
	v := clamp01(value)
	n := e.n
	r2 := radius * radius

	half := float64(n / 2)
	if r2 >= 2*half*half {
		for i := range e.state {
			e.state[i] = v
		}
		return
	}

	// Wider than the torus: visit each cell once at its shortest distance.
	if 2*radius+1 > float64(n) {
		for cy := 0; cy < n; cy++ {
			dy := float64(torusDist(cy-y, n))
			row := cy * n
			for cx := 0; cx < n; cx++ {
				dx := float64(torusDist(cx-x, n))
				if dx*dx+dy*dy <= r2 {
					e.state[row+cx] = v
				}
			}
		}
		return
	}

	r := int(math.Ceil(radius))
	for dy := -r; dy <= r; dy++ {
		row := wrap(y+dy, n) * n
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				e.state[row+wrap(x+dx, n)] = v
			}
		}
	}
}

// torusDist is the shortest wrapped distance for offset d on a ring of n.
func torusDist(d, n int) int {
	d = wrap(d, n)
	return min(d, n-d)
}

// Value returns the cell at (x, y), wrapping toroidally.
func (e *Engine) Value(x, y int) float64 {
	return e.state[wrap(y, e.n)*e.n+wrap(x, e.n)]
}

// SetValue sets the cell at (x, y), wrapping toroidally and clipping value
// to [0,1].
func (e *Engine) SetValue(x, y int, value float64) {
	e.state[wrap(y, e.n)*e.n+wrap(x, e.n)] = clamp01(value)
}
