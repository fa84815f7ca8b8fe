package renderer

import (
	"image/color"
	"math"
)

// colorStop is one knot of a piecewise-linear palette.
type colorStop struct {
	at      float64
	r, g, b float64
}

// Dark blue through teal to pale yellow, readable against a black border.
var palette = []colorStop{
	{0.00, 0, 0, 0},
	{0.15, 20, 30, 90},
	{0.40, 30, 120, 140},
	{0.70, 120, 200, 110},
	{1.00, 250, 240, 170},
}

// Colormap maps a cell value in [0,1] to a palette color. Values outside
// the range are clamped and NaN maps to black.
func Colormap(v float64) color.RGBA {
	if !(v > 0) {
		v = 0
	}
	v = math.Min(v, 1)

	for i := 1; i < len(palette); i++ {
		hi := palette[i]
		if v > hi.at {
			continue
		}
		lo := palette[i-1]
		t := (v - lo.at) / (hi.at - lo.at)
		return color.RGBA{
			R: uint8(lo.r + t*(hi.r-lo.r)),
			G: uint8(lo.g + t*(hi.g-lo.g)),
			B: uint8(lo.b + t*(hi.b-lo.b)),
			A: 255,
		}
	}
	last := palette[len(palette)-1]
	return color.RGBA{R: uint8(last.r), G: uint8(last.g), B: uint8(last.b), A: 255}
}

// FillPixels colors a single field through the palette.
func FillPixels(dst []color.RGBA, field []float64) {
	for i, v := range field {
		dst[i] = Colormap(v)
	}
}

// FillPixelsRGB maps three channels straight onto red, green and blue.
func FillPixelsRGB(dst []color.RGBA, fields [3][]float64) {
	for i := range dst {
		dst[i] = color.RGBA{
			R: unit8(fields[0][i]),
			G: unit8(fields[1][i]),
			B: unit8(fields[2][i]),
			A: 255,
		}
	}
}

func unit8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
