package renderer

import (
	"image/color"
	"math"
	"testing"
)

func TestColormapEndpoints(t *testing.T) {
	black := color.RGBA{A: 255}
	tests := []struct {
		name string
		v    float64
		want color.RGBA
	}{
		{"zero", 0, black},
		{"negative", -1, black},
		{"nan", math.NaN(), black},
		{"one", 1, color.RGBA{R: 250, G: 240, B: 170, A: 255}},
		{"above one", 3, color.RGBA{R: 250, G: 240, B: 170, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Colormap(tt.v); got != tt.want {
				t.Errorf("Colormap(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestColormapBrightens(t *testing.T) {
	lum := func(c color.RGBA) int { return int(c.R) + int(c.G) + int(c.B) }
	prev := -1
	for v := 0.0; v <= 1; v += 0.05 {
		l := lum(Colormap(v))
		if l < prev {
			t.Fatalf("luminance drops at %v: %d < %d", v, l, prev)
		}
		prev = l
	}
}

func TestFillPixelsRGB(t *testing.T) {
	dst := make([]color.RGBA, 2)
	FillPixelsRGB(dst, [3][]float64{{1, 0}, {0.5, 0}, {0, 2}})
	if dst[0] != (color.RGBA{R: 255, G: 127, B: 0, A: 255}) {
		t.Errorf("pixel 0 = %v", dst[0])
	}
	if dst[1] != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 1 = %v", dst[1])
	}
}
