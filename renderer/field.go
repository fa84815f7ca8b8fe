// Package renderer draws simulation fields with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FieldRenderer uploads an N×N field to a texture and stretches it over a
// screen rectangle. One grid cell maps to one texel.
type FieldRenderer struct {
	tex    rl.Texture2D
	n      int
	pixels []color.RGBA

	initialized bool
}

// NewFieldRenderer creates a renderer for an n×n grid.
func NewFieldRenderer(n int) *FieldRenderer {
	return &FieldRenderer{
		n:      n,
		pixels: make([]color.RGBA, n*n),
	}
}

// Init creates the texture (must be called after raylib window is created).
func (r *FieldRenderer) Init() {
	if r.initialized {
		return
	}

	img := rl.GenImageColor(r.n, r.n, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update colors a single-channel field through the palette and uploads it.
func (r *FieldRenderer) Update(field []float64) {
	if len(field) != len(r.pixels) {
		return
	}
	r.Init()
	FillPixels(r.pixels, field)
	rl.UpdateTexture(r.tex, r.pixels)
}

// UpdateRGB uploads three channels as red, green and blue.
func (r *FieldRenderer) UpdateRGB(fields [3][]float64) {
	for _, f := range fields {
		if len(f) != len(r.pixels) {
			return
		}
	}
	r.Init()
	FillPixelsRGB(r.pixels, fields)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw stretches the field over dst.
func (r *FieldRenderer) Draw(dst rl.Rectangle) {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.n), Height: float32(r.n)}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// DrawRegion draws the src rectangle of the field, in cells, over dst.
// src may extend past the grid edges; the texture repeats toroidally.
func (r *FieldRenderer) DrawRegion(src, dst rl.Rectangle) {
	if !r.initialized {
		return
	}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
