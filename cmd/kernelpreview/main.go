// Kernel preview tool - interactive visualization of the ring kernel and
// growth curve with sliders.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/ui"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	curveSamples = 256
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := config.Defaults().Params
	params := defaults

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(texture, rl.FilterPoint)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, gridSize*gridSize)

	var preview *Preview
	var previewErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			preview, previewErr = BuildPreview(params, gridSize, curveSamples)
			if previewErr == nil {
				renderer.FillPixels(pixels, preview.Kernel)
				rl.UpdateTexture(texture, pixels)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Kernel image
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 20)
		if previewErr != nil {
			rl.DrawText(previewErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			drawCurve(rl.Rectangle{X: 10, Y: float32(statsY), Width: previewSize / 2, Height: 170}, preview.Profile, 0, 1, "kernel profile", rl.DarkBlue)
			drawCurve(rl.Rectangle{X: 20 + previewSize/2, Y: float32(statsY), Width: previewSize/2 - 10, Height: 170}, preview.Growth, -1, 1, "growth", rl.Maroon)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Lenia Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range ui.ParamSliders {
			cur := s.Get(params)
			rl.DrawText(s.Label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%g", s.Min), fmt.Sprintf("%g", s.Max),
				float32(cur), s.Min, s.Max,
			)
			rl.DrawText(fmt.Sprintf(s.Format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != float32(cur) {
				params = params.Apply(update(s, float64(next)))
				needsRegen = true
			}
			panelY += 35
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		snippet, err := ParamsYAML(params)
		if err != nil {
			snippet = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

func update(s ui.Slider, v float64) engine.Update {
	var u engine.Update
	s.Set(&u, v)
	return u
}

// drawCurve plots values across rect with lo..hi mapped bottom to top.
func drawCurve(rect rl.Rectangle, values []float64, lo, hi float64, label string, c rl.Color) {
	rl.DrawRectangleLinesEx(rect, 1, rl.LightGray)
	rl.DrawText(label, int32(rect.X)+4, int32(rect.Y)+4, 12, rl.Gray)
	if lo < 0 && hi > 0 {
		zy := rect.Y + rect.Height*float32(hi/(hi-lo))
		rl.DrawLine(int32(rect.X), int32(zy), int32(rect.X+rect.Width), int32(zy), rl.LightGray)
	}
	if len(values) < 2 {
		return
	}
	point := func(i int) rl.Vector2 {
		t := float32(i) / float32(len(values)-1)
		v := float32((values[i] - lo) / (hi - lo))
		return rl.Vector2{X: rect.X + t*rect.Width, Y: rect.Y + rect.Height*(1-v)}
	}
	prev := point(0)
	for i := 1; i < len(values); i++ {
		p := point(i)
		rl.DrawLineEx(prev, p, 2, c)
		prev = p
	}
}
