// Snapshot render tool - draws a saved field snapshot to a PNG file.
//
// Usage: go run ./cmd/snapshotpng -in snapshots/snapshot_1200.json -out field.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/telemetry"
)

func main() {
	inPath := flag.String("in", "", "Snapshot JSON file")
	outPath := flag.String("out", "field.png", "Output PNG path")
	scale := flag.Int("scale", 2, "Pixels per grid cell")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		os.Exit(2)
	}

	snap, err := telemetry.LoadSnapshot(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load snapshot: %v\n", err)
		os.Exit(1)
	}
	n := snap.Size()
	side := int32(n * max(1, *scale))

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(side, side, "Snapshot Render")
	defer rl.CloseWindow()

	field := renderer.NewFieldRenderer(n)
	defer field.Unload()
	if snap.Multi != nil {
		field.UpdateRGB(snap.Multi.State)
	} else {
		field.Update(snap.Single.State)
	}

	target := rl.LoadRenderTexture(side, side)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	field.Draw(rl.Rectangle{X: 0, Y: 0, Width: float32(side), Height: float32(side)})
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Step %d rendered to: %s (%dx%d)\n", snap.Step, *outPath, side, side)
}
