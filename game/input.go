package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const maxStepsPerUpdate = 16

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.simulationStep()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Reset(); err != nil {
			slog.Error("reset failed", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.Clear()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.paramsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	// Brush size with [ ]
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.brushRadius = max(1, g.brushRadius/1.25)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.brushRadius = min(float64(g.cfg.Grid.Size)/2, g.brushRadius*1.25)
	}

	g.handleCameraInput()
	g.handlePaint()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed in screen pixels per frame
	const panSpeed = float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyF) {
		g.follow = !g.follow
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.follow = false
		g.camera.Reset()
	}
}

// handlePaint draws with the left mouse button and erases with the right.
func (g *Game) handlePaint() {
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	right := rl.IsMouseButtonDown(rl.MouseButtonRight)
	if !left && !right {
		return
	}

	mouse := rl.GetMousePosition()
	if g.overPanel(mouse) {
		return
	}
	x, y, ok := g.cellUnder(mouse)
	if !ok {
		return
	}

	value := 1.0
	if right {
		value = 0
	}
	g.sim.DrawCircle(x, y, g.brushRadius, value)
}

// cellUnder maps a screen position to the grid cell shown there.
func (g *Game) cellUnder(pos rl.Vector2) (x, y int, ok bool) {
	dst := g.fieldRect()
	if !rl.CheckCollisionPointRec(pos, dst) {
		return 0, 0, false
	}
	x, y = g.camera.CellAt(pos.X-dst.X, pos.Y-dst.Y)
	return x, y, true
}

// overPanel reports whether pos lies over the parameter panel.
func (g *Game) overPanel(pos rl.Vector2) bool {
	if !g.paramsPanel.IsVisible() {
		return false
	}
	return rl.CheckCollisionPointRec(pos, g.panelRect())
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	side := g.fieldRect().Width
	g.camera.Resize(side, side)
	g.layoutPanels()
}
