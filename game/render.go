package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/ui"
)

const (
	panelWidth = 260
	controls   = "SPACE pause | N step | ,/. speed | R reset | C clear | S snapshot | [ ] brush | arrows/wheel view | F follow | TAB params | P perf"
)

// fieldRect returns the largest centered square that fits the window.
func (g *Game) fieldRect() rl.Rectangle {
	side := min(g.screenWidth, g.screenHeight)
	return rl.Rectangle{
		X:      (g.screenWidth - side) / 2,
		Y:      (g.screenHeight - side) / 2,
		Width:  side,
		Height: side,
	}
}

func (g *Game) panelRect() rl.Rectangle {
	return rl.Rectangle{
		X:      g.screenWidth - panelWidth - 10,
		Y:      10,
		Width:  panelWidth,
		Height: float32(g.paramsPanel.Height()),
	}
}

// layoutPanels positions the panels for the current window size.
func (g *Game) layoutPanels() {
	r := g.panelRect()
	g.paramsPanel.SetPosition(int32(r.X), int32(r.Y))
	g.perfPanel.SetPosition(10, int32(g.screenHeight)-140)
}

// Draw renders the field and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.multi != nil {
		g.field.UpdateRGB(g.multi.State())
	} else {
		g.field.Update(g.single.State())
	}
	dst := g.fieldRect()
	sx, sy, sw, sh := g.camera.SourceRect()
	g.field.DrawRegion(rl.Rectangle{X: sx, Y: sy, Width: sw, Height: sh}, dst)

	if s := g.sim.Stats(); s.Mass > 0 {
		cx, cy := g.camera.CellToScreen(float32(s.CenterX), float32(s.CenterY))
		pos := rl.Vector2{X: dst.X + cx, Y: dst.Y + cy}
		if rl.CheckCollisionPointRec(pos, dst) {
			rl.DrawLineV(rl.Vector2{X: pos.X - 6, Y: pos.Y}, rl.Vector2{X: pos.X + 6, Y: pos.Y}, rl.Red)
			rl.DrawLineV(rl.Vector2{X: pos.X, Y: pos.Y - 6}, rl.Vector2{X: pos.X, Y: pos.Y + 6}, rl.Red)
		}
	}

	if mouse := rl.GetMousePosition(); !g.overPanel(mouse) && rl.CheckCollisionPointRec(mouse, dst) {
		rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), float32(g.brushRadius)*g.camera.CellPx(), rl.Fade(rl.White, 0.5))
	}

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawUI() {
	mode := "single"
	if g.multi != nil {
		mode = "multi"
	}
	g.hud.Draw(ui.HUDData{
		Title:          "Lenia",
		Mode:           mode,
		Stats:          g.sim.Stats(),
		Cells:          g.cfg.Derived.Cells,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		BrushRadius:    g.brushRadius,
		Cursor:         g.cursorReadout(),
	})
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controls)

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	action := g.paramsPanel.Draw(g.sim.Params())
	if action.Changed {
		if err := g.sim.SetParams(action.Update); err != nil {
			slog.Warn("parameter update rejected", "error", err)
		}
	}
	if action.Reset {
		if err := g.Reset(); err != nil {
			slog.Error("reset failed", "error", err)
		}
	}
	if action.Clear {
		g.Clear()
	}
}

// cursorReadout describes the cell under the mouse.
func (g *Game) cursorReadout() string {
	mouse := rl.GetMousePosition()
	if g.overPanel(mouse) {
		return ""
	}
	x, y, ok := g.cellUnder(mouse)
	if !ok {
		return ""
	}
	if g.multi != nil {
		v := g.multi.Value(x, y)
		return fmt.Sprintf("(%d, %d) = %.3f / %.3f / %.3f", x, y, v[0], v[1], v[2])
	}
	return fmt.Sprintf("(%d, %d) = %.3f", x, y, g.single.Value(x, y))
}
