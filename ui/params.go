package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/engine"
)

// Slider binds one engine parameter to a raygui slider.
type Slider struct {
	Label    string
	Min, Max float32
	Format   string
	Get      func(engine.Params) float64
	Set      func(*engine.Update, float64)
}

// ParamSliders lists the editable parameters in display order.
var ParamSliders = []Slider{
	{
		Label: "Radius R", Min: 2, Max: 50, Format: "%.1f",
		Get: func(p engine.Params) float64 { return p.R },
		Set: func(u *engine.Update, v float64) { u.R = engine.Float(v) },
	},
	{
		Label: "Growth mu", Min: 0.01, Max: 0.5, Format: "%.3f",
		Get: func(p engine.Params) float64 { return p.Mu },
		Set: func(u *engine.Update, v float64) { u.Mu = engine.Float(v) },
	},
	{
		Label: "Growth sigma", Min: 0.001, Max: 0.1, Format: "%.4f",
		Get: func(p engine.Params) float64 { return p.Sigma },
		Set: func(u *engine.Update, v float64) { u.Sigma = engine.Float(v) },
	},
	{
		Label: "Time step dt", Min: 0.01, Max: 1, Format: "%.2f",
		Get: func(p engine.Params) float64 { return p.DT },
		Set: func(u *engine.Update, v float64) { u.DT = engine.Float(v) },
	},
	{
		Label: "Kernel mu", Min: 0.05, Max: 0.95, Format: "%.2f",
		Get: func(p engine.Params) float64 { return p.KernelMu },
		Set: func(u *engine.Update, v float64) { u.KernelMu = engine.Float(v) },
	},
	{
		Label: "Kernel sigma", Min: 0.01, Max: 0.5, Format: "%.3f",
		Get: func(p engine.Params) float64 { return p.KernelSigma },
		Set: func(u *engine.Update, v float64) { u.KernelSigma = engine.Float(v) },
	},
}

// PanelAction is what the user asked for during one frame.
type PanelAction struct {
	Update  engine.Update
	Changed bool
	Reset   bool
	Clear   bool
}

// Edited reports whether next, the value raygui returned for cur, is a user
// edit. raygui clamps into [Min, Max] every frame, so an out-of-range cur
// only counts as edited once next differs from its clamped value.
func (s Slider) Edited(cur float64, next float32) bool {
	return next != min(max(float32(cur), s.Min), s.Max)
}

// ParamsPanel renders parameter sliders and reset/clear buttons.
type ParamsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewParamsPanel creates a visible panel.
func NewParamsPanel(x, y, width int32) *ParamsPanel {
	return &ParamsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (pp *ParamsPanel) SetPosition(x, y int32) {
	pp.x = x
	pp.y = y
}

// Toggle flips visibility and returns the new state.
func (pp *ParamsPanel) Toggle() bool {
	pp.visible = !pp.visible
	return pp.visible
}

// IsVisible reports whether the panel is drawn.
func (pp *ParamsPanel) IsVisible() bool {
	return pp.visible
}

// Height returns the panel height for the slider list.
func (pp *ParamsPanel) Height() int32 {
	return pp.renderer.Theme.Padding*2 + 20 + int32(len(ParamSliders))*38 + 30
}

// Draw renders the panel for p and returns the user's edits.
func (pp *ParamsPanel) Draw(p engine.Params) PanelAction {
	var action PanelAction
	if !pp.visible {
		return action
	}

	r := pp.renderer
	pad := r.Theme.Padding
	pp.renderer.DrawPanel(pp.x, pp.y, pp.width, pp.Height())

	x := float32(pp.x + pad)
	y := r.DrawSectionHeader(pp.x+pad, pp.y+pad, "Parameters") + 4
	sliderW := float32(pp.width - 2*pad - 70)

	for _, s := range ParamSliders {
		cur := s.Get(p)
		rl.DrawText(s.Label, int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: sliderW, Height: 16},
			"", "",
			float32(cur), s.Min, s.Max,
		)
		rl.DrawText(fmt.Sprintf(s.Format, cur), int32(x+sliderW+8), y+2, r.Theme.FontSize, r.Theme.ValueColor)
		if s.Edited(cur, next) {
			s.Set(&action.Update, float64(next))
			action.Changed = true
		}
		y += 24
	}

	btnW := (float32(pp.width) - float32(3*pad)) / 2
	action.Reset = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: btnW, Height: 22}, "Reset")
	action.Clear = gui.Button(rl.Rectangle{X: x + btnW + float32(pad), Y: float32(y), Width: btnW, Height: 22}, "Clear")
	return action
}
