package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lenia/components"
	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
)

// Painter is the mutator surface a scene paints onto. Both engine.Engine
// and engine.Multi satisfy it.
type Painter interface {
	Size() int
	PlacePattern(p engine.Pattern, x, y int, scale float64) error
	DrawCircle(x, y int, radius, value float64)
}

// channelPainter exposes individual channels of a multi-channel engine.
type channelPainter interface {
	Channel(i int) (*engine.Engine, error)
}

// Scene is an ECS world of seed placements. Apply replays every entity onto
// a painter: stamps are added first, then brushes are drawn over them.
type Scene struct {
	world *ecs.World

	stampMapper *ecs.Map3[components.Placement, components.Stamp, components.Channels]
	brushMapper *ecs.Map3[components.Placement, components.Brush, components.Channels]
	stampFilter *ecs.Filter3[components.Placement, components.Stamp, components.Channels]
	brushFilter *ecs.Filter3[components.Placement, components.Brush, components.Channels]

	count int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:       world,
		stampMapper: ecs.NewMap3[components.Placement, components.Stamp, components.Channels](world),
		brushMapper: ecs.NewMap3[components.Placement, components.Brush, components.Channels](world),
		stampFilter: ecs.NewFilter3[components.Placement, components.Stamp, components.Channels](world),
		brushFilter: ecs.NewFilter3[components.Placement, components.Brush, components.Channels](world),
	}
}

// NewSceneFromConfig builds a scene from config placements. Kind "circle"
// becomes a brush; every other kind names a pattern. Noise stamps are
// seeded from seed and their index so a reset repaints the same field.
func NewSceneFromConfig(placements []config.PlacementConfig, seed int64) (*Scene, error) {
	s := NewScene()
	for i, pc := range placements {
		pos := components.Placement{X: pc.X, Y: pc.Y}
		ch := components.MaskOf(pc.Channels...)

		if pc.Kind == "circle" {
			s.AddBrush(pos, components.Brush{Radius: pc.Radius, Value: pc.Value}, ch)
			continue
		}

		kind, ok := components.ParsePatternKind(pc.Kind)
		if !ok {
			return nil, fmt.Errorf("scene entry %d: unknown kind %q", i, pc.Kind)
		}
		st := components.Stamp{
			Kind:   kind,
			Radius: pc.Radius,
			Peak:   pc.Value,
			Scale:  pc.Scale,
			Seed:   seed + int64(i),
		}
		if _, err := BuildPattern(st); err != nil {
			return nil, fmt.Errorf("scene entry %d: %w", i, err)
		}
		s.AddStamp(pos, st, ch)
	}
	return s, nil
}

// AddStamp adds a pattern placement.
func (s *Scene) AddStamp(pos components.Placement, st components.Stamp, ch components.Channels) ecs.Entity {
	s.count++
	return s.stampMapper.NewEntity(&pos, &st, &ch)
}

// AddBrush adds a disc fill.
func (s *Scene) AddBrush(pos components.Placement, b components.Brush, ch components.Channels) ecs.Entity {
	s.count++
	return s.brushMapper.NewEntity(&pos, &b, &ch)
}

// Remove deletes an entity. It is a no-op for entities already removed.
func (s *Scene) Remove(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.world.RemoveEntity(e)
	s.count--
}

// Len returns the number of entities in the scene.
func (s *Scene) Len() int {
	return s.count
}

// Apply paints every entity onto p.
func (s *Scene) Apply(p Painter) error {
	n := p.Size()
	cp, multi := p.(channelPainter)

	stamps := s.stampFilter.Query()
	for stamps.Next() {
		pos, st, ch := stamps.Get()
		pat, err := BuildPattern(*st)
		if err != nil {
			stamps.Close()
			return err
		}
		x, y := pos.Cell(n)
		if err := paintStamp(p, cp, multi, *ch, pat, x, y, st.Scale); err != nil {
			stamps.Close()
			return err
		}
	}

	brushes := s.brushFilter.Query()
	for brushes.Next() {
		pos, b, ch := brushes.Get()
		x, y := pos.Cell(n)
		if !multi || ch.Mask == 0 {
			p.DrawCircle(x, y, b.Radius, b.Value)
			continue
		}
		for i := 0; i < engine.Channels; i++ {
			if ch.Has(i) {
				c, _ := cp.Channel(i)
				c.DrawCircle(x, y, b.Radius, b.Value)
			}
		}
	}
	return nil
}

func paintStamp(p Painter, cp channelPainter, multi bool, ch components.Channels, pat engine.Pattern, x, y int, scale float64) error {
	if !multi || ch.Mask == 0 {
		return p.PlacePattern(pat, x, y, scale)
	}
	for i := 0; i < engine.Channels; i++ {
		if !ch.Has(i) {
			continue
		}
		c, err := cp.Channel(i)
		if err != nil {
			return err
		}
		if err := c.PlacePattern(pat, x, y, scale); err != nil {
			return err
		}
	}
	return nil
}
