// Package components defines ECS components for scene entities: seed
// placements that are painted onto an engine whenever the field is reset.
package components

// PatternKind selects a procedural seed pattern.
type PatternKind uint8

const (
	PatternBlob  PatternKind = iota // Gaussian bump
	PatternRing                     // Bell-shaped annulus
	PatternNoise                    // Perlin-noise disc
)

// String returns the config name of the kind.
func (k PatternKind) String() string {
	switch k {
	case PatternBlob:
		return "blob"
	case PatternRing:
		return "ring"
	case PatternNoise:
		return "noise"
	}
	return "unknown"
}

// ParsePatternKind maps a config name to a kind.
func ParsePatternKind(s string) (PatternKind, bool) {
	switch s {
	case "blob":
		return PatternBlob, true
	case "ring":
		return PatternRing, true
	case "noise":
		return PatternNoise, true
	}
	return 0, false
}

// Placement is an entity's center as a fraction of the grid side, so a
// scene is independent of grid size.
type Placement struct {
	X, Y float64
}

// Cell converts the placement to cell coordinates on an n×n grid.
func (p Placement) Cell(n int) (int, int) {
	return int(p.X * float64(n)), int(p.Y * float64(n))
}

// Stamp adds a procedural pattern at the placement.
type Stamp struct {
	Kind   PatternKind
	Radius float64 // cells, before Scale
	Peak   float64 // maximum cell value
	Scale  float64 // nearest-neighbor resampling factor
	Seed   int64   // noise patterns only
}

// Brush fills a disc at the placement.
type Brush struct {
	Radius float64
	Value  float64
}

// Channels restricts an entity to some channels of a multi-channel engine.
// Bit i selects channel i; a zero mask means every channel, using the
// engine's own per-channel offsets.
type Channels struct {
	Mask uint8
}

// Has reports whether channel i is selected.
func (c Channels) Has(i int) bool {
	return c.Mask == 0 || c.Mask&(1<<uint(i)) != 0
}

// MaskOf builds a channel mask from indices.
func MaskOf(channels ...int) Channels {
	var c Channels
	for _, i := range channels {
		if i >= 0 && i < 8 {
			c.Mask |= 1 << uint(i)
		}
	}
	return c
}
