// Package camera provides pan and zoom over a toroidal grid.
package camera

import "math"

// Camera maps a square viewport onto an N×N toroidal grid.
// At zoom 1 the whole grid fills the viewport; higher zoom magnifies.
type Camera struct {
	// Position is the viewport center in grid cells
	X, Y float32

	// Zoom level (1.0 = whole grid, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions in screen pixels
	ViewportW, ViewportH float32

	// Grid side in cells (for toroidal wrapping)
	GridN float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the grid with the whole grid in view.
func New(viewportW, viewportH float32, gridN int) *Camera {
	n := float32(gridN)
	return &Camera{
		X:         n / 2,
		Y:         n / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridN:     n,
		MinZoom:   1.0,
		MaxZoom:   16.0,
	}
}

// scale returns screen pixels per cell, fitting the grid to the shorter
// viewport side at zoom 1.
func (c *Camera) scale() float32 {
	return min(c.ViewportW, c.ViewportH) / c.GridN * c.Zoom
}

// CellToScreen converts grid coordinates to viewport coordinates using the
// shortest toroidal path from the camera center.
func (c *Camera) CellToScreen(gx, gy float32) (sx, sy float32) {
	dx := toroidalDelta(gx, c.X, c.GridN)
	dy := toroidalDelta(gy, c.Y, c.GridN)

	s := c.scale()
	return c.ViewportW/2 + dx*s, c.ViewportH/2 + dy*s
}

// ScreenToCell converts viewport coordinates to wrapped grid coordinates.
func (c *Camera) ScreenToCell(sx, sy float32) (gx, gy float32) {
	s := c.scale()
	dx := (sx - c.ViewportW/2) / s
	dy := (sy - c.ViewportH/2) / s
	return mod(c.X+dx, c.GridN), mod(c.Y+dy, c.GridN)
}

// CellAt returns the integer cell under a viewport position.
func (c *Camera) CellAt(sx, sy float32) (x, y int) {
	gx, gy := c.ScreenToCell(sx, sy)
	n := int(c.GridN)
	return min(int(gx), n-1), min(int(gy), n-1)
}

// SourceRect returns the visible region in grid cells as (x, y, w, h).
// x and y may fall outside [0, N); the field texture repeats.
func (c *Camera) SourceRect() (x, y, w, h float32) {
	s := c.scale()
	w = c.ViewportW / s
	h = c.ViewportH / s
	return c.X - w/2, c.Y - h/2, w, h
}

// CellPx returns the on-screen size of one cell.
func (c *Camera) CellPx() float32 {
	return c.scale()
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around grid boundaries.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	c.X = mod(c.X+dx/s, c.GridN)
	c.Y = mod(c.Y+dy/s, c.GridN)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Follow centers the camera on a grid position.
func (c *Camera) Follow(gx, gy float32) {
	c.X = mod(gx, c.GridN)
	c.Y = mod(gy, c.GridN)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.GridN / 2
	c.Y = c.GridN / 2
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
