package shadergraph

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when converting to an image color.
type Color struct {
	R, G, B, A float64
}

// ColorWhite, ColorBlack and ColorMagenta are the fixed preview colors for
// true, false and failed simulations.
var (
	ColorWhite   = Color{1, 1, 1, 1}
	ColorBlack   = Color{0, 0, 0, 1}
	ColorMagenta = Color{1, 0, 1, 1}
)

// RGBA converts c to a premultiplied color.RGBA, clamping components to [0, 1].
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Rect is the editor-space bounds of a node: X and Y locate its top-left
// corner, with Y growing downward. Layout never affects compilation or
// simulation.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the editor point (x, y) falls on the node. The
// border counts as inside, so a click on a node's outline selects it.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x-r.X <= r.Width && y-r.Y <= r.Height
}

// Intersects reports whether the node bounds r touch the selection box sel.
// Boxes sharing only an edge count as touching.
func (r Rect) Intersects(sel Rect) bool {
	return max(r.X, sel.X) <= min(r.X+r.Width, sel.X+sel.Width) &&
		max(r.Y, sel.Y) <= min(r.Y+r.Height, sel.Y+sel.Height)
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
