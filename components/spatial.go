package components

// Position is the resting place of a decor entity in screen pixels.
// Reveal offsets are applied on top when drawing.
type Position struct {
	X, Y float32
}

// Bounds is the size of a rectangular decor entity, anchored at its Position.
type Bounds struct {
	W, H float32
}

// Contains reports whether (x, y) falls inside the rectangle at p.
func (b Bounds) Contains(p Position, x, y float32) bool {
	return x >= p.X && y >= p.Y && x < p.X+b.W && y < p.Y+b.H
}
