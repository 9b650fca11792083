// Package components defines ECS components for screen decor.
package components

// Reveal eases a decor entity into place once its delay has elapsed.
// Progress runs from 0 (hidden, offset by Rise) to 1 (settled).
type Reveal struct {
	Delay    float64 // Seconds after the screen starts
	Rise     float32 // px below the resting position at Progress 0
	Progress float64
	Velocity float64 // Spring state
	Hidden   bool    // Target 0 instead of 1
}

// Alpha returns the draw opacity for the current progress.
func (r *Reveal) Alpha() float32 {
	switch {
	case r.Progress <= 0:
		return 0
	case r.Progress >= 1:
		return 1
	}
	return float32(r.Progress)
}

// Offset returns the vertical draw offset for the current progress.
// Spring overshoot past 1 shows as a slight lift.
func (r *Reveal) Offset() float32 {
	p := r.Progress
	if p < 0 {
		p = 0
	}
	return r.Rise * float32(1-p)
}

// Settled reports whether the entity has reached its target.
func (r *Reveal) Settled() bool {
	target := 1.0
	if r.Hidden {
		target = 0
	}
	d := r.Progress - target
	return d < 0.005 && d > -0.005 && r.Velocity < 0.01 && r.Velocity > -0.01
}

// Label is a line of text.
type Label struct {
	Text  string
	Size  int32 // Font size in px
	Color [3]uint8
}

// TileKind distinguishes clickable tiles.
type TileKind uint8

const (
	TileMood TileKind = iota
	TileDish
	TileButton
)

// Tile is a rectangular card. Index refers to the screen's content list.
type Tile struct {
	Kind     TileKind
	Index    int
	Title    string
	Subtitle string
	Selected bool
}
