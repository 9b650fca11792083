package renderer

import "image/color"

// NullSurface draws nothing and counts calls. Headless runs use it to
// measure the pipeline; Unavailable makes it behave like a host without
// a drawing surface.
type NullSurface struct {
	Unavailable bool

	width, height int32

	Resizes   int
	Frames    int
	Fades     int
	Gradients int
	Discs     int
	Presents  int
	Unloads   int
}

func (s *NullSurface) Available() bool { return !s.Unavailable }

func (s *NullSurface) Resize(width, height int32) {
	s.width, s.height = width, height
	s.Resizes++
}

func (s *NullSurface) Size() (int32, int32) { return s.width, s.height }

func (s *NullSurface) Begin() { s.Frames++ }

func (s *NullSurface) FadeTrail(color.NRGBA) { s.Fades++ }

func (s *NullSurface) FillGradientDisc(x, y, radius, gradientRadius float32, stops []GradientStop) {
	s.Gradients++
}

func (s *NullSurface) Disc(x, y, radius float32, c color.NRGBA) { s.Discs++ }

func (s *NullSurface) End() {}

func (s *NullSurface) Present() { s.Presents++ }

func (s *NullSurface) Unload() { s.Unloads++ }

// DrawCalls returns the number of primitives drawn.
func (s *NullSurface) DrawCalls() int {
	return s.Fades + s.Gradients + s.Discs
}
