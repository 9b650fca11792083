package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// gradientBands is how many concentric rings approximate one radial gradient.
const gradientBands = 6

// RaylibSurface draws into a persistent render texture and composites it
// additively over the frame, so overlapping particles brighten.
type RaylibSurface struct {
	target        rl.RenderTexture2D
	width, height int32
	origin        rl.Vector2 // where Present places the top-left corner
	loaded        bool
	additive      bool // particle blend mode active inside Begin/End
}

// NewRaylibSurface creates an unallocated surface; Resize allocates it.
func NewRaylibSurface() *RaylibSurface {
	return &RaylibSurface{}
}

// SetOrigin moves where Present draws the surface, for trails confined
// to a panel of the window.
func (s *RaylibSurface) SetOrigin(x, y float32) {
	s.origin = rl.Vector2{X: x, Y: y}
}

// Available reports whether a raylib window exists.
func (s *RaylibSurface) Available() bool {
	return rl.IsWindowReady()
}

// Resize reallocates the render texture and clears it to transparent.
func (s *RaylibSurface) Resize(width, height int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if s.loaded && width == s.width && height == s.height {
		return
	}
	s.Unload()

	s.target = rl.LoadRenderTexture(width, height)
	s.width, s.height = width, height
	s.loaded = true

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Size returns the texture dimensions.
func (s *RaylibSurface) Size() (int32, int32) {
	return s.width, s.height
}

// Begin redirects drawing into the texture.
func (s *RaylibSurface) Begin() {
	if !s.loaded {
		return
	}
	rl.BeginTextureMode(s.target)
}

// FadeTrail dims existing content with normal alpha blending.
func (s *RaylibSurface) FadeTrail(c color.NRGBA) {
	if !s.loaded {
		return
	}
	rl.DrawRectangle(0, 0, s.width, s.height, toRL(c))
}

// FillGradientDisc draws the gradient as concentric rings, outermost first.
func (s *RaylibSurface) FillGradientDisc(x, y, radius, gradientRadius float32, stops []GradientStop) {
	if !s.loaded || radius <= 0 || gradientRadius <= 0 {
		return
	}
	s.beginAdditive()

	center := rl.Vector2{X: x, Y: y}
	step := radius / gradientBands
	for i := gradientBands - 1; i >= 0; i-- {
		inner := float32(i) * step
		outer := inner + step
		mid := (inner + outer) / 2
		c := SampleGradient(stops, mid/gradientRadius)
		if c.A == 0 {
			continue
		}
		if i == 0 {
			rl.DrawCircleV(center, outer, toRL(c))
			continue
		}
		rl.DrawRing(center, inner, outer, 0, 360, 24, toRL(c))
	}
}

// Disc draws a solid disc.
func (s *RaylibSurface) Disc(x, y, radius float32, c color.NRGBA) {
	if !s.loaded || radius <= 0 {
		return
	}
	s.beginAdditive()
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, toRL(c))
}

// End restores blending and the default framebuffer.
func (s *RaylibSurface) End() {
	if !s.loaded {
		return
	}
	if s.additive {
		rl.EndBlendMode()
		s.additive = false
	}
	rl.EndTextureMode()
}

// Present composites the texture over the current frame. Must be called
// between BeginDrawing and EndDrawing.
func (s *RaylibSurface) Present() {
	if !s.loaded {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	// Render textures are stored upside down
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(s.width), Height: -float32(s.height)}
	rl.DrawTextureRec(s.target.Texture, src, s.origin, rl.White)
	rl.EndBlendMode()
}

// Unload frees the render texture.
func (s *RaylibSurface) Unload() {
	if !s.loaded {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.loaded = false
	s.width, s.height = 0, 0
}

func (s *RaylibSurface) beginAdditive() {
	if s.additive {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	s.additive = true
}

func toRL(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
