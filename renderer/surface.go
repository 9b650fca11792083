// Package renderer provides drawing surfaces and the trail renderer.
package renderer

import (
	"image/color"
)

// GradientStop is one colour stop of a radial gradient. Offset runs from
// 0 at the centre to 1 at the gradient radius.
type GradientStop struct {
	Offset float32
	Color  color.NRGBA
}

// Surface is a persistent drawing target owned by one mounted trail.
// Content survives between frames; FadeTrail dims it instead of clearing,
// which is what leaves motion trails behind particles.
type Surface interface {
	// Available reports whether the host can draw at all. A surface that
	// is not available turns the trail into a no-op.
	Available() bool
	// Resize reallocates the backing store. Content is not preserved.
	Resize(width, height int32)
	Size() (width, height int32)

	Begin()
	// FadeTrail paints c over the whole surface at c's alpha.
	FadeTrail(c color.NRGBA)
	// FillGradientDisc fills a disc of radius with a radial gradient whose
	// stops span gradientRadius. Particle draws composite additively.
	FillGradientDisc(x, y, radius, gradientRadius float32, stops []GradientStop)
	Disc(x, y, radius float32, c color.NRGBA)
	End()

	// Present composites the surface onto the host frame, above content.
	Present()
	Unload()
}

// SampleGradient returns the interpolated colour at t in [0, 1].
// Stops must be sorted by offset.
func SampleGradient(stops []GradientStop, t float32) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.Offset {
			continue
		}
		a := stops[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return color.NRGBA{
			R: lerp8(a.Color.R, b.Color.R, f),
			G: lerp8(a.Color.G, b.Color.G, f),
			B: lerp8(a.Color.B, b.Color.B, f),
			A: lerp8(a.Color.A, b.Color.A, f),
		}
	}
	return last.Color
}

func lerp8(a, b uint8, f float32) uint8 {
	v := float32(a) + (float32(b)-float32(a))*f
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
