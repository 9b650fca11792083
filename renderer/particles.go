package renderer

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/systems"
)

// coreThreshold is the fade above which sparkles get a bright core.
const coreThreshold = 0.7

// TrailRenderer turns the live particle set into surface draw calls.
type TrailRenderer struct {
	fade  color.NRGBA
	stops []GradientStop

	drawCalls uint64
}

// NewTrailRenderer creates a renderer that fades toward bg at fadeAlpha per frame.
func NewTrailRenderer(bg config.RGB, fadeAlpha float64) *TrailRenderer {
	return &TrailRenderer{
		fade:  color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: unitToByte(fadeAlpha)},
		stops: make([]GradientStop, 0, 4),
	}
}

// Draw renders one frame: fade overlay first, then particles in insertion order.
func (r *TrailRenderer) Draw(s Surface, particles []systems.Particle) {
	s.Begin()
	s.FadeTrail(r.fade)
	r.drawCalls++

	for i := range particles {
		p := &particles[i]
		if p.Life <= 0 {
			continue
		}
		switch p.Kind {
		case systems.KindSparkle:
			r.drawSparkle(s, p)
		case systems.KindGlow:
			r.drawGlow(s, p)
		}
	}
	s.End()
}

// DrawCalls returns the number of surface primitives issued so far.
func (r *TrailRenderer) DrawCalls() uint64 {
	return r.drawCalls
}

func (r *TrailRenderer) drawSparkle(s Surface, p *systems.Particle) {
	fade := p.FadeAlpha()
	shimmer := p.ShimmerIntensity()

	r.stops = SparkleStops(p, fade, shimmer, r.stops[:0])
	s.FillGradientDisc(float32(p.X), float32(p.Y), float32(p.Size*shimmer), float32(p.Size*2), r.stops)
	r.drawCalls++

	if fade > coreThreshold {
		s.Disc(float32(p.X), float32(p.Y), float32(p.Size*0.3), HSLA(p.Hue, 100, 90, fade*0.6))
		r.drawCalls++
	}
}

func (r *TrailRenderer) drawGlow(s Surface, p *systems.Particle) {
	fade := p.FadeAlpha()

	r.stops = GlowStops(p, fade, r.stops[:0])
	s.FillGradientDisc(float32(p.X), float32(p.Y), float32(p.Size), float32(p.Size*1.5), r.stops)
	r.drawCalls++
}

// SparkleStops builds the four stop sparkle gradient. The inner stop is
// brightened by the shimmer sinusoid.
func SparkleStops(p *systems.Particle, fade, shimmer float64, dst []GradientStop) []GradientStop {
	a := fade * p.Alpha
	return append(dst,
		GradientStop{0, HSLA(p.Hue, p.Saturation, p.Lightness+shimmer*10, a)},
		GradientStop{0.4, HSLA(p.Hue, p.Saturation, p.Lightness, a*0.8)},
		GradientStop{0.7, HSLA(p.Hue, p.Saturation-20, p.Lightness-10, a*0.4)},
		GradientStop{1, HSLA(p.Hue, p.Saturation-40, p.Lightness-20, 0)},
	)
}

// GlowStops builds the softer three stop glow gradient.
func GlowStops(p *systems.Particle, fade float64, dst []GradientStop) []GradientStop {
	a := fade * p.Alpha
	return append(dst,
		GradientStop{0, HSLA(p.Hue, p.Saturation, p.Lightness, a*0.6)},
		GradientStop{0.5, HSLA(p.Hue, p.Saturation, p.Lightness-5, a*0.3)},
		GradientStop{1, HSLA(p.Hue, p.Saturation-10, p.Lightness-10, 0)},
	)
}

// HSLA converts hue in degrees, saturation and lightness in percent and
// alpha in [0, 1] to a straight-alpha colour. Out of range inputs clamp.
func HSLA(h, s, l, a float64) color.NRGBA {
	c := colorful.Hsl(h, clampUnit(s/100), clampUnit(l/100)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: unitToByte(a)}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unitToByte(v float64) uint8 {
	return uint8(clampUnit(v)*255 + 0.5)
}
