package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savor/components"
	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/ui"
)

// wipeColor is the transition overlay (Tailwind yellow-400).
var wipeColor = rl.Color{R: 250, G: 204, B: 21, A: 255}

// rgbColor converts a config colour with opacity a in [0, 1].
func rgbColor(c config.RGB, a float32) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(a) * 255)}
}

func labelColor(c [3]uint8, a float32) rl.Color {
	return rl.Color{R: c[0], G: c[1], B: c[2], A: uint8(clamp01(a) * 255)}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// drawScreen draws the background and decor of the active screen.
func (g *Game) drawScreen() {
	d := g.director
	g.drawBackground(d.Background())

	if d.Screen() == ScreenLoader {
		g.drawLoader()
	}

	scroll := d.ScrollOffset()
	bob := d.Screen() == ScreenLoader
	elapsed := d.Elapsed()

	d.Decor().EachTile(func(pos *components.Position, b *components.Bounds, r *components.Reveal, t *components.Tile) {
		y := pos.Y + r.Offset() - scroll
		g.drawTile(pos.X, y, b.W, b.H, r.Alpha(), t)
	})
	d.Decor().EachLabel(func(pos *components.Position, r *components.Reveal, l *components.Label) {
		y := pos.Y + r.Offset() - scroll
		if bob {
			y += float32(math.Sin(elapsed*2+r.Delay)) * 6
		}
		ui.DrawCenteredText(l.Text, int32(pos.X), int32(y), l.Size, labelColor(l.Color, r.Alpha()))
	})

	if g.overlays.IsEnabled(ui.OverlayBounds) {
		d.Decor().EachTile(func(pos *components.Position, b *components.Bounds, r *components.Reveal, _ *components.Tile) {
			rl.DrawRectangleLines(int32(pos.X), int32(pos.Y+r.Offset()-scroll), int32(b.W), int32(b.H), rl.Magenta)
		})
	}
}

// drawBackground fills the window with a left-to-right gradient through stops.
func (g *Game) drawBackground(stops []config.RGB) {
	switch len(stops) {
	case 0:
		return
	case 1:
		rl.DrawRectangle(0, 0, g.width, g.height, rgbColor(stops[0], 1))
		return
	}
	segments := int32(len(stops) - 1)
	segW := g.width / segments
	for i := int32(0); i < segments; i++ {
		w := segW
		if i == segments-1 {
			w = g.width - segW*i
		}
		rl.DrawRectangleGradientH(segW*i, 0, w, g.height, rgbColor(stops[i], 1), rgbColor(stops[i+1], 1))
	}
}

// drawLoader draws the splash: the airplane tracing an L, the morph to the
// wordmark, then the counter.
func (g *Game) drawLoader() {
	phase, progress := g.director.LoaderPhase()
	l := g.cfg.Screens.Loader
	elapsed := float32(g.director.Elapsed())

	cx, cy := g.width/2, g.height/2
	// L path (40,25) -> (40,65) -> (70,65) in a 100 unit box, scaled 3x
	const scale = 3
	ox := float32(cx) - 50*scale
	oy := float32(cy) - 50*scale
	p0 := rl.Vector2{X: ox + 40*scale, Y: oy + 25*scale}
	p1 := rl.Vector2{X: ox + 40*scale, Y: oy + 65*scale}
	p2 := rl.Vector2{X: ox + 70*scale, Y: oy + 65*scale}
	gold := rl.Color{R: 251, G: 191, B: 36, A: 255}

	switch phase {
	case PhaseAirplane:
		t := clamp01(elapsed / float32(l.MorphAtSec))
		tip := pathPoint(p0, p1, p2, t)
		if t < 0.5 {
			rl.DrawLineEx(p0, tip, 6, gold)
		} else {
			rl.DrawLineEx(p0, p1, 6, gold)
			rl.DrawLineEx(p1, tip, 6, gold)
		}
		rl.DrawCircleV(tip, 9, rl.White)
	case PhaseMorphing:
		t := clamp01((elapsed - float32(l.MorphAtSec)) / float32(l.CompleteAtSec-l.MorphAtSec))
		rl.DrawLineEx(p0, p1, 6, rl.Fade(gold, 1-t))
		rl.DrawLineEx(p1, p2, 6, rl.Fade(gold, 1-t))
		ui.DrawCenteredText("savor", cx, cy-24, 48, rl.Fade(rl.White, t))
	default:
		ui.DrawCenteredText("savor", cx, cy-90, 48, rl.White)
		ui.DrawCenteredText(fmt.Sprintf("%d%%", progress), cx, cy-20, 64, gold)
		barW := int32(240)
		rl.DrawRectangle(cx-barW/2, cy+60, barW, 4, rl.Color{R: 60, G: 60, B: 60, A: 255})
		rl.DrawRectangle(cx-barW/2, cy+60, barW*int32(progress)/100, 4, gold)
	}
}

// pathPoint returns the point at t along the two-segment path p0-p1-p2,
// each segment taking half of t.
func pathPoint(p0, p1, p2 rl.Vector2, t float32) rl.Vector2 {
	if t < 0.5 {
		return rl.Vector2{X: p0.X + (p1.X-p0.X)*t*2, Y: p0.Y + (p1.Y-p0.Y)*t*2}
	}
	u := (t - 0.5) * 2
	return rl.Vector2{X: p1.X + (p2.X-p1.X)*u, Y: p1.Y + (p2.Y-p1.Y)*u}
}

// drawTile draws a mood card, the start button or a dish card.
func (g *Game) drawTile(x, y, w, h, alpha float32, t *components.Tile) {
	if alpha <= 0 {
		return
	}
	rec := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	switch t.Kind {
	case components.TileMood:
		fill := float32(0.15)
		if t.Selected {
			fill = 0.35
		}
		rl.DrawRectangleRounded(rec, 0.2, 8, rl.Fade(rl.White, fill*alpha))
		border := rl.Fade(rl.White, 0.2*alpha)
		if t.Selected {
			border = rl.Fade(rl.White, 0.8*alpha)
		}
		rl.DrawRectangleRoundedLines(rec, 0.2, 8, border)
		rl.DrawText(t.Title, int32(x)+16, int32(y)+20, 24, rl.Fade(rl.White, alpha))
		rl.DrawText(t.Subtitle, int32(x)+16, int32(y+h)-36, 12, rl.Fade(rl.White, 0.8*alpha))

	case components.TileButton:
		rl.DrawRectangleRounded(rec, 1, 16, rl.Fade(rl.White, alpha))
		ui.DrawCenteredText(t.Title, int32(x+w/2), int32(y+h/2)-10, 20, rl.Fade(rl.DarkGray, alpha))

	case components.TileDish:
		base := renderer.HSLA(float64((t.Index*47)%360), 35, 28, 1)
		rl.DrawRectangleRec(rec, rl.Fade(rl.Color{R: base.R, G: base.G, B: base.B, A: 255}, alpha))
		shade := rl.Rectangle{X: x, Y: y + h - 64, Width: w, Height: 64}
		rl.DrawRectangleRec(shade, rl.Fade(rl.Black, 0.5*alpha))
		rl.DrawText(t.Subtitle, int32(x)+12, int32(y+h)-56, 12, rl.Fade(rl.Color{R: 251, G: 191, B: 36, A: 255}, alpha))
		rl.DrawText(t.Title, int32(x)+12, int32(y+h)-36, 14, rl.Fade(rl.White, alpha))
		if t.Selected {
			rl.DrawRectangleLinesEx(rec, 3, rl.Fade(rl.Color{R: 251, G: 191, B: 36, A: 255}, alpha))
		}
	}
}

// drawWipe draws the transition overlay growing down from the top.
func (g *Game) drawWipe() {
	w := g.director.Wipe()
	if w == nil {
		return
	}
	height := int32(w.Coverage() * float64(g.height))
	if height > 0 {
		rl.DrawRectangle(0, 0, g.width, height, wipeColor)
	}
}

// drawOverlays draws the HUD and whichever debug panels are enabled.
func (g *Game) drawOverlays() {
	d := g.director
	effect := d.Effect()

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		data := ui.HUDData{Screen: d.Screen().String(), FPS: rl.GetFPS()}
		if effect != nil {
			st := effect.Stats()
			data.Profile = st.Profile
			data.Particles = st.Particles
			data.Paused = !st.Visible
		}
		g.hud.Draw(data)
		g.hud.DrawControls(g.height, "Ctrl+H/T/P/B: overlays  F1: controls  F11: fullscreen  1-4: mood  Enter: start")
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controls.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayTrailStats) && effect != nil {
		g.trail.Draw(effect.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perf.Draw(g.hooks.perfCollector.Stats())
	}
}
