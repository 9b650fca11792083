package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savor/telemetry"
	"github.com/pthm-cable/savor/trail"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Screen    string
	Profile   string // Empty when the screen has no trail
	Particles int
	FPS       int32
	Paused    bool // Window hidden or minimised
}

// HUD renders the heads-up line in the top-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	trailText := "trail: off"
	if data.Profile != "" {
		trailText = fmt.Sprintf("trail: %s (%d)", data.Profile, data.Particles)
	}
	rl.DrawText(
		fmt.Sprintf("%s | %s | FPS: %d", data.Screen, trailText, data.FPS),
		10, 10, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", 10, 30, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func statsOf(data any) trail.Stats {
	s, _ := data.(trail.Stats)
	return s
}

// TrailSections describes the trail stats panel over a trail.Stats value.
func TrailSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "live",
			Title: "Live Set",
			Fields: []FieldDescriptor{
				{ID: "profile", Label: "Profile", Widget: WidgetText, TextGetter: func(d any) string { return statsOf(d).Profile }},
				{
					ID: "particles", Label: "Particles", Widget: WidgetBar, Format: "%.0f",
					Getter: func(d any) float32 { return float32(statsOf(d).Particles) },
					Visible: func(d any) bool { return statsOf(d).Cap > 0 },
				},
				{ID: "pending", Label: "Queued", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(statsOf(d).Pending) }},
				{ID: "running", Label: "Loop", Widget: WidgetText, TextGetter: func(d any) string {
					s := statsOf(d)
					switch {
					case s.Running:
						return "running"
					case !s.Visible:
						return "paused"
					}
					return "stopped"
				}},
			},
		},
		{
			ID:    "counters",
			Title: "Counters",
			Fields: []FieldDescriptor{
				{ID: "samples", Label: "Samples", Widget: WidgetText, TextGetter: func(d any) string {
					s := statsOf(d)
					return fmt.Sprintf("%d / %d", s.Samples, s.Observed)
				}},
				{ID: "spawned", Label: "Spawned", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprint(statsOf(d).Engine.Spawned) }},
				{ID: "evicted", Label: "Evicted", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprint(statsOf(d).Engine.Evicted) }},
				{ID: "expired", Label: "Expired", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprint(statsOf(d).Engine.Expired) }},
				{ID: "panics", Label: "Panics", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprint(statsOf(d).Panics) },
					Visible: func(d any) bool { return statsOf(d).Panics > 0 }},
			},
		},
	}
}

// TrailPanel renders trail stats from TrailSections.
type TrailPanel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewTrailPanel creates a trail stats panel.
func NewTrailPanel(x, y, width int32) *TrailPanel {
	return &TrailPanel{renderer: NewRenderer(), sections: TrailSections(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *TrailPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the panel and returns the Y below it.
func (p *TrailPanel) Draw(stats trail.Stats) int32 {
	r := p.renderer
	pad := r.Theme.Padding

	// The particle bar is scaled to this trail's cap
	p.sections[0].Fields[1].Range = FieldRange{Max: float32(stats.Cap)}

	height := pad * 2
	for _, sd := range p.sections {
		height += r.SectionHeight(sd, stats)
	}
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + pad
	for _, sd := range p.sections {
		y = r.DrawSection(p.x+pad, y, sd, stats, p.width-pad*2)
	}
	return p.y + height
}

// PerfPanel renders the frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s  FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range stats.Phases() {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}

		rl.DrawText(fmt.Sprintf("%-8s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
