// Trail preview tool - move the mouse over the panel and tune a profile
// with sliders. Every change remounts the trail with the new values.
//
// Usage: go run ./cmd/trailpreview [-profile mood] [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savor/camera"
	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/trail"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewX     = 10
	previewY     = 10
	previewW     = 700
	previewH     = 700
	panelX       = previewX + previewW + 20
	panelWidth   = windowWidth - panelX - 10
)

// slider describes one tunable profile field.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(p *config.ProfileConfig) float32
	set      func(p *config.ProfileConfig, v float32)
}

var sliders = []slider{
	{"Cap (live particles)", 5, 300, "%.0f",
		func(p *config.ProfileConfig) float32 { return float32(p.Cap) },
		func(p *config.ProfileConfig, v float32) { p.Cap = int(v) }},
	{"Throttle (ms between samples)", 0, 200, "%.0f",
		func(p *config.ProfileConfig) float32 { return float32(p.ThrottleMS) },
		func(p *config.ProfileConfig, v float32) { p.ThrottleMS = float64(v) }},
	{"Max per sample", 1, 10, "%.0f",
		func(p *config.ProfileConfig) float32 { return float32(p.MaxPerSample) },
		func(p *config.ProfileConfig, v float32) { p.MaxPerSample = int(v) }},
	{"Sparkle chance", 0, 1, "%.2f",
		func(p *config.ProfileConfig) float32 { return float32(p.SparkleChance) },
		func(p *config.ProfileConfig, v float32) { p.SparkleChance = float64(v) }},
	{"Damping (per reference frame)", 0.8, 1, "%.3f",
		func(p *config.ProfileConfig) float32 { return float32(p.Damping) },
		func(p *config.ProfileConfig, v float32) { p.Damping = float64(v) }},
	{"Fade alpha", 0.01, 1, "%.2f",
		func(p *config.ProfileConfig) float32 { return float32(p.FadeAlpha) },
		func(p *config.ProfileConfig, v float32) { p.FadeAlpha = float64(v) }},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	profileName := flag.String("profile", "mood", "Profile to tune")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults, ok := cfg.Profile(*profileName)
	if !ok {
		slog.Error("unknown profile", "profile", *profileName)
		os.Exit(1)
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Trail Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	driver := frame.NewDriver()
	start := time.Now()
	space := camera.Panel(previewX, previewY)
	seed := time.Now().UnixNano()

	var effect *trail.Effect
	mount := func() {
		if effect != nil {
			effect.Stop()
		}
		cfg.Trail.Profiles[*profileName] = params
		surface := renderer.NewRaylibSurface()
		surface.SetOrigin(previewX, previewY)
		effect, err = trail.New(cfg, *profileName, surface, driver, rand.New(rand.NewSource(seed)), trail.Options{Space: space})
		if err != nil {
			slog.Error("failed to create trail", "error", err)
			effect = nil
			return
		}
		effect.Resized(previewW, previewH)
		effect.Start()
	}
	mount()
	defer func() {
		if effect != nil {
			effect.Stop()
		}
	}()

	for !rl.WindowShouldClose() {
		now := time.Since(start)

		mouse := rl.GetMousePosition()
		inPreview := space.Contains(mouse.X-previewX, mouse.Y-previewY, previewW, previewH)
		if d := rl.GetMouseDelta(); effect != nil && inPreview && (d.X != 0 || d.Y != 0) {
			effect.PointerMoved(mouse.X, mouse.Y, now)
		}
		driver.RunFrame(now)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		bg := cfg.Screen.Background
		rl.DrawRectangle(previewX, previewY, previewW, previewH, rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255})
		if effect != nil {
			effect.Present()
		}
		rl.DrawRectangleLines(previewX, previewY, previewW, previewH, rl.DarkGray)

		// Control panel
		y := float32(previewY)
		rl.DrawText(fmt.Sprintf("Profile: %s", *profileName), panelX, int32(y), 20, rl.DarkGray)
		y += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, panelX, int32(y), 14, rl.Gray)
			y += 18
			cur := s.get(&params)
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: y, Width: float32(panelWidth - 70), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+panelWidth-60), int32(y+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&params, next)
				changed = true
			}
			y += 35
		}

		fixed := gui.CheckBox(rl.Rectangle{X: panelX, Y: y, Width: 20, Height: 20}, "Fixed step", cfg.Physics.FixedStep)
		if fixed != cfg.Physics.FixedStep {
			cfg.Physics.FixedStep = fixed
			changed = true
		}
		y += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Clear") {
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			changed = true
		}
		y += 50

		if changed {
			mount()
		}

		if effect != nil {
			st := effect.Stats()
			rl.DrawText(fmt.Sprintf("Particles: %d / %d", st.Particles, st.Cap), panelX, int32(y), 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Samples: %d / %d", st.Samples, st.Observed), panelX, int32(y+20), 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Spawned: %d  Evicted: %d", st.Engine.Spawned, st.Engine.Evicted), panelX, int32(y+40), 16, rl.DarkGray)
		}
		rl.DrawFPS(panelX, windowHeight-30)

		rl.EndDrawing()
	}
}
