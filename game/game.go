// Package game hosts the marketing screens in a raylib window: the
// director timeline, input forwarding, drawing and the debug overlays.
package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/telemetry"
	"github.com/pthm-cable/savor/ui"
)

// Game is the windowed host. It pumps the frame driver once per raylib
// frame and draws the active screen with the trail composited on top.
type Game struct {
	cfg      *config.Config
	driver   *frame.Driver
	director *Director
	hooks    telemetryHooks

	start     time.Time
	lastNow   time.Duration
	haveFrame bool

	width, height int32

	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	controls *ui.ControlsPanel
	trail    *ui.TrailPanel
	perf     *ui.PerfPanel
}

// NewGame creates the host. The raylib window must already be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		driver: frame.NewDriver(),
		start:  time.Now(),
		width:  int32(rl.GetScreenWidth()),
		height: int32(rl.GetScreenHeight()),
		hooks: telemetryHooks{
			collector:     telemetry.NewCollector(cfg.Telemetry.WindowFrames),
			perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
			outputManager: output,
			logStats:      opts.LogStats,
			statsCallback: opts.StatsCallback,
		},
		overlays: ui.NewOverlayRegistry(),
		hud:      ui.NewHUD(),
		controls: ui.NewControlsPanel(10, 50, 200),
		trail:    ui.NewTrailPanel(0, 10, 230),
		perf:     ui.NewPerfPanel(10, 0),
	}
	g.overlays.SetEnabled(ui.OverlayHUD, true)
	if opts.Debug {
		g.overlays.SetEnabled(ui.OverlayTrailStats, true)
		g.overlays.SetEnabled(ui.OverlayPerf, true)
	}
	g.layoutPanels()

	g.director = NewDirector(cfg, g.driver, int(g.width), int(g.height), DirectorOptions{
		NewSurface: func() renderer.Surface { return renderer.NewRaylibSurface() },
		Perf:       g.hooks.perfCollector,
		Collector:  g.hooks.collector,
		Seed:       opts.Seed,
	})
	return g, nil
}

// Update handles input, advances the timeline and runs the trail frame.
func (g *Game) Update() {
	now := time.Since(g.start)

	g.handleResize()
	g.handleVisibility()

	g.director.Update(now)
	g.handleInput(now)
	g.driver.RunFrame(now)

	var frameTime time.Duration
	if g.haveFrame {
		frameTime = now - g.lastNow
	}
	g.lastNow, g.haveFrame = now, true
	g.hooks.frame(frameTime, g.director.Effect())
}

// Draw renders the active screen, the trail, the wipe and the overlays.
func (g *Game) Draw() {
	g.hooks.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rgbColor(g.cfg.Screen.Background, 1))

	g.drawScreen()
	if e := g.director.Effect(); e != nil {
		e.Present()
	}
	g.drawWipe()
	g.drawOverlays()

	rl.EndDrawing()
}

// Unload tears down the trail and flushes telemetry.
func (g *Game) Unload() {
	g.hooks.close(g.director.Effect())
	g.director.Close()
}

// Director exposes the screen timeline.
func (g *Game) Director() *Director {
	return g.director
}

// Frame returns the number of frames run.
func (g *Game) Frame() int64 {
	return g.director.FrameNumber()
}

func (g *Game) layoutPanels() {
	g.trail.SetPosition(g.width-240, 10)
	g.perf.SetPosition(10, g.height-90)
}
