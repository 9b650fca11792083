package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/telemetry"
	"github.com/pthm-cable/savor/trail"
)

// Headless drives one trail over a NullSurface with a synthetic pointer,
// for soak runs and profiling without a window. Time advances by one
// reference frame per Step so runs are reproducible for a seed.
type Headless struct {
	cfg     *config.Config
	driver  *frame.Driver
	surface *renderer.NullSurface
	effect  *trail.Effect
	hooks   telemetryHooks

	now   time.Duration
	step  time.Duration
	frame int64
	w, h  int
}

// NewHeadless mounts profile on a null surface of the configured screen size.
func NewHeadless(cfg *config.Config, profile string, opts Options) (*Headless, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	hl := &Headless{
		cfg:     cfg,
		driver:  frame.NewDriver(),
		surface: &renderer.NullSurface{},
		step:    cfg.Derived.ReferenceFrame,
		w:       cfg.Screen.Width,
		h:       cfg.Screen.Height,
		hooks: telemetryHooks{
			collector:     telemetry.NewCollector(cfg.Telemetry.WindowFrames),
			perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
			outputManager: output,
			logStats:      opts.LogStats,
			statsCallback: opts.StatsCallback,
		},
	}

	hl.effect, err = trail.New(cfg, profile, hl.surface, hl.driver, rand.New(rand.NewSource(seed)), trail.Options{
		Perf: hl.hooks.perfCollector,
	})
	if err != nil {
		output.Close()
		return nil, err
	}
	hl.effect.Resized(hl.w, hl.h)
	if !hl.effect.Start() {
		output.Close()
		return nil, fmt.Errorf("headless surface unavailable")
	}

	c := hl.hooks.collector
	c.SetCap(hl.effect.Stats().Cap)
	c.Record(telemetry.NewMountEvent(0, profile))
	return hl, nil
}

// Step moves the pointer along its path and runs one frame.
func (hl *Headless) Step() {
	x, y := lissajous(hl.now, hl.w, hl.h)
	hl.effect.PointerMoved(x, y, hl.now)
	hl.driver.RunFrame(hl.now)
	hl.hooks.perfCollector.RecordFrame()

	hl.frame++
	hl.hooks.frame(hl.step, hl.effect)
	hl.now += hl.step
}

// Frame returns the number of frames run.
func (hl *Headless) Frame() int64 {
	return hl.frame
}

// Effect exposes the mounted trail.
func (hl *Headless) Effect() *trail.Effect {
	return hl.effect
}

// Surface exposes the null surface and its draw counters.
func (hl *Headless) Surface() *renderer.NullSurface {
	return hl.surface
}

// Unload stops the trail and flushes telemetry.
func (hl *Headless) Unload() {
	hl.hooks.collector.Record(telemetry.NewUnmountEvent(hl.frame, hl.effect.Profile()))
	hl.hooks.close(hl.effect)
	hl.effect.Stop()
	st := hl.effect.Stats()
	slog.Info("headless run finished",
		"frames", hl.frame,
		"spawned", st.Engine.Spawned,
		"evicted", st.Engine.Evicted,
		"draw_calls", hl.effect.DrawCalls(),
	)
}

// lissajous traces a 3:2 figure across the middle 80% of the screen with
// a period of a few seconds, fast enough to spawn several particles per
// sample on the straights and one at the turns.
func lissajous(t time.Duration, w, h int) (float32, float32) {
	s := t.Seconds()
	x := 0.5 + 0.4*math.Sin(3*s*0.9)
	y := 0.5 + 0.4*math.Sin(2*s*0.9+math.Pi/2)
	return float32(x * float64(w)), float32(y * float64(h))
}
