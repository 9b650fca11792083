// Package trail mounts a cursor trail on a host surface: pointer events
// in, a self-rescheduling frame loop that spawns, steps and draws.
package trail

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/savor/camera"
	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/systems"
	"github.com/pthm-cable/savor/telemetry"
)

// Options tunes an Effect beyond its profile.
type Options struct {
	// Space maps host coordinates to surface pixels. Zero means identity.
	Space camera.Space
	// Perf, when set, receives spawn/physics/render phase timings.
	Perf *telemetry.PerfCollector
	// OnReady runs once after a successful Start.
	OnReady func()
}

// Stats is a snapshot of an Effect for HUDs and telemetry.
type Stats struct {
	Profile   string
	Particles int
	Cap       int
	Pending   int
	Frames    uint64
	Panics    uint64
	Observed  uint64
	Samples   uint64
	Engine    systems.EngineStats
	Running   bool
	Visible   bool
}

// Effect is one mounted cursor trail. It owns its surface, engine and
// frame loop; Stop releases all of them. Not safe for concurrent use:
// the host calls it from the thread that pumps the scheduler.
type Effect struct {
	profileName string
	surface     renderer.Surface
	space       camera.Space
	loop        *frame.Loop
	perf        *telemetry.PerfCollector
	onReady     func()

	viewport systems.Viewport
	sampler  *systems.PointerSampler
	queue    systems.SpawnQueue
	engine   *systems.ParticleEngine
	trail    *renderer.TrailRenderer

	fixedStep bool
	refFrame  time.Duration
	maxScale  float64
	minScale  float64

	started bool
	stopped bool
	visible bool

	lastFrame time.Duration
	haveLast  bool

	due  []systems.SpawnRequest
	reqs []systems.SpawnRequest
}

// New builds an Effect for a named profile. The effect does nothing until
// Start. rng seeds the particle engine and must not be shared with
// another goroutine.
func New(cfg *config.Config, profileName string, surface renderer.Surface, sched frame.Scheduler, rng *rand.Rand, opts Options) (*Effect, error) {
	profile, ok := cfg.Profile(profileName)
	if !ok {
		return nil, fmt.Errorf("unknown trail profile %q", profileName)
	}
	if surface == nil {
		return nil, fmt.Errorf("trail %q: nil surface", profileName)
	}

	space := opts.Space
	if space.ScaleX == 0 || space.ScaleY == 0 {
		space = camera.Identity()
	}

	e := &Effect{
		profileName: profileName,
		surface:     surface,
		space:       space,
		perf:        opts.Perf,
		onReady:     opts.OnReady,
		sampler:     systems.NewPointerSampler(profile),
		engine:      systems.NewParticleEngine(systems.ParamsFromConfig(cfg, profile), rng),
		trail:       renderer.NewTrailRenderer(cfg.Screen.Background, profile.FadeAlpha),
		fixedStep:   cfg.Physics.FixedStep,
		refFrame:    cfg.Derived.ReferenceFrame,
		maxScale:    cfg.Physics.MaxStepScale,
		minScale:    cfg.Physics.MinStepScale,
		visible:     true,
	}
	e.loop = frame.NewLoop("trail:"+profileName, sched, e.tick)
	return e, nil
}

// Start sizes the surface and begins the frame loop. It reports false,
// without logging an error, when the host has no drawing surface; the
// trail is then inert. Starting twice, or after Stop, does nothing.
func (e *Effect) Start() bool {
	if e.started || e.stopped {
		return e.started && !e.stopped
	}
	if !e.surface.Available() {
		slog.Debug("trail surface unavailable, not mounting", "profile", e.profileName)
		return false
	}

	if !e.viewport.Known() {
		w, h := e.surface.Size()
		e.viewport.Update(int(w), int(h))
	}
	e.surface.Resize(e.viewport.Size())

	e.started = true
	if e.visible {
		e.loop.Start()
	}
	if e.onReady != nil {
		e.onReady()
	}
	return true
}

// Stop tears the trail down: the pending frame is cancelled, queued
// spawns dropped, the live set cleared and the surface released. Later
// input is ignored. Stop is idempotent.
func (e *Effect) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.loop.Stop()
	e.queue.Clear()
	e.engine.Clear()
	e.sampler.Reset()
	if e.started {
		e.surface.Unload()
	}
}

func (e *Effect) mounted() bool {
	return e.started && !e.stopped
}

// PointerMoved feeds one pointer event in host coordinates at host time now.
func (e *Effect) PointerMoved(x, y float32, now time.Duration) {
	if !e.mounted() {
		return
	}
	sx, sy := e.space.ToSurface(x, y)
	e.reqs = e.sampler.Observe(float64(sx), float64(sy), now, e.reqs[:0])
	for _, r := range e.reqs {
		e.queue.Push(r, now)
	}
}

// Resized records a new host size. The surface is reallocated when the
// size actually changed; before Start the size is kept for Start to use.
func (e *Effect) Resized(hostW, hostH int) {
	if e.stopped {
		return
	}
	w, h := e.space.SurfaceSize(hostW, hostH)
	if !e.viewport.Update(w, h) || !e.started {
		return
	}
	e.surface.Resize(e.viewport.Size())
}

// SetVisible pauses the loop while the host is hidden or minimised.
// Particles keep their state and resume where they left off.
func (e *Effect) SetVisible(visible bool) {
	if visible == e.visible {
		return
	}
	e.visible = visible
	if !e.mounted() {
		return
	}
	if visible {
		e.haveLast = false
		e.loop.Start()
		return
	}
	e.loop.Stop()
}

// Present composites the trail over the host frame.
func (e *Effect) Present() {
	if !e.mounted() {
		return
	}
	e.surface.Present()
}

// tick is one frame: release due spawns, advance physics, draw.
func (e *Effect) tick(now time.Duration) {
	if e.perf != nil {
		e.perf.StartTick()
		e.perf.StartPhase(telemetry.PhaseSpawn)
	}

	e.due = e.queue.Due(now, e.due[:0])
	for _, r := range e.due {
		e.engine.Spawn(r.X, r.Y, r.VX, r.VY)
	}

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhasePhysics)
	}
	e.engine.Step(e.stepScale(now))

	if e.perf != nil {
		e.perf.StartPhase(telemetry.PhaseRender)
	}
	if e.surface.Available() {
		e.trail.Draw(e.surface, e.engine.Particles())
	}

	if e.perf != nil {
		e.perf.EndTick()
	}
}

// stepScale converts the time since the last frame into reference steps.
// The first frame after start or resume counts as one step. Frames that
// arrive with no elapsed time still step by minScale.
func (e *Effect) stepScale(now time.Duration) float64 {
	last, had := e.lastFrame, e.haveLast
	e.lastFrame, e.haveLast = now, true

	if e.fixedStep || !had || e.refFrame <= 0 {
		return 1
	}
	scale := float64(now-last) / float64(e.refFrame)
	if e.maxScale > 0 {
		scale = math.Min(scale, e.maxScale)
	}
	return math.Max(scale, e.minScale)
}

// Engine exposes the particle engine for inspection.
func (e *Effect) Engine() *systems.ParticleEngine {
	return e.engine
}

// Profile returns the profile name the effect was built with.
func (e *Effect) Profile() string {
	return e.profileName
}

// Running reports whether a frame is scheduled.
func (e *Effect) Running() bool {
	return e.loop.Running()
}

// DrawCalls returns the number of primitives issued so far.
func (e *Effect) DrawCalls() uint64 {
	return e.trail.DrawCalls()
}

// Stats returns a snapshot of the effect.
func (e *Effect) Stats() Stats {
	return Stats{
		Profile:   e.profileName,
		Particles: e.engine.Count(),
		Cap:       e.engine.Cap(),
		Pending:   e.queue.Len(),
		Frames:    e.loop.Frames(),
		Panics:    e.loop.Panics(),
		Observed:  e.sampler.Observed(),
		Samples:   e.sampler.Samples(),
		Engine:    e.engine.Stats(),
		Running:   e.loop.Running(),
		Visible:   e.visible,
	}
}

// Counters returns cumulative totals in the form telemetry windows expect.
func (s Stats) Counters() telemetry.Counters {
	return telemetry.Counters{
		Spawned:  s.Engine.Spawned,
		Evicted:  s.Engine.Evicted,
		Expired:  s.Engine.Expired,
		Rejected: s.Engine.Rejected,
		Samples:  s.Samples,
	}
}
