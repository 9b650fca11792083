package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savor/camera"
	"github.com/pthm-cable/savor/components"
	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/systems"
	"github.com/pthm-cable/savor/telemetry"
	"github.com/pthm-cable/savor/trail"
)

// DirectorOptions configures a Director.
type DirectorOptions struct {
	// NewSurface returns a fresh surface for each trail mount. Nil runs
	// every screen without a trail.
	NewSurface func() renderer.Surface
	Space      camera.Space
	Perf       *telemetry.PerfCollector
	Collector  *telemetry.Collector
	Seed       int64
}

// slot ties a decor entity to the function that places it for a screen size.
type slot struct {
	entity ecs.Entity
	place  func(w, h int) rect
}

// Director runs the screen timeline: loader, mood selector, transition
// wipe, journey and gallery. It owns the decor world of the active screen
// and the trail mounted for it. It does no drawing; the host reads its
// state each frame.
type Director struct {
	cfg   *config.Config
	sched frame.Scheduler
	opts  DirectorOptions
	rng   *rand.Rand

	screen  ScreenID
	frame   int64
	now     time.Duration
	haveNow bool
	width   int
	height  int
	visible bool

	decor  *systems.DecorWorld
	slots  []slot
	scroll float32

	effect     *trail.Effect
	panicsSeen uint64

	wipe *Wipe
	next ScreenID

	mood       int
	moodPicked float64 // screen seconds when the mood was picked
	buttonUp   bool
}

// NewDirector creates a director sized w x h and enters the loader.
func NewDirector(cfg *config.Config, sched frame.Scheduler, w, h int, opts DirectorOptions) *Director {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Director{
		cfg:     cfg,
		sched:   sched,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)),
		width:   max(w, 1),
		height:  max(h, 1),
		visible: true,
		decor:   systems.NewDecorWorld(cfg.Screens.Reveal.Frequency, cfg.Screens.Reveal.Damping),
		mood:    -1,
	}
	d.enter(ScreenLoader)
	return d
}

// Update advances the timeline to host time now.
func (d *Director) Update(now time.Duration) {
	var dt time.Duration
	if d.haveNow {
		dt = now - d.now
	}
	d.now, d.haveNow = now, true
	d.frame++

	d.decor.Update(dt)

	if d.wipe != nil {
		if d.wipe.Update(dt) {
			d.enter(d.next)
		}
		if d.wipe.Done() {
			d.wipe = nil
		}
	}

	elapsed := d.decor.Elapsed()
	switch d.screen {
	case ScreenLoader:
		if elapsed >= d.cfg.Screens.Loader.DurationSec {
			d.enter(ScreenMood)
		}
	case ScreenMood:
		if d.mood >= 0 && !d.buttonUp && elapsed-d.moodPicked >= d.cfg.Screens.Mood.ButtonDelaySec {
			d.showButton()
		}
	case ScreenJourney:
		if d.wipe == nil && elapsed >= d.journeyEnd() {
			d.transitionTo(ScreenGallery)
		}
	}

	d.checkPanics()
}

// journeyEnd is the screen time at which the journey moves on.
func (d *Director) journeyEnd() float64 {
	j := d.cfg.Screens.Journey
	last := float64(max(len(j.Chunks)-1, 0)) * j.StaggerSec
	return last + j.HoldSec
}

// PointerMoved forwards a pointer position seen at now to the mounted trail.
func (d *Director) PointerMoved(x, y float32, now time.Duration) {
	if d.effect != nil {
		d.effect.PointerMoved(x, y, now)
	}
}

// Click handles a primary button press at (x, y).
func (d *Director) Click(x, y float32) {
	if d.wipe != nil {
		return
	}
	tile, ok := d.decor.TileAt(x, y+d.scroll)
	if !ok {
		return
	}
	switch {
	case d.screen == ScreenMood && tile.Kind == components.TileMood:
		d.SelectMood(tile.Index)
	case d.screen == ScreenMood && tile.Kind == components.TileButton:
		d.StartJourney()
	case d.screen == ScreenGallery && tile.Kind == components.TileDish:
		d.decor.Select(components.TileDish, tile.Index)
	}
}

// Scroll moves the gallery by dy pixels, clamped to its content.
// Other screens do not scroll.
func (d *Director) Scroll(dy float32) {
	if d.screen != ScreenGallery {
		d.scroll = 0
		return
	}
	limit := max(d.galleryHeight()-float32(d.height), 0)
	d.scroll = min(max(d.scroll+dy, 0), limit)
}

// ScrollOffset returns how far the active screen is scrolled.
func (d *Director) ScrollOffset() float32 {
	return d.scroll
}

// KeyPressed handles a typed key. Digits pick a mood, Enter or Space
// starts the journey, and any key skips the rest of the journey.
func (d *Director) KeyPressed(r rune) {
	if d.wipe != nil {
		return
	}
	switch d.screen {
	case ScreenMood:
		if r >= '1' && r <= '9' {
			d.SelectMood(int(r - '1'))
			return
		}
		if r == '\n' || r == ' ' {
			d.StartJourney()
		}
	case ScreenJourney:
		d.transitionTo(ScreenGallery)
	}
}

// SelectMood picks mood i, changes the background and schedules the
// start button. Out of range indexes are ignored.
func (d *Director) SelectMood(i int) {
	if d.screen != ScreenMood || i < 0 || i >= len(d.cfg.Screens.Mood.Moods) {
		return
	}
	if d.mood < 0 {
		d.moodPicked = d.decor.Elapsed()
	}
	d.mood = i
	d.decor.Select(components.TileMood, i)
	slog.Debug("mood selected", "mood", d.cfg.Screens.Mood.Moods[i].ID)
}

// StartJourney begins the wipe to the journey once the button is showing.
func (d *Director) StartJourney() {
	if d.screen != ScreenMood || !d.buttonUp {
		return
	}
	d.transitionTo(ScreenJourney)
}

func (d *Director) transitionTo(next ScreenID) {
	if d.wipe != nil {
		return
	}
	t := d.cfg.Screens.Transition
	d.wipe = NewWipe(time.Duration(t.DurationSec*float64(time.Second)), t.Frequency, t.Damping)
	d.next = next
	slog.Info("transition started", "from", d.screen.String(), "to", next.String())
}

// enter replaces the active screen: the old trail is torn down, the decor
// world rebuilt and the new screen's trail mounted.
func (d *Director) enter(s ScreenID) {
	d.unmount()
	d.decor.Clear()
	d.slots = d.slots[:0]
	d.scroll = 0
	d.mood = -1
	d.buttonUp = false
	d.screen = s

	switch s {
	case ScreenLoader:
		d.buildLoader()
	case ScreenMood:
		d.buildMood()
	case ScreenJourney:
		d.buildJourney()
	case ScreenGallery:
		d.buildGallery()
	}
	d.record(telemetry.NewScreenEvent(d.frame, s.String()))
	slog.Info("screen entered", "screen", s.String(), "decor", d.decor.Len())

	d.mount(d.profileFor(s))
}

func (d *Director) profileFor(s ScreenID) string {
	switch s {
	case ScreenLoader:
		return d.cfg.Screens.Loader.Profile
	case ScreenMood:
		return d.cfg.Screens.Mood.Profile
	case ScreenJourney:
		return d.cfg.Screens.Journey.Profile
	case ScreenGallery:
		return d.cfg.Screens.Gallery.Profile
	}
	return ""
}

// mount starts a trail for profile. An empty profile or a host without
// surfaces leaves the screen without one.
func (d *Director) mount(profile string) {
	if profile == "" || d.opts.NewSurface == nil {
		return
	}
	effect, err := trail.New(d.cfg, profile, d.opts.NewSurface(), d.sched, rand.New(rand.NewSource(d.rng.Int63())), trail.Options{
		Space: d.opts.Space,
		Perf:  d.opts.Perf,
		OnReady: func() {
			d.record(telemetry.NewMountEvent(d.frame, d.screen.String()))
			slog.Info("trail mounted", "screen", d.screen.String(), "profile", profile)
		},
	})
	if err != nil {
		slog.Error("failed to create trail", "profile", profile, "error", err)
		return
	}
	effect.Resized(d.width, d.height)
	effect.SetVisible(d.visible)
	if !effect.Start() {
		effect.Stop()
		return
	}
	d.effect = effect
	d.panicsSeen = 0

	if c := d.opts.Collector; c != nil {
		c.Rebase(telemetry.Counters{})
		c.SetCap(effect.Stats().Cap)
	}
}

func (d *Director) unmount() {
	if d.effect == nil {
		return
	}
	d.checkPanics()
	d.effect.Stop()
	d.effect = nil
	if c := d.opts.Collector; c != nil {
		c.SetCap(0)
		c.Rebase(telemetry.Counters{})
	}
	d.record(telemetry.NewUnmountEvent(d.frame, d.screen.String()))
}

// checkPanics turns newly recovered trail frame panics into events.
func (d *Director) checkPanics() {
	if d.effect == nil {
		return
	}
	panics := d.effect.Stats().Panics
	for ; d.panicsSeen < panics; d.panicsSeen++ {
		d.record(telemetry.NewPanicEvent(d.frame, d.screen.String()))
	}
}

func (d *Director) record(e telemetry.Event) {
	if d.opts.Collector != nil {
		d.opts.Collector.Record(e)
	}
}

// Resize relays out the active screen and resizes the trail. Sizes that
// did not change are ignored.
func (d *Director) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == d.width && h == d.height {
		return
	}
	d.width, d.height = w, h
	for _, s := range d.slots {
		r := s.place(w, h)
		d.decor.Place(s.entity, r.position(), r.bounds())
	}
	d.Scroll(0)
	if d.effect != nil {
		d.effect.Resized(w, h)
	}
	d.record(telemetry.NewResizeEvent(d.frame, d.screen.String(), int32(w), int32(h)))
}

// SetVisible pauses the trail while the window is hidden or minimised.
func (d *Director) SetVisible(visible bool) {
	if visible == d.visible {
		return
	}
	d.visible = visible
	if d.effect != nil {
		d.effect.SetVisible(visible)
	}
	slog.Debug("visibility changed", "visible", visible)
}

// Close tears down the mounted trail.
func (d *Director) Close() {
	d.unmount()
}

// Screen returns the active screen.
func (d *Director) Screen() ScreenID {
	return d.screen
}

// Elapsed returns seconds since the active screen was entered.
func (d *Director) Elapsed() float64 {
	return d.decor.Elapsed()
}

// Decor exposes the active screen's decor for drawing.
func (d *Director) Decor() *systems.DecorWorld {
	return d.decor
}

// Effect returns the mounted trail, or nil.
func (d *Director) Effect() *trail.Effect {
	return d.effect
}

// Wipe returns the running transition, or nil.
func (d *Director) Wipe() *Wipe {
	return d.wipe
}

// Mood returns the picked mood, or false before one is picked.
func (d *Director) Mood() (config.MoodOption, bool) {
	if d.mood < 0 {
		return config.MoodOption{}, false
	}
	return d.cfg.Screens.Mood.Moods[d.mood], true
}

// Background returns the gradient stops behind the active screen.
func (d *Director) Background() []config.RGB {
	if d.screen == ScreenMood {
		if m, ok := d.Mood(); ok {
			return m.Background
		}
		return d.cfg.Screens.Mood.Neutral
	}
	return []config.RGB{d.cfg.Screen.Background}
}

// LoaderPhase returns the splash stage and its 0..100 counter.
func (d *Director) LoaderPhase() (LoaderPhase, int) {
	l := d.cfg.Screens.Loader
	e := d.decor.Elapsed()
	return loaderPhase(e, l.MorphAtSec, l.CompleteAtSec), loaderProgress(e, l.CompleteAtSec, l.CountSec)
}

// ButtonShown reports whether the start button has been revealed.
func (d *Director) ButtonShown() bool {
	return d.buttonUp
}

// Size returns the current host size.
func (d *Director) Size() (int, int) {
	return d.width, d.height
}

// FrameNumber returns the number of Update calls so far.
func (d *Director) FrameNumber() int64 {
	return d.frame
}
