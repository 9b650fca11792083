package game

import (
	"testing"
	"time"

	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/telemetry"
)

const testStep = time.Second / 60

// testHost pumps a director and its frame driver at 60 fps over null
// surfaces, the way Game does with raylib.
type testHost struct {
	cfg       *config.Config
	driver    *frame.Driver
	collector *telemetry.Collector
	surfaces  []*renderer.NullSurface
	d         *Director
	now       time.Duration
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	h := &testHost{
		cfg:       cfg,
		driver:    frame.NewDriver(),
		collector: telemetry.NewCollector(10000),
	}
	h.d = NewDirector(cfg, h.driver, 1280, 800, DirectorOptions{
		NewSurface: func() renderer.Surface {
			s := &renderer.NullSurface{}
			h.surfaces = append(h.surfaces, s)
			return s
		},
		Collector: h.collector,
		Seed:      1,
	})
	return h
}

// advance runs frames covering at least dur.
func (h *testHost) advance(dur time.Duration) {
	for end := h.now + dur; h.now < end; {
		h.now += testStep
		h.d.Update(h.now)
		h.driver.RunFrame(h.now)
	}
}

// flushEvents closes the collector's window and returns its event counts.
func flushEvents(t *testing.T, c *telemetry.Collector) telemetry.WindowStats {
	t.Helper()
	c.Frame(telemetry.FrameSample{}, telemetry.Counters{})
	stats, ok := c.Flush(telemetry.Counters{})
	if !ok {
		t.Fatal("expected a window to flush")
	}
	return stats
}

// toMood runs the loader to completion.
func (h *testHost) toMood(t *testing.T) {
	t.Helper()
	h.advance(3600 * time.Millisecond)
	if h.d.Screen() != ScreenMood {
		t.Fatalf("expected mood screen after the loader, got %s", h.d.Screen())
	}
}

// toJourney picks a mood, waits for the button and runs the wipe.
func (h *testHost) toJourney(t *testing.T) {
	t.Helper()
	h.toMood(t)
	h.d.SelectMood(0)
	h.advance(600 * time.Millisecond)
	h.d.StartJourney()
	h.advance(1700 * time.Millisecond)
	if h.d.Screen() != ScreenJourney {
		t.Fatalf("expected journey screen, got %s", h.d.Screen())
	}
}

func TestDirector_LoaderAdvancesToMood(t *testing.T) {
	h := newTestHost(t)
	if h.d.Screen() != ScreenLoader {
		t.Fatalf("expected loader first, got %s", h.d.Screen())
	}
	if h.d.Effect() != nil {
		t.Error("loader has no trail profile and should not mount one")
	}

	h.advance(2500 * time.Millisecond)
	if phase, _ := h.d.LoaderPhase(); phase != PhaseMorphing {
		t.Errorf("expected morphing at 2.5s, got %s", phase)
	}
	h.advance(700 * time.Millisecond)
	if phase, _ := h.d.LoaderPhase(); phase != PhaseComplete {
		t.Errorf("expected complete at 3.2s, got %s", phase)
	}
	if h.d.Screen() != ScreenLoader {
		t.Errorf("loader should still show at 3.2s, got %s", h.d.Screen())
	}

	h.advance(400 * time.Millisecond)
	if h.d.Screen() != ScreenMood {
		t.Fatalf("expected mood at 3.6s, got %s", h.d.Screen())
	}
	e := h.d.Effect()
	if e == nil {
		t.Fatal("mood screen should mount a trail")
	}
	if st := e.Stats(); st.Profile != "mood" || st.Cap != 80 || !st.Running {
		t.Errorf("unexpected mood trail %+v", st)
	}
	if h.d.Elapsed() > 0.2 {
		t.Errorf("screen clock should restart on entry, got %fs", h.d.Elapsed())
	}
}

func TestDirector_MoodSelectShowsButtonAfterDelay(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	neutral := h.d.Background()
	if len(neutral) != 3 || neutral[0] != h.cfg.Screens.Mood.Neutral[0] {
		t.Errorf("expected neutral gradient before a pick, got %v", neutral)
	}

	h.d.StartJourney()
	if h.d.Wipe() != nil {
		t.Error("journey should not start before a mood is picked")
	}

	h.d.SelectMood(2)
	if m, ok := h.d.Mood(); !ok || m.ID != "sad" {
		t.Errorf("expected sad mood, got %+v ok=%v", m, ok)
	}
	if bg := h.d.Background(); bg[0] != h.cfg.Screens.Mood.Moods[2].Background[0] {
		t.Errorf("background should follow the mood, got %v", bg)
	}

	h.advance(300 * time.Millisecond)
	if h.d.ButtonShown() {
		t.Error("button should wait 500ms after the pick")
	}
	h.advance(300 * time.Millisecond)
	if !h.d.ButtonShown() {
		t.Fatal("button should show 500ms after the pick")
	}

	// A second pick does not restart the button timer
	h.d.SelectMood(1)
	if m, _ := h.d.Mood(); m.ID != "tired" {
		t.Errorf("expected tired after re-pick, got %s", m.ID)
	}
	if !h.d.ButtonShown() {
		t.Error("button should stay up after a re-pick")
	}

	h.d.SelectMood(99)
	if m, _ := h.d.Mood(); m.ID != "tired" {
		t.Errorf("out of range pick should be ignored, got %s", m.ID)
	}
}

func TestDirector_DigitKeysPickMood(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	for i, r := range []rune{'1', '2', '3', '4'} {
		h.d.KeyPressed(r)
		m, ok := h.d.Mood()
		if !ok || m.ID != h.cfg.Screens.Mood.Moods[i].ID {
			t.Errorf("key %q: expected %s, got %+v", r, h.cfg.Screens.Mood.Moods[i].ID, m)
		}
	}
	h.d.KeyPressed('9')
	if m, _ := h.d.Mood(); m.ID != "stressed" {
		t.Errorf("key beyond the mood list should be ignored, got %s", m.ID)
	}

	h.advance(600 * time.Millisecond)
	h.d.KeyPressed('\n')
	if h.d.Wipe() == nil {
		t.Error("enter should start the journey once the button shows")
	}
}

func TestDirector_ClickSelectsMoodCard(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)
	h.advance(2 * time.Second) // let the cards settle

	r := moodCardRects(len(h.cfg.Screens.Mood.Moods), 1280, 800)[3]
	h.d.Click(r.X+r.W/2, r.Y+r.H/2)
	if m, ok := h.d.Mood(); !ok || m.ID != "stressed" {
		t.Fatalf("expected stressed after clicking card 3, got %+v ok=%v", m, ok)
	}

	h.advance(600 * time.Millisecond)
	h.advance(time.Second) // button reveal
	b := buttonRect(moodCardRects(len(h.cfg.Screens.Mood.Moods), 1280, 800), 1280)
	h.d.Click(b.X+b.W/2, b.Y+b.H/2)
	if h.d.Wipe() == nil {
		t.Error("clicking the button should start the wipe")
	}
}

func TestDirector_WipeTearsDownTrail(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)
	h.d.SelectMood(0)
	h.advance(600 * time.Millisecond)
	h.d.StartJourney()

	if h.d.Wipe() == nil {
		t.Fatal("expected wipe to start")
	}
	h.advance(800 * time.Millisecond)
	if h.d.Screen() != ScreenMood {
		t.Errorf("screen should swap only when covered, got %s", h.d.Screen())
	}
	h.d.KeyPressed('2')
	if m, _ := h.d.Mood(); m.ID != "happy" {
		t.Error("input should be ignored during the wipe")
	}

	h.advance(900 * time.Millisecond)
	if h.d.Screen() != ScreenJourney {
		t.Fatalf("expected journey after the wipe covers, got %s", h.d.Screen())
	}
	if h.d.Effect() != nil {
		t.Error("journey has no trail profile and should not mount one")
	}
	if len(h.surfaces) != 1 || h.surfaces[0].Unloads != 1 {
		t.Errorf("mood surface should be released exactly once, got %d surfaces", len(h.surfaces))
	}
	if h.driver.Pending() != 0 {
		t.Errorf("no frame callbacks should outlive the trail, got %d", h.driver.Pending())
	}

	h.advance(2 * time.Second)
	if h.d.Wipe() != nil {
		t.Error("wipe should have retracted")
	}
}

func TestDirector_JourneyAdvancesToGallery(t *testing.T) {
	h := newTestHost(t)
	h.toJourney(t)

	// 6 * 0.4s stagger + 2s hold, then a 1.6s wipe
	h.advance(4 * time.Second)
	if h.d.Screen() != ScreenJourney {
		t.Errorf("journey should hold until the last chunk has shown, got %s", h.d.Screen())
	}
	h.advance(2500 * time.Millisecond)
	if h.d.Screen() != ScreenGallery {
		t.Fatalf("expected gallery, got %s", h.d.Screen())
	}
	e := h.d.Effect()
	if e == nil {
		t.Fatal("gallery should mount a trail")
	}
	if st := e.Stats(); st.Profile != "gallery" || st.Cap != 50 {
		t.Errorf("unexpected gallery trail %+v", st)
	}
}

func TestDirector_KeySkipsJourney(t *testing.T) {
	h := newTestHost(t)
	h.toJourney(t)
	h.advance(2 * time.Second) // let the wipe retract

	h.d.KeyPressed('x')
	if h.d.Wipe() == nil {
		t.Fatal("any key should skip the journey")
	}
	h.advance(1700 * time.Millisecond)
	if h.d.Screen() != ScreenGallery {
		t.Errorf("expected gallery after skipping, got %s", h.d.Screen())
	}
}

func TestDirector_PointerFeedsTrail(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	for i := 0; i < 60; i++ {
		h.d.PointerMoved(float32(100+i*15), 400, h.now)
		h.advance(testStep)
	}
	st := h.d.Effect().Stats()
	if st.Samples == 0 || st.Engine.Spawned == 0 {
		t.Errorf("pointer movement should spawn particles, got %+v", st)
	}
	if h.surfaces[0].Presents != 0 {
		t.Error("the director never presents; the host does")
	}
}

func TestDirector_PointerStampedWithCurrentFrame(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	h.d.PointerMoved(100, 400, h.now)
	h.advance(2 * testStep)

	// Fast move seen during the next frame: 3 requests staggered 8ms apart
	next := h.now + testStep
	h.d.Update(next)
	h.d.PointerMoved(900, 400, next)
	h.driver.RunFrame(next)
	h.now = next

	if got := h.d.Effect().Stats().Pending; got != 2 {
		t.Errorf("staggered spawns should wait for their own time, got %d pending", got)
	}
	h.advance(testStep)
	if got := h.d.Effect().Stats().Pending; got != 0 {
		t.Errorf("expected staggered spawns released a frame later, got %d pending", got)
	}
}

func TestDirector_RecordsMountWhenTrailReady(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	stats := flushEvents(t, h.collector)
	if stats.Mounts != 1 {
		t.Errorf("expected one mount once the mood trail started, got %d", stats.Mounts)
	}
	if len(h.surfaces) != 1 || h.surfaces[0].Resizes == 0 {
		t.Error("mount event should follow a sized, started surface")
	}
}

func TestDirector_SetVisiblePausesTrail(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)

	h.d.SetVisible(false)
	if h.d.Effect().Stats().Running {
		t.Error("trail loop should stop while hidden")
	}
	frames := h.d.Effect().Stats().Frames
	h.advance(500 * time.Millisecond)
	if got := h.d.Effect().Stats().Frames; got != frames {
		t.Errorf("hidden trail ran %d frames", got-frames)
	}

	h.d.SetVisible(true)
	h.advance(100 * time.Millisecond)
	if h.d.Effect().Stats().Frames == frames {
		t.Error("trail should resume when visible")
	}
}

func TestDirector_ResizeRelaysOutDecor(t *testing.T) {
	h := newTestHost(t)
	h.toMood(t)
	h.advance(2 * time.Second)

	h.d.Resize(1280, 800)
	if w, hh := h.d.Size(); w != 1280 || hh != 800 {
		t.Errorf("unchanged size should be ignored, got %dx%d", w, hh)
	}

	h.d.Resize(600, 900)
	r := moodCardRects(len(h.cfg.Screens.Mood.Moods), 600, 900)[1]
	h.d.Click(r.X+r.W/2, r.Y+r.H/2)
	if m, ok := h.d.Mood(); !ok || m.ID != "tired" {
		t.Errorf("card should be clickable at its new place, got %+v ok=%v", m, ok)
	}
	if w, hh := h.surfaces[0].Size(); w != 600 || hh != 900 {
		t.Errorf("surface should follow the host size, got %dx%d", w, hh)
	}

	stats := flushEvents(t, h.collector)
	if stats.Resizes != 1 {
		t.Errorf("expected one resize event, got %+v", stats)
	}
}

func TestDirector_GalleryScrollClamps(t *testing.T) {
	h := newTestHost(t)
	h.d.Scroll(100)
	if h.d.ScrollOffset() != 0 {
		t.Error("loader should not scroll")
	}

	h.toJourney(t)
	h.advance(2 * time.Second)
	h.d.KeyPressed(' ')
	h.advance(1700 * time.Millisecond)
	if h.d.Screen() != ScreenGallery {
		t.Fatalf("expected gallery, got %s", h.d.Screen())
	}

	h.d.Scroll(-50)
	if h.d.ScrollOffset() != 0 {
		t.Errorf("scroll should clamp at the top, got %f", h.d.ScrollOffset())
	}
	h.d.Scroll(1e6)
	limit := h.d.galleryHeight() - 800
	if h.d.ScrollOffset() != limit {
		t.Errorf("scroll should clamp at %f, got %f", limit, h.d.ScrollOffset())
	}

	h.advance(3 * time.Second)
	rects := galleryRects(h.cfg.Screens.Gallery, 1280, 800)
	last := len(rects) - 1
	r := rects[last]
	h.d.Click(r.X+r.W/2, r.Y+r.H/2-h.d.ScrollOffset())
	selected := -1
	for i := range rects {
		if tile, ok := h.d.Decor().TileAt(rects[i].X+1, rects[i].Y+1); ok && tile.Selected {
			selected = tile.Index
		}
	}
	if selected != last {
		t.Errorf("expected dish %d selected, got %d", last, selected)
	}
}

// panicSurface panics on every frame.
type panicSurface struct {
	renderer.NullSurface
}

func (s *panicSurface) Begin() {
	panic("draw failed")
}

func TestDirector_RecordsTrailPanics(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	driver := frame.NewDriver()
	collector := telemetry.NewCollector(10000)
	d := NewDirector(cfg, driver, 800, 600, DirectorOptions{
		NewSurface: func() renderer.Surface { return &panicSurface{} },
		Collector:  collector,
		Seed:       1,
	})

	var now time.Duration
	for i := 0; i < 240; i++ {
		now += testStep
		d.Update(now)
		driver.RunFrame(now)
	}
	if d.Screen() != ScreenMood || d.Effect() == nil {
		t.Fatalf("expected mood trail mounted, screen %s", d.Screen())
	}
	panics := d.Effect().Stats().Panics
	if panics == 0 {
		t.Fatal("expected recovered panics")
	}
	if !d.Effect().Stats().Running {
		t.Error("trail should keep running after a panicking frame")
	}

	d.Update(now + testStep)
	stats := flushEvents(t, collector)
	if uint64(stats.Panics) != d.Effect().Stats().Panics {
		t.Errorf("expected %d panic events, got %d", d.Effect().Stats().Panics, stats.Panics)
	}
	if stats.Mounts != 1 {
		t.Errorf("expected one mount, got %d", stats.Mounts)
	}
}

func TestDirector_WithoutSurfacesRunsTimeline(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	d := NewDirector(cfg, frame.NewDriver(), 800, 600, DirectorOptions{Seed: 1})
	var now time.Duration
	for i := 0; i < 240; i++ {
		now += testStep
		d.Update(now)
	}
	if d.Screen() != ScreenMood {
		t.Errorf("expected mood, got %s", d.Screen())
	}
	if d.Effect() != nil {
		t.Error("no surface factory means no trail")
	}
	d.PointerMoved(10, 10, now)
	d.Close()
}
