package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/telemetry"
)

func runHeadless(t *testing.T, cfg *config.Config, opts Options, frames int) *Headless {
	t.Helper()
	hl, err := NewHeadless(cfg, "mood", opts)
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	for i := 0; i < frames; i++ {
		hl.Step()
	}
	return hl
}

func TestHeadless_StepsProduceParticles(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	var windows []telemetry.WindowStats
	hl := runHeadless(t, cfg, Options{
		Seed:          7,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	}, 300)

	if hl.Frame() != 300 {
		t.Errorf("expected 300 frames, got %d", hl.Frame())
	}
	st := hl.Effect().Stats()
	if st.Engine.Spawned == 0 || st.Particles == 0 {
		t.Errorf("expected live particles, got %+v", st)
	}
	if st.Particles > st.Cap {
		t.Errorf("live set %d exceeds cap %d", st.Particles, st.Cap)
	}
	if hl.Surface().Frames != 300 || hl.Surface().DrawCalls() == 0 {
		t.Errorf("expected one surface frame per step, got %d", hl.Surface().Frames)
	}
	if len(windows) != 2 {
		t.Errorf("expected two 120-frame windows, got %d", len(windows))
	}
	for _, w := range windows {
		if w.Screen != "mood" || w.Cap != 80 {
			t.Errorf("unexpected window labels %+v", w)
		}
	}

	hl.Unload()
	if hl.Surface().Unloads != 1 {
		t.Error("unload should release the surface")
	}
	if len(windows) != 3 {
		t.Errorf("unload should flush the partial window, got %d windows", len(windows))
	}
}

func TestHeadless_SameSeedSameRun(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	a := runHeadless(t, cfg, Options{Seed: 42}, 200)
	b := runHeadless(t, cfg, Options{Seed: 42}, 200)
	defer a.Unload()
	defer b.Unload()

	sa, sb := a.Effect().Stats(), b.Effect().Stats()
	if sa.Engine != sb.Engine || sa.Particles != sb.Particles {
		t.Errorf("runs diverged: %+v vs %+v", sa.Engine, sb.Engine)
	}
	pa, pb := a.Effect().Engine().Particles(), b.Effect().Engine().Particles()
	for i := range pa {
		if pa[i].X != pb[i].X || pa[i].Y != pb[i].Y {
			t.Fatalf("particle %d differs", i)
		}
	}
}

func TestHeadless_WritesOutput(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	dir := t.TempDir()
	hl := runHeadless(t, cfg, Options{Seed: 3, OutputDir: dir}, 250)
	hl.Unload()

	for _, name := range []string{"config.yaml", "frames.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// header plus two full windows and the flushed remainder
	if len(lines) != 4 {
		t.Errorf("expected 4 lines in frames.csv, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,screen,frames") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestHeadless_UnknownProfile(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if _, err := NewHeadless(cfg, "nope", Options{Seed: 1}); err == nil {
		t.Error("expected an error for an unknown profile")
	}
}
