package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/savor/config"
)

func TestOutputManager_DisabledWhenNoDir(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// nil manager methods are no-ops
	if om.Dir() != "" {
		t.Errorf("nil Dir should be empty, got %q", om.Dir())
	}
	if err := om.WriteFrames(WindowStats{}); err != nil {
		t.Errorf("nil WriteFrames: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManager_WritesCSVAndConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("expected dir %q, got %q", dir, om.Dir())
	}

	for i := int64(1); i <= 3; i++ {
		if err := om.WriteFrames(WindowStats{WindowEnd: i * 120, Screen: "mood", Frames: 120}); err != nil {
			t.Fatalf("WriteFrames: %v", err)
		}
	}
	perf := PerfStats{AvgTickDuration: time.Millisecond, PhasePct: map[string]float64{PhaseRender: 70}}
	if err := om.WritePerf(perf, 120); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}

	if err := om.WriteBookmark(Bookmark{Type: BookmarkCapSaturated, Frame: 240, Screen: "mood"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	frames, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(frames)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,screen,frames") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "360,mood,120") {
		t.Errorf("unexpected last row %q", lines[3])
	}

	perfCSV, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perfCSV), "render_pct") {
		t.Errorf("perf.csv missing render_pct column: %s", perfCSV)
	}

	bookmarks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bookmarks), "cap_saturated,240,mood") {
		t.Errorf("unexpected bookmarks.csv: %s", bookmarks)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
