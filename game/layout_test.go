package game

import (
	"testing"

	"github.com/pthm-cable/savor/config"
)

func TestDishSpan(t *testing.T) {
	tests := []struct {
		size       string
		cols, rows int
	}{
		{"large", 2, 2},
		{"wide", 2, 1},
		{"tall", 1, 2},
		{"medium", 1, 1},
		{"small", 1, 1},
		{"", 1, 1},
	}
	for _, tt := range tests {
		c, r := dishSpan(tt.size)
		if c != tt.cols || r != tt.rows {
			t.Errorf("dishSpan(%q) = %dx%d, want %dx%d", tt.size, c, r, tt.cols, tt.rows)
		}
	}
}

func overlaps(a, b rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestGalleryRects_NoOverlapWithinBounds(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	g := cfg.Screens.Gallery

	for _, w := range []int{1280, 600} {
		rects := galleryRects(g, w, 800)
		if len(rects) != len(g.Dishes) {
			t.Fatalf("width %d: expected %d rects, got %d", w, len(g.Dishes), len(rects))
		}
		for i := range rects {
			r := rects[i]
			if r.X < galleryMargin-0.01 || r.X+r.W > float32(w)-galleryMargin+0.01 {
				t.Errorf("width %d: dish %d outside margins: %+v", w, i, r)
			}
			for j := i + 1; j < len(rects); j++ {
				if overlaps(r, rects[j]) {
					t.Errorf("width %d: dish %d overlaps dish %d", w, i, j)
				}
			}
		}
	}
}

func TestGalleryRects_AutoPlacement(t *testing.T) {
	g := config.GalleryConfig{
		Columns:   4,
		RowHeight: 100,
		Gap:       10,
		Dishes: []config.DishConfig{
			{Size: "large"},
			{Size: "medium"},
			{Size: "tall"},
			{Size: "wide"},
		},
	}
	// cell width (1000 - 80 - 30) / 4
	cell := float32(222.5)
	rects := galleryRects(g, 1000, 800)

	if rects[0].X != galleryMargin || rects[0].Y != galleryTop || rects[0].W != 2*cell+10 || rects[0].H != 210 {
		t.Errorf("large dish should fill the top-left 2x2, got %+v", rects[0])
	}
	if rects[1].X != galleryMargin+2*(cell+10) || rects[1].Y != galleryTop {
		t.Errorf("medium dish should take column 2 of row 0, got %+v", rects[1])
	}
	if rects[2].X != galleryMargin+3*(cell+10) || rects[2].H != 210 {
		t.Errorf("tall dish should take column 3 spanning two rows, got %+v", rects[2])
	}
	// Row 1 only has column 2 free, too narrow for a wide dish
	if rects[3].X != galleryMargin || rects[3].Y != galleryTop+2*110 {
		t.Errorf("wide dish should wrap to row 2, got %+v", rects[3])
	}
}

func TestGalleryColumns_NarrowScreens(t *testing.T) {
	g := config.GalleryConfig{Columns: 4}
	if got := galleryColumns(g, 1280); got != 4 {
		t.Errorf("desktop: expected 4 columns, got %d", got)
	}
	if got := galleryColumns(g, 500); got != 2 {
		t.Errorf("narrow: expected 2 columns, got %d", got)
	}
	if got := galleryColumns(config.GalleryConfig{}, 1280); got != 1 {
		t.Errorf("zero columns should clamp to 1, got %d", got)
	}
}

func TestMoodCardRects_CentredGrid(t *testing.T) {
	rects := moodCardRects(4, 1280, 800)
	if rects[0].Y != rects[1].Y || rects[2].Y != rects[3].Y {
		t.Error("cards should pair into rows")
	}
	left := rects[0].X
	right := rects[1].X + rects[1].W
	if d := (left - 0) - (1280 - right); d > 0.01 || d < -0.01 {
		t.Errorf("grid should be centred, margins %f and %f", left, 1280-right)
	}
	mid := (rects[0].Y + rects[3].Y + rects[3].H) / 2
	if mid < 399.9 || mid > 400.1 {
		t.Errorf("grid should be centred vertically, got %f", mid)
	}

	narrow := moodCardRects(4, 400, 800)
	if narrow[1].X+narrow[1].W > 400 {
		t.Errorf("cards should shrink to fit, got %+v", narrow[1])
	}

	b := buttonRect(rects, 1280)
	if b.Y < rects[3].Y+rects[3].H {
		t.Error("button should sit below the grid")
	}
}

func TestChunkPositions_Stacked(t *testing.T) {
	pos := chunkPositions(3, 1000, 800)
	for i, p := range pos {
		if p.X != 500 {
			t.Errorf("chunk %d should be centred, got %f", i, p.X)
		}
		if i > 0 && p.Y-pos[i-1].Y != chunkFontSize+chunkLineGap {
			t.Errorf("chunk %d spacing %f", i, p.Y-pos[i-1].Y)
		}
	}
	if tall := chunkPositions(20, 1000, 200); tall[0].Y != 0 {
		t.Errorf("overflowing stacks should start at the top, got %f", tall[0].Y)
	}
}
