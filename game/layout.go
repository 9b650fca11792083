package game

import (
	"github.com/pthm-cable/savor/components"
	"github.com/pthm-cable/savor/config"
)

// Layout constants in screen pixels.
const (
	moodColumns   = 2
	moodCardW     = 260
	moodCardH     = 120
	moodCardGap   = 20
	buttonW       = 280
	buttonH       = 56
	buttonMargin  = 36
	chunkFontSize = 56
	chunkLineGap  = 12
	galleryMargin = 40
	galleryTop    = 110

	// Below this width the gallery drops to two columns.
	narrowWidth = 768
)

// rect is a placed rectangle.
type rect struct {
	X, Y, W, H float32
}

func (r rect) position() components.Position {
	return components.Position{X: r.X, Y: r.Y}
}

func (r rect) bounds() components.Bounds {
	return components.Bounds{W: r.W, H: r.H}
}

// iconPosition places a loader icon given as screen fractions.
func iconPosition(icon config.IconConfig, w, h int) components.Position {
	return components.Position{X: float32(icon.X) * float32(w), Y: float32(icon.Y) * float32(h)}
}

// moodCardRects lays n cards out in a centred two-column grid below the
// heading. Cards shrink to fit narrow screens.
func moodCardRects(n, w, h int) []rect {
	cardW := float32(moodCardW)
	if avail := (float32(w) - 2*moodCardGap - (moodColumns-1)*moodCardGap) / moodColumns; avail < cardW {
		cardW = max(avail, 40)
	}
	rows := (n + moodColumns - 1) / moodColumns
	gridW := moodColumns*cardW + (moodColumns-1)*moodCardGap
	gridH := float32(rows)*moodCardH + float32(rows-1)*moodCardGap

	left := (float32(w) - gridW) / 2
	top := float32(h)*0.5 - gridH/2

	rects := make([]rect, n)
	for i := range rects {
		col, row := i%moodColumns, i/moodColumns
		rects[i] = rect{
			X: left + float32(col)*(cardW+moodCardGap),
			Y: top + float32(row)*(moodCardH+moodCardGap),
			W: cardW,
			H: moodCardH,
		}
	}
	return rects
}

// buttonRect centres the start button under the mood grid.
func buttonRect(cards []rect, w int) rect {
	var bottom float32
	for _, c := range cards {
		bottom = max(bottom, c.Y+c.H)
	}
	return rect{X: (float32(w) - buttonW) / 2, Y: bottom + buttonMargin, W: buttonW, H: buttonH}
}

// chunkPositions stacks n text lines centred on screen. X is the centre
// line; Y is the top of each line.
func chunkPositions(n, w, h int) []components.Position {
	lineH := float32(chunkFontSize + chunkLineGap)
	top := (float32(h) - float32(n)*lineH) / 2
	if top < 0 {
		top = 0
	}
	out := make([]components.Position, n)
	for i := range out {
		out[i] = components.Position{X: float32(w) / 2, Y: top + float32(i)*lineH}
	}
	return out
}

// dishSpan returns the column and row span for a dish size.
func dishSpan(size string) (cols, rows int) {
	switch size {
	case "large":
		return 2, 2
	case "wide":
		return 2, 1
	case "tall":
		return 1, 2
	}
	return 1, 1
}

// galleryColumns returns the column count for a screen width.
func galleryColumns(cfg config.GalleryConfig, w int) int {
	cols := cfg.Columns
	if w < narrowWidth && cols > 2 {
		cols = 2
	}
	return max(cols, 1)
}

// galleryRects places the dishes with row-major auto placement: each card
// takes the first free slot at or after the previous card's slot where its
// span fits.
func galleryRects(cfg config.GalleryConfig, w, h int) []rect {
	cols := galleryColumns(cfg, w)
	gap := float32(cfg.Gap)
	rowH := float32(cfg.RowHeight)
	cellW := (float32(w) - 2*galleryMargin - float32(cols-1)*gap) / float32(cols)
	if cellW < 1 {
		cellW = 1
	}

	var occupied [][]bool
	free := func(r, c, spanC, spanR int) bool {
		if c+spanC > cols {
			return false
		}
		for rr := r; rr < r+spanR; rr++ {
			if rr >= len(occupied) {
				continue
			}
			for cc := c; cc < c+spanC; cc++ {
				if occupied[rr][cc] {
					return false
				}
			}
		}
		return true
	}

	rects := make([]rect, len(cfg.Dishes))
	row, col := 0, 0
	for i, dish := range cfg.Dishes {
		spanC, spanR := dishSpan(dish.Size)
		spanC = min(spanC, cols)

		for !free(row, col, spanC, spanR) {
			col++
			if col >= cols {
				col = 0
				row++
			}
		}
		for len(occupied) < row+spanR {
			occupied = append(occupied, make([]bool, cols))
		}
		for rr := row; rr < row+spanR; rr++ {
			for cc := col; cc < col+spanC; cc++ {
				occupied[rr][cc] = true
			}
		}

		rects[i] = rect{
			X: galleryMargin + float32(col)*(cellW+gap),
			Y: galleryTop + float32(row)*(rowH+gap),
			W: float32(spanC)*cellW + float32(spanC-1)*gap,
			H: float32(spanR)*rowH + float32(spanR-1)*gap,
		}
	}
	return rects
}
