// Package camera maps host-local coordinates onto a trail surface.
package camera

import "math"

// Space converts between a host's local coordinates (window pixels,
// terminal cells, a panel inside a tool window) and surface pixels.
type Space struct {
	// Surface position of the host origin
	OffsetX, OffsetY float32

	// Surface pixels per host unit
	ScaleX, ScaleY float32
}

// Identity maps host pixels one to one.
func Identity() Space {
	return Space{ScaleX: 1, ScaleY: 1}
}

// Cells maps terminal cells of cellW x cellH surface pixels. A cell
// coordinate lands on the centre of its cell.
func Cells(cellW, cellH float32) Space {
	return Space{
		OffsetX: cellW / 2,
		OffsetY: cellH / 2,
		ScaleX:  cellW,
		ScaleY:  cellH,
	}
}

// Panel maps a sub-rectangle of a window whose top-left corner is at
// (x, y) in window pixels. Window coordinates go in, panel-local come out.
func Panel(x, y float32) Space {
	return Space{OffsetX: -x, OffsetY: -y, ScaleX: 1, ScaleY: 1}
}

// ToSurface converts a host position to surface pixels.
func (s Space) ToSurface(hx, hy float32) (sx, sy float32) {
	return s.OffsetX + hx*s.ScaleX, s.OffsetY + hy*s.ScaleY
}

// FromSurface converts surface pixels back to host units.
func (s Space) FromSurface(sx, sy float32) (hx, hy float32) {
	if s.ScaleX == 0 || s.ScaleY == 0 {
		return 0, 0
	}
	return (sx - s.OffsetX) / s.ScaleX, (sy - s.OffsetY) / s.ScaleY
}

// SurfaceSize returns the surface dimensions covering a host area of
// hostW x hostH units, rounded up.
func (s Space) SurfaceSize(hostW, hostH int) (width, height int) {
	w := int(math.Ceil(float64(float32(hostW) * absf(s.ScaleX))))
	h := int(math.Ceil(float64(float32(hostH) * absf(s.ScaleY))))
	return w, h
}

// Contains reports whether a host position lies inside a hostW x hostH area.
func (s Space) Contains(hx, hy float32, hostW, hostH int) bool {
	return hx >= 0 && hy >= 0 && hx < float32(hostW) && hy < float32(hostH)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
