package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/savor/camera"
)

// CellSink receives terminal cells. tcell.Screen satisfies it.
type CellSink interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type rgb struct {
	r, g, b float32
}

// CellSurface renders the trail onto terminal cells. Each cell keeps a
// floating point colour so fades accumulate smoothly; Present writes the
// cells to the sink as background-coloured spaces.
type CellSurface struct {
	sink  CellSink
	space camera.Space

	width, height int32 // surface pixels
	cols, rows    int
	buf           []rgb
}

// NewCellSurface creates a surface whose cells cover cellW x cellH pixels.
func NewCellSurface(sink CellSink, cellW, cellH float32) *CellSurface {
	return &CellSurface{sink: sink, space: camera.Cells(cellW, cellH)}
}

// Available reports whether a sink is attached.
func (s *CellSurface) Available() bool {
	return s.sink != nil
}

// Resize reallocates the cell buffer for a surface of width x height pixels.
func (s *CellSurface) Resize(width, height int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width, s.height = width, height
	s.cols = int(math.Ceil(float64(width) / float64(s.space.ScaleX)))
	s.rows = int(math.Ceil(float64(height) / float64(s.space.ScaleY)))
	s.buf = make([]rgb, s.cols*s.rows)
}

// Size returns the surface size in pixels.
func (s *CellSurface) Size() (int32, int32) {
	return s.width, s.height
}

// Grid returns the cell dimensions.
func (s *CellSurface) Grid() (cols, rows int) {
	return s.cols, s.rows
}

func (s *CellSurface) Begin() {}

// FadeTrail moves every cell toward c by c's alpha.
func (s *CellSurface) FadeTrail(c color.NRGBA) {
	a := float32(c.A) / 255
	target := toRGB(c)
	for i := range s.buf {
		p := &s.buf[i]
		p.r += (target.r - p.r) * a
		p.g += (target.g - p.g) * a
		p.b += (target.b - p.b) * a
	}
}

// FillGradientDisc screen-blends the gradient into every cell the disc touches.
func (s *CellSurface) FillGradientDisc(x, y, radius, gradientRadius float32, stops []GradientStop) {
	if radius <= 0 || gradientRadius <= 0 {
		return
	}
	s.eachCell(x, y, radius, func(p *rgb, d float32) {
		screenBlend(p, SampleGradient(stops, d/gradientRadius))
	})
}

// Disc screen-blends a solid colour into every cell the disc touches.
func (s *CellSurface) Disc(x, y, radius float32, c color.NRGBA) {
	if radius <= 0 {
		return
	}
	s.eachCell(x, y, radius, func(p *rgb, _ float32) {
		screenBlend(p, c)
	})
}

func (s *CellSurface) End() {}

// Present writes every cell to the sink. The caller shows the screen.
func (s *CellSurface) Present() {
	if s.sink == nil {
		return
	}
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			p := s.buf[row*s.cols+col]
			bg := tcell.NewRGBColor(to255(p.r), to255(p.g), to255(p.b))
			s.sink.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// Unload drops the buffer.
func (s *CellSurface) Unload() {
	s.buf = nil
	s.cols, s.rows = 0, 0
}

// Cell returns the current colour of a cell, for inspection.
func (s *CellSurface) Cell(col, row int) color.NRGBA {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return color.NRGBA{}
	}
	p := s.buf[row*s.cols+col]
	return color.NRGBA{R: uint8(to255(p.r)), G: uint8(to255(p.g)), B: uint8(to255(p.b)), A: 255}
}

// eachCell visits cells whose rectangle comes within radius of (x, y),
// passing the distance from (x, y) to the nearest point of the cell.
func (s *CellSurface) eachCell(x, y, radius float32, fn func(p *rgb, d float32)) {
	if len(s.buf) == 0 {
		return
	}
	cw, ch := s.space.ScaleX, s.space.ScaleY
	c0 := clampInt(int(math.Floor(float64((x-radius)/cw))), 0, s.cols-1)
	c1 := clampInt(int(math.Floor(float64((x+radius)/cw))), 0, s.cols-1)
	r0 := clampInt(int(math.Floor(float64((y-radius)/ch))), 0, s.rows-1)
	r1 := clampInt(int(math.Floor(float64((y+radius)/ch))), 0, s.rows-1)

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			nx := clampF(x, float32(col)*cw, float32(col+1)*cw)
			ny := clampF(y, float32(row)*ch, float32(row+1)*ch)
			dx, dy := x-nx, y-ny
			d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if d > radius {
				continue
			}
			fn(&s.buf[row*s.cols+col], d)
		}
	}
}

func screenBlend(p *rgb, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	a := float32(c.A) / 255
	src := toRGB(c)
	p.r = 1 - (1-p.r)*(1-src.r*a)
	p.g = 1 - (1-p.g)*(1-src.g*a)
	p.b = 1 - (1-p.b)*(1-src.b*a)
}

func toRGB(c color.NRGBA) rgb {
	return rgb{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func to255(v float32) int32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int32(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
