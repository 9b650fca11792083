package game

import (
	"github.com/pthm-cable/savor/components"
)

// Screen copy.
const (
	moodHeading    = "How are you feeling today?"
	moodSubheading = "Pick your mood and we'll take you on a culinary journey around the world"
	buttonLabel    = "Start Your Journey"
	galleryTitle   = "Culinary"
	galleryAccent  = "Artistry"
)

var (
	white  = [3]uint8{255, 255, 255}
	soft   = [3]uint8{229, 231, 235}
	amber  = [3]uint8{251, 191, 36}
	yellow = [3]uint8{250, 204, 21}
)

// addLabel creates a label and remembers how to place it.
func (d *Director) addLabel(place func(w, h int) rect, reveal components.Reveal, label components.Label) {
	r := place(d.width, d.height)
	e := d.decor.AddLabel(r.position(), reveal, label)
	d.slots = append(d.slots, slot{entity: e, place: place})
}

// addTile creates a tile and remembers how to place it.
func (d *Director) addTile(place func(w, h int) rect, reveal components.Reveal, tile components.Tile) {
	r := place(d.width, d.height)
	e := d.decor.AddTile(r.position(), r.bounds(), reveal, tile)
	d.slots = append(d.slots, slot{entity: e, place: place})
}

func (d *Director) buildLoader() {
	for _, icon := range d.cfg.Screens.Loader.Icons {
		d.addLabel(func(w, h int) rect {
			p := iconPosition(icon, w, h)
			return rect{X: p.X, Y: p.Y}
		}, components.Reveal{Delay: icon.Delay, Rise: 20}, components.Label{Text: icon.Label, Size: 18, Color: amber})
	}
}

func (d *Director) buildMood() {
	m := d.cfg.Screens.Mood
	n := len(m.Moods)

	gridTop := func(w, h int) float32 {
		return moodCardRects(n, w, h)[0].Y
	}
	d.addLabel(func(w, h int) rect {
		return rect{X: float32(w) / 2, Y: gridTop(w, h) - 96}
	}, components.Reveal{Delay: 0.2, Rise: 30}, components.Label{Text: moodHeading, Size: 36, Color: white})
	d.addLabel(func(w, h int) rect {
		return rect{X: float32(w) / 2, Y: gridTop(w, h) - 48}
	}, components.Reveal{Delay: 0.3, Rise: 30}, components.Label{Text: moodSubheading, Size: 18, Color: soft})

	for i, mood := range m.Moods {
		d.addTile(func(w, h int) rect {
			return moodCardRects(n, w, h)[i]
		}, components.Reveal{Delay: 0.4 + float64(i)*m.CardStagger, Rise: 30}, components.Tile{
			Kind:     components.TileMood,
			Index:    i,
			Title:    mood.Name,
			Subtitle: mood.Subtext,
		})
	}
}

// showButton reveals the start button under the mood cards.
func (d *Director) showButton() {
	n := len(d.cfg.Screens.Mood.Moods)
	d.addTile(func(w, h int) rect {
		return buttonRect(moodCardRects(n, w, h), w)
	}, components.Reveal{Delay: d.decor.Elapsed(), Rise: 20}, components.Tile{
		Kind:  components.TileButton,
		Title: buttonLabel,
	})
	d.buttonUp = true
}

func (d *Director) buildJourney() {
	j := d.cfg.Screens.Journey
	n := len(j.Chunks)
	for i, text := range j.Chunks {
		d.addLabel(func(w, h int) rect {
			p := chunkPositions(n, w, h)[i]
			return rect{X: p.X, Y: p.Y}
		}, components.Reveal{Delay: float64(i) * j.StaggerSec, Rise: float32(j.Rise)}, components.Label{
			Text:  text,
			Size:  chunkFontSize,
			Color: yellow,
		})
	}
}

func (d *Director) buildGallery() {
	g := d.cfg.Screens.Gallery

	d.addLabel(func(w, h int) rect {
		return rect{X: float32(w) / 2, Y: 24}
	}, components.Reveal{Rise: 30}, components.Label{Text: galleryTitle, Size: 40, Color: white})
	d.addLabel(func(w, h int) rect {
		return rect{X: float32(w) / 2, Y: 66}
	}, components.Reveal{Delay: 0.1, Rise: 30}, components.Label{Text: galleryAccent, Size: 28, Color: amber})

	for i, dish := range g.Dishes {
		d.addTile(func(w, h int) rect {
			return galleryRects(g, w, h)[i]
		}, components.Reveal{Delay: 0.2 + float64(i)*g.StaggerSec, Rise: float32(g.Rise)}, components.Tile{
			Kind:     components.TileDish,
			Index:    i,
			Title:    dish.Title,
			Subtitle: dish.Category,
		})
	}
}

// galleryHeight returns the bottom edge of the lowest dish card.
func (d *Director) galleryHeight() float32 {
	var bottom float32
	for _, r := range galleryRects(d.cfg.Screens.Gallery, d.width, d.height) {
		bottom = max(bottom, r.Y+r.H)
	}
	return bottom + galleryMargin
}
