package systems

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savor/components"
)

// DecorWorld holds one screen's decorative entities (text, icons, cards)
// and eases them into place with a spring once their delay has passed.
type DecorWorld struct {
	world *ecs.World

	labelMapper *ecs.Map3[components.Position, components.Reveal, components.Label]
	tileMapper  *ecs.Map4[components.Position, components.Bounds, components.Reveal, components.Tile]
	tileMap     *ecs.Map[components.Tile]
	revealMap   *ecs.Map[components.Reveal]
	posMap      *ecs.Map[components.Position]
	boundsMap   *ecs.Map[components.Bounds]

	labelFilter  *ecs.Filter3[components.Position, components.Reveal, components.Label]
	tileFilter   *ecs.Filter4[components.Position, components.Bounds, components.Reveal, components.Tile]
	revealFilter *ecs.Filter1[components.Reveal]

	frequency float64
	damping   float64
	elapsed   float64

	entities []ecs.Entity
}

// NewDecorWorld creates an empty world whose reveals use a spring of the
// given angular frequency and damping ratio.
func NewDecorWorld(frequency, damping float64) *DecorWorld {
	world := ecs.NewWorld()
	return &DecorWorld{
		world:        world,
		labelMapper:  ecs.NewMap3[components.Position, components.Reveal, components.Label](world),
		tileMapper:   ecs.NewMap4[components.Position, components.Bounds, components.Reveal, components.Tile](world),
		tileMap:      ecs.NewMap[components.Tile](world),
		revealMap:    ecs.NewMap[components.Reveal](world),
		posMap:       ecs.NewMap[components.Position](world),
		boundsMap:    ecs.NewMap[components.Bounds](world),
		labelFilter:  ecs.NewFilter3[components.Position, components.Reveal, components.Label](world),
		tileFilter:   ecs.NewFilter4[components.Position, components.Bounds, components.Reveal, components.Tile](world),
		revealFilter: ecs.NewFilter1[components.Reveal](world),
		frequency:    frequency,
		damping:      damping,
	}
}

// AddLabel creates a text entity.
func (d *DecorWorld) AddLabel(pos components.Position, reveal components.Reveal, label components.Label) ecs.Entity {
	e := d.labelMapper.NewEntity(&pos, &reveal, &label)
	d.entities = append(d.entities, e)
	return e
}

// AddTile creates a rectangular card entity.
func (d *DecorWorld) AddTile(pos components.Position, bounds components.Bounds, reveal components.Reveal, tile components.Tile) ecs.Entity {
	e := d.tileMapper.NewEntity(&pos, &bounds, &reveal, &tile)
	d.entities = append(d.entities, e)
	return e
}

// Update advances the screen clock and every started reveal by dt.
func (d *DecorWorld) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	sec := dt.Seconds()
	d.elapsed += sec
	spring := harmonica.NewSpring(sec, d.frequency, d.damping)

	query := d.revealFilter.Query()
	for query.Next() {
		r := query.Get()
		if d.elapsed < r.Delay {
			continue
		}
		target := 1.0
		if r.Hidden {
			target = 0
		}
		r.Progress, r.Velocity = spring.Update(r.Progress, r.Velocity, target)
	}
}

// Elapsed returns seconds since the world was created or last cleared.
func (d *DecorWorld) Elapsed() float64 {
	return d.elapsed
}

// EachLabel visits every label in creation order of their archetype.
func (d *DecorWorld) EachLabel(fn func(pos *components.Position, r *components.Reveal, l *components.Label)) {
	query := d.labelFilter.Query()
	for query.Next() {
		pos, r, l := query.Get()
		fn(pos, r, l)
	}
}

// EachTile visits every tile.
func (d *DecorWorld) EachTile(fn func(pos *components.Position, b *components.Bounds, r *components.Reveal, t *components.Tile)) {
	query := d.tileFilter.Query()
	for query.Next() {
		pos, b, r, t := query.Get()
		fn(pos, b, r, t)
	}
}

// TileAt returns the most recently added visible tile under (x, y).
func (d *DecorWorld) TileAt(x, y float32) (components.Tile, bool) {
	var hit components.Tile
	found := false
	query := d.tileFilter.Query()
	for query.Next() {
		pos, b, r, t := query.Get()
		if r.Hidden || r.Progress < 0.5 {
			continue
		}
		if b.Contains(components.Position{X: pos.X, Y: pos.Y + r.Offset()}, x, y) {
			hit, found = *t, true
		}
	}
	return hit, found
}

// Select marks the tile of kind with index as selected and clears the
// others of that kind.
func (d *DecorWorld) Select(kind components.TileKind, index int) {
	query := d.tileFilter.Query()
	for query.Next() {
		_, _, _, t := query.Get()
		if t.Kind == kind {
			t.Selected = t.Index == index
		}
	}
}

// Tile returns the tile component of e, or nil.
func (d *DecorWorld) Tile(e ecs.Entity) *components.Tile {
	if !d.world.Alive(e) || !d.tileMap.Has(e) {
		return nil
	}
	return d.tileMap.Get(e)
}

// Hide sends e's reveal back toward 0.
func (d *DecorWorld) Hide(e ecs.Entity) {
	if !d.world.Alive(e) || !d.revealMap.Has(e) {
		return
	}
	d.revealMap.Get(e).Hidden = true
}

// Place moves e to a new resting position, keeping its reveal state.
// A zero bounds leaves the size unchanged.
func (d *DecorWorld) Place(e ecs.Entity, pos components.Position, bounds components.Bounds) {
	if !d.world.Alive(e) || !d.posMap.Has(e) {
		return
	}
	*d.posMap.Get(e) = pos
	if bounds.W > 0 && bounds.H > 0 && d.boundsMap.Has(e) {
		*d.boundsMap.Get(e) = bounds
	}
}

// Settled reports whether every started reveal has reached its target.
// Entities still waiting on their delay count as unsettled.
func (d *DecorWorld) Settled() bool {
	settled := true
	query := d.revealFilter.Query()
	for query.Next() {
		r := query.Get()
		if d.elapsed < r.Delay || !r.Settled() {
			settled = false
		}
	}
	return settled
}

// Len returns the number of live entities.
func (d *DecorWorld) Len() int {
	return len(d.entities)
}

// Clear removes every entity and resets the clock.
func (d *DecorWorld) Clear() {
	for _, e := range d.entities {
		if d.world.Alive(e) {
			d.world.RemoveEntity(e)
		}
	}
	d.entities = d.entities[:0]
	d.elapsed = 0
}
