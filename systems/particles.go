package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/savor/config"
)

// ParticleKind identifies the kind of trail particle.
// The set is closed: every kind has its own spawn ranges and draw routine.
type ParticleKind uint8

const (
	KindSparkle ParticleKind = iota
	KindGlow
)

// String returns the kind name used in logs and config.
func (k ParticleKind) String() string {
	switch k {
	case KindSparkle:
		return "sparkle"
	case KindGlow:
		return "glow"
	}
	return "unknown"
}

// lifeEpsilon absorbs float drift from repeated decay subtraction so a
// particle with decay d is gone after ceil(1/d) reference steps.
const lifeEpsilon = 1e-9

// Particle is a single short-lived trail element in screen space.
type Particle struct {
	ID     uint64
	Kind   ParticleKind
	X, Y   float64
	VX, VY float64

	Life    float64 // (0, 1], removed at <= 0
	MaxLife float64
	Decay   float64 // Life lost per reference step

	Size     float64 // BaseSize * (0.3 + 0.7*Life)
	BaseSize float64

	Hue        float64 // degrees
	Saturation float64 // percent
	Lightness  float64 // percent
	Alpha      float64

	Shimmer      float64 // Phase, radians
	ShimmerSpeed float64 // Phase advance per reference step
}

// FadeAlpha returns the super-linear fade factor (life/maxLife)^1.5.
func (p *Particle) FadeAlpha() float64 {
	if p.MaxLife <= 0 || p.Life <= 0 {
		return 0
	}
	r := p.Life / p.MaxLife
	if r > 1 {
		r = 1
	}
	return r * math.Sqrt(r)
}

// ShimmerIntensity returns the sinusoidal brightness/size modulation.
// Glow particles never shimmer.
func (p *Particle) ShimmerIntensity() float64 {
	if p.Kind != KindSparkle {
		return 1
	}
	return 1 + math.Sin(p.Shimmer)*0.3
}

// sizeForLife derives the rendered radius; it never exceeds base size and
// never drops below 30% of it.
func sizeForLife(base, life float64) float64 {
	if life < 0 {
		life = 0
	}
	if life > 1 {
		life = 1
	}
	return base * (0.3 + 0.7*life)
}

// EngineParams configures one engine instance.
type EngineParams struct {
	Cap           int
	SparkleChance float64
	Damping       float64 // Velocity factor per reference step, < 1
	Sparkle       config.KindConfig
	Glow          config.KindConfig
}

// ParamsFromConfig builds engine parameters for a named profile.
func ParamsFromConfig(cfg *config.Config, p config.ProfileConfig) EngineParams {
	return EngineParams{
		Cap:           p.Cap,
		SparkleChance: p.SparkleChance,
		Damping:       p.Damping,
		Sparkle:       cfg.Trail.Kinds.Sparkle,
		Glow:          cfg.Trail.Kinds.Glow,
	}
}

func (p *EngineParams) kind(k ParticleKind) *config.KindConfig {
	if k == KindGlow {
		return &p.Glow
	}
	return &p.Sparkle
}

// EngineStats counts particle lifecycle events since creation.
type EngineStats struct {
	Spawned  uint64
	Evicted  uint64 // Dropped by the cap before natural expiry
	Expired  uint64 // Removed because life reached zero
	Rejected uint64 // Spawn requests with non-finite coordinates
}

// ParticleEngine owns the live particle set and its physics.
// It is not safe for concurrent use; the owning frame loop drives it.
type ParticleEngine struct {
	params EngineParams
	rng    *rand.Rand

	live  []Particle
	spare []Particle // Next step is built here, then swapped in

	nextID uint64
	stats  EngineStats
}

// NewParticleEngine creates an engine. A cap below 1 is raised to 1.
func NewParticleEngine(params EngineParams, rng *rand.Rand) *ParticleEngine {
	if params.Cap < 1 {
		params.Cap = 1
	}
	if params.Damping <= 0 || params.Damping > 1 {
		params.Damping = 1
	}
	return &ParticleEngine{
		params: params,
		rng:    rng,
		live:   make([]Particle, 0, params.Cap+1),
		spare:  make([]Particle, 0, params.Cap+1),
	}
}

// Spawn adds a particle at (x, y) with a velocity hint, choosing its kind
// by the configured sparkle chance. Returns false if the request was rejected.
func (e *ParticleEngine) Spawn(x, y, vx, vy float64) bool {
	kind := KindGlow
	if e.rng.Float64() < e.params.SparkleChance {
		kind = KindSparkle
	}
	return e.SpawnKind(kind, x, y, vx, vy)
}

// SpawnKind adds a particle of the given kind.
func (e *ParticleEngine) SpawnKind(kind ParticleKind, x, y, vx, vy float64) bool {
	if !finite(x) || !finite(y) {
		e.stats.Rejected++
		return false
	}
	if !finite(vx) || !finite(vy) {
		vx, vy = 0, 0
	}

	k := e.params.kind(kind)
	r := e.rng

	base := k.Size.Lerp(r.Float64())
	p := Particle{
		ID:           e.nextID,
		Kind:         kind,
		X:            x + (r.Float64()-0.5)*k.Jitter,
		Y:            y + (r.Float64()-0.5)*k.Jitter,
		VX:           vx*k.VelocityInherit + (r.Float64()-0.5)*k.VelocityJitter,
		VY:           vy*k.VelocityInherit + (r.Float64()-0.5)*k.VelocityJitter,
		Life:         1,
		MaxLife:      1,
		Decay:        k.Decay.Lerp(r.Float64()),
		Size:         base,
		BaseSize:     base,
		Hue:          k.Hue.Lerp(r.Float64()),
		Saturation:   k.Saturation.Lerp(r.Float64()),
		Lightness:    k.Lightness.Lerp(r.Float64()),
		Alpha:        k.Alpha.Lerp(r.Float64()),
		ShimmerSpeed: k.ShimmerSpeed.Lerp(r.Float64()),
	}
	if kind == KindSparkle {
		p.Shimmer = r.Float64() * 2 * math.Pi
	}
	e.nextID++

	e.live = append(e.live, p)
	e.stats.Spawned++

	// FIFO eviction, independent of remaining life
	if over := len(e.live) - e.params.Cap; over > 0 {
		n := copy(e.live, e.live[over:])
		e.live = e.live[:n]
		e.stats.Evicted += uint64(over)
	}
	return true
}

// Step advances every particle by scale reference steps and drops expired ones.
// With scale == 1 this is exactly one fixed tick. Non-positive or non-finite
// scales are ignored so life never stalls mid-tick.
func (e *ParticleEngine) Step(scale float64) {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return
	}

	damp := e.params.Damping
	if scale != 1 {
		damp = math.Pow(damp, scale)
	}

	next := e.spare[:0]
	for i := range e.live {
		p := e.live[i]

		p.X += p.VX * scale
		p.Y += p.VY * scale
		p.VX *= damp
		p.VY *= damp
		p.Life -= p.Decay * scale
		p.Shimmer += p.ShimmerSpeed * scale

		if p.Life <= lifeEpsilon {
			e.stats.Expired++
			continue
		}
		p.Size = sizeForLife(p.BaseSize, p.Life)
		next = append(next, p)
	}

	// Swap buffers: the previous live slice becomes scratch for the next step
	e.spare = e.live[:0]
	e.live = next
}

// Particles returns the live set in insertion order.
// The slice is valid until the next Step or Spawn.
func (e *ParticleEngine) Particles() []Particle {
	return e.live
}

// Count returns the number of live particles.
func (e *ParticleEngine) Count() int {
	return len(e.live)
}

// Cap returns the live set bound.
func (e *ParticleEngine) Cap() int {
	return e.params.Cap
}

// Clear drops all live particles. Ids keep increasing.
func (e *ParticleEngine) Clear() {
	e.live = e.live[:0]
}

// Stats returns lifecycle counters.
func (e *ParticleEngine) Stats() EngineStats {
	return e.stats
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
