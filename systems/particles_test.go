package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/savor/config"
)

func testKind(decayMin, decayMax float64) config.KindConfig {
	return config.KindConfig{
		Jitter:          8,
		VelocityInherit: 0.1,
		VelocityJitter:  0.8,
		Decay:           config.Range{Min: decayMin, Max: decayMax},
		Size:            config.Range{Min: 1.5, Max: 4},
		Hue:             config.Range{Min: 45, Max: 60},
		Saturation:      config.Range{Min: 85, Max: 100},
		Lightness:       config.Range{Min: 70, Max: 90},
		Alpha:           config.Range{Min: 0.8, Max: 1},
		ShimmerSpeed:    config.Range{Min: 0.1, Max: 0.2},
	}
}

func testEngine(cap int) *ParticleEngine {
	return NewParticleEngine(EngineParams{
		Cap:           cap,
		SparkleChance: 0.8,
		Damping:       0.985,
		Sparkle:       testKind(0.015, 0.025),
		Glow:          testKind(0.008, 0.015),
	}, rand.New(rand.NewSource(42)))
}

func TestParticleEngine_BoundedPopulation(t *testing.T) {
	e := testEngine(80)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		e.Spawn(rng.Float64()*1280, rng.Float64()*720, rng.Float64()*20-10, rng.Float64()*20-10)
		if e.Count() > 80 {
			t.Fatalf("live count %d exceeds cap after spawn %d", e.Count(), i)
		}
		if i%3 == 0 {
			e.Step(1)
		}
	}

	stats := e.Stats()
	if stats.Spawned != 1000 {
		t.Errorf("expected 1000 spawned, got %d", stats.Spawned)
	}
	if stats.Evicted == 0 {
		t.Error("expected evictions under sustained spawning")
	}
	if stats.Spawned != stats.Evicted+stats.Expired+uint64(e.Count()) {
		t.Errorf("particle accounting mismatch: %+v live=%d", stats, e.Count())
	}
}

func TestParticleEngine_EvictsOldestFirst(t *testing.T) {
	e := testEngine(3)
	for i := 0; i < 5; i++ {
		e.SpawnKind(KindSparkle, float64(i), 0, 0, 0)
	}

	ps := e.Particles()
	if len(ps) != 3 {
		t.Fatalf("expected 3 live particles, got %d", len(ps))
	}
	for i, p := range ps {
		if p.ID != uint64(i+2) {
			t.Errorf("slot %d: expected id %d, got %d", i, i+2, p.ID)
		}
	}
}

func TestParticleEngine_UniqueIncreasingIDs(t *testing.T) {
	e := testEngine(50)
	for i := 0; i < 200; i++ {
		e.Spawn(10, 10, 1, 1)
		e.Step(1)
	}

	seen := make(map[uint64]bool)
	var last uint64
	for i, p := range e.Particles() {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
		if i > 0 && p.ID <= last {
			t.Errorf("ids not increasing in insertion order: %d after %d", p.ID, last)
		}
		last = p.ID
	}
}

func TestParticleEngine_IndependentInstances(t *testing.T) {
	a := testEngine(10)
	b := testEngine(10)
	a.Spawn(0, 0, 0, 0)
	a.Spawn(0, 0, 0, 0)
	b.Spawn(0, 0, 0, 0)

	if got := b.Particles()[0].ID; got != 0 {
		t.Errorf("second engine should start ids at 0, got %d", got)
	}
}

func TestParticleEngine_MonotonicDecay(t *testing.T) {
	e := testEngine(80)
	for i := 0; i < 40; i++ {
		e.Spawn(100, 100, 5, -3)
	}

	prev := make(map[uint64]float64)
	for _, p := range e.Particles() {
		prev[p.ID] = p.Life
	}

	for tick := 0; tick < 200 && e.Count() > 0; tick++ {
		e.Step(1)
		for _, p := range e.Particles() {
			old, ok := prev[p.ID]
			if !ok {
				t.Fatalf("unknown particle %d appeared", p.ID)
			}
			if p.Life >= old {
				t.Fatalf("tick %d: particle %d life went %f -> %f", tick, p.ID, old, p.Life)
			}
			prev[p.ID] = p.Life
		}
	}
}

func TestParticleEngine_Termination(t *testing.T) {
	for _, d := range []float64{0.008, 0.015, 0.02, 0.025, 0.3} {
		params := EngineParams{
			Cap:           10,
			SparkleChance: 1,
			Damping:       0.985,
			Sparkle:       testKind(d, d),
			Glow:          testKind(d, d),
		}
		e := NewParticleEngine(params, rand.New(rand.NewSource(1)))
		e.SpawnKind(KindSparkle, 0, 0, 0, 0)

		limit := int(math.Ceil(1 / d))
		for i := 0; i < limit; i++ {
			e.Step(1)
		}
		if e.Count() != 0 {
			t.Errorf("decay %g: particle still alive after %d ticks (life %g)", d, limit, e.Particles()[0].Life)
		}
	}
}

func TestParticleEngine_EndToEndSparkle(t *testing.T) {
	params := EngineParams{
		Cap:           80,
		SparkleChance: 1,
		Damping:       0.985,
		Sparkle:       testKind(0.02, 0.02),
		Glow:          testKind(0.01, 0.01),
	}
	e := NewParticleEngine(params, rand.New(rand.NewSource(3)))
	if !e.Spawn(200, 200, 0, 0) {
		t.Fatal("spawn rejected")
	}
	if e.Particles()[0].Kind != KindSparkle {
		t.Fatal("expected sparkle with chance 1")
	}

	removedAt := -1
	for tick := 1; tick <= 50; tick++ {
		e.Step(1)
		if e.Count() == 0 {
			removedAt = tick
			break
		}
		want := 1 - float64(tick)*0.02
		if got := e.Particles()[0].Life; math.Abs(got-want) > 1e-9 {
			t.Fatalf("tick %d: expected life %f, got %f", tick, want, got)
		}
	}
	if removedAt < 0 {
		t.Fatal("particle not removed by tick 50")
	}
	if removedAt < 49 {
		t.Errorf("particle removed too early at tick %d", removedAt)
	}
}

func TestParticleEngine_SizeBounds(t *testing.T) {
	e := testEngine(80)
	for i := 0; i < 30; i++ {
		e.Spawn(50, 50, 0, 0)
	}

	for e.Count() > 0 {
		e.Step(1)
		for _, p := range e.Particles() {
			if p.Size > p.BaseSize+1e-12 {
				t.Fatalf("size %f above base %f", p.Size, p.BaseSize)
			}
			if p.Size < 0.3*p.BaseSize-1e-12 {
				t.Fatalf("size %f below floor %f", p.Size, 0.3*p.BaseSize)
			}
		}
	}

	if got := sizeForLife(2, 0); got != 0.6 {
		t.Errorf("expected floor 0.6 at zero life, got %f", got)
	}
	if got := sizeForLife(2, 1); got != 2 {
		t.Errorf("expected base size at full life, got %f", got)
	}
}

func TestParticleEngine_DampingConverges(t *testing.T) {
	params := EngineParams{
		Cap:           1,
		SparkleChance: 1,
		Damping:       0.985,
		Sparkle:       testKind(1e-6, 1e-6),
		Glow:          testKind(1e-6, 1e-6),
	}
	params.Sparkle.VelocityJitter = 0
	params.Sparkle.VelocityInherit = 1
	e := NewParticleEngine(params, rand.New(rand.NewSource(5)))
	e.SpawnKind(KindSparkle, 0, 0, 30, -12)

	prevVX, prevVY := 30.0, -12.0
	for i := 0; i < 2000; i++ {
		e.Step(1)
		p := e.Particles()[0]
		if p.VX < 0 || p.VY > 0 {
			t.Fatalf("step %d: velocity flipped sign (%f, %f)", i, p.VX, p.VY)
		}
		if math.Abs(p.VX) > math.Abs(prevVX) || math.Abs(p.VY) > math.Abs(prevVY) {
			t.Fatalf("step %d: velocity grew", i)
		}
		prevVX, prevVY = p.VX, p.VY
	}
	if math.Abs(prevVX) > 0.01 || math.Abs(prevVY) > 0.01 {
		t.Errorf("velocity did not converge: (%f, %f)", prevVX, prevVY)
	}
}

func TestParticleEngine_ScaledStepMatchesFixedSteps(t *testing.T) {
	build := func() *ParticleEngine {
		params := EngineParams{
			Cap:           4,
			SparkleChance: 1,
			Damping:       0.9,
			Sparkle:       testKind(0.01, 0.01),
			Glow:          testKind(0.01, 0.01),
		}
		e := NewParticleEngine(params, rand.New(rand.NewSource(11)))
		e.SpawnKind(KindSparkle, 0, 0, 10, 0)
		return e
	}

	fixed := build()
	fixed.Step(1)
	fixed.Step(1)
	scaled := build()
	scaled.Step(2)

	f, s := fixed.Particles()[0], scaled.Particles()[0]
	if math.Abs(f.Life-s.Life) > 1e-12 {
		t.Errorf("life differs: fixed %f scaled %f", f.Life, s.Life)
	}
	if math.Abs(f.VX-s.VX) > 1e-12 {
		t.Errorf("damped velocity differs: fixed %f scaled %f", f.VX, s.VX)
	}
}

func TestParticleEngine_IgnoresNonPositiveScale(t *testing.T) {
	e := testEngine(5)
	e.Spawn(0, 0, 0, 0)
	before := e.Particles()[0].Life
	e.Step(0)
	e.Step(-1)
	e.Step(math.NaN())
	if got := e.Particles()[0].Life; got != before {
		t.Errorf("life changed on ignored steps: %f -> %f", before, got)
	}
}

func TestParticleEngine_RejectsNonFinite(t *testing.T) {
	e := testEngine(5)
	if e.Spawn(math.NaN(), 0, 0, 0) {
		t.Error("expected NaN x to be rejected")
	}
	if e.Spawn(0, math.Inf(1), 0, 0) {
		t.Error("expected Inf y to be rejected")
	}
	if !e.Spawn(1, 1, math.NaN(), 0) {
		t.Fatal("non-finite velocity should be zeroed, not rejected")
	}
	p := e.Particles()[0]
	if math.IsNaN(p.VX) || math.IsNaN(p.VY) {
		t.Errorf("velocity still non-finite: (%f, %f)", p.VX, p.VY)
	}
	if e.Stats().Rejected != 2 {
		t.Errorf("expected 2 rejected, got %d", e.Stats().Rejected)
	}
}

func TestParticleEngine_KindMix(t *testing.T) {
	e := testEngine(10000)
	for i := 0; i < 5000; i++ {
		e.Spawn(0, 0, 0, 0)
	}
	var sparkles int
	for _, p := range e.Particles() {
		if p.Kind == KindSparkle {
			sparkles++
		}
	}
	ratio := float64(sparkles) / 5000
	if ratio < 0.76 || ratio > 0.84 {
		t.Errorf("expected ~80%% sparkles, got %.1f%%", ratio*100)
	}
}

func TestParticleEngine_GlowDoesNotShimmer(t *testing.T) {
	e := testEngine(5)
	e.SpawnKind(KindGlow, 0, 0, 0, 0)
	p := e.Particles()[0]
	if p.Shimmer != 0 {
		t.Errorf("glow should start with zero shimmer phase, got %f", p.Shimmer)
	}
	if p.ShimmerIntensity() != 1 {
		t.Errorf("glow intensity should be 1, got %f", p.ShimmerIntensity())
	}
}

func TestParticle_FadeAlpha(t *testing.T) {
	p := Particle{Life: 0.25, MaxLife: 1}
	if got := p.FadeAlpha(); math.Abs(got-0.125) > 1e-12 {
		t.Errorf("expected 0.125, got %f", got)
	}
	p.Life = 0
	if got := p.FadeAlpha(); got != 0 {
		t.Errorf("expected 0 at zero life, got %f", got)
	}
}

func TestParticleEngine_Clear(t *testing.T) {
	e := testEngine(5)
	e.Spawn(0, 0, 0, 0)
	e.Spawn(0, 0, 0, 0)
	e.Clear()
	if e.Count() != 0 {
		t.Errorf("expected empty after clear, got %d", e.Count())
	}
	e.Spawn(0, 0, 0, 0)
	if got := e.Particles()[0].ID; got != 2 {
		t.Errorf("ids should keep increasing after clear, got %d", got)
	}
}
