package systems

import (
	"math"
	"time"

	"github.com/pthm-cable/savor/config"
)

// minSampleGap stands in for a zero elapsed time between two pointer events.
const minSampleGap = time.Millisecond

// SpawnRequest asks the engine for one particle.
type SpawnRequest struct {
	X, Y   float64
	VX, VY float64
	Delay  time.Duration // Stagger after the accepted sample
}

// PointerSampler turns a raw pointer stream into throttled, velocity
// annotated spawn requests. Every event updates the tracked position;
// only events more than one throttle window after the last accepted one
// produce requests. A zero throttle accepts every event.
type PointerSampler struct {
	throttle      time.Duration
	velocityScale float64
	speedDivisor  float64
	maxPerSample  int
	stagger       time.Duration

	lastX, lastY float64
	lastSeen     time.Duration
	lastAccepted time.Duration
	vx, vy       float64
	primed       bool // at least one event seen
	accepted     bool // at least one sample accepted

	observed uint64
	samples  uint64
}

// NewPointerSampler creates a sampler for a profile.
func NewPointerSampler(p config.ProfileConfig) *PointerSampler {
	s := &PointerSampler{
		throttle:      p.Throttle(),
		velocityScale: p.VelocityScale,
		speedDivisor:  p.SpeedDivisor,
		maxPerSample:  p.MaxPerSample,
		stagger:       p.Stagger(),
	}
	if s.speedDivisor <= 0 {
		s.speedDivisor = 5
	}
	if s.maxPerSample < 1 {
		s.maxPerSample = 1
	}
	return s
}

// Observe records a pointer event at time now and appends any resulting
// spawn requests to out. Non-finite coordinates are ignored.
func (s *PointerSampler) Observe(x, y float64, now time.Duration, out []SpawnRequest) []SpawnRequest {
	if !finite(x) || !finite(y) {
		return out
	}
	s.observed++

	if s.primed {
		elapsed := now - s.lastSeen
		if elapsed < minSampleGap {
			elapsed = minSampleGap
		}
		ms := float64(elapsed) / float64(time.Millisecond)
		s.vx = (x - s.lastX) / ms * s.velocityScale
		s.vy = (y - s.lastY) / ms * s.velocityScale
	} else {
		s.vx, s.vy = 0, 0
		s.primed = true
	}
	s.lastX, s.lastY = x, y
	s.lastSeen = now

	if s.accepted && s.throttle > 0 && now-s.lastAccepted <= s.throttle {
		return out
	}
	s.accepted = true
	s.lastAccepted = now
	s.samples++

	n := s.spawnCount()
	for i := 0; i < n; i++ {
		out = append(out, SpawnRequest{
			X:     x,
			Y:     y,
			VX:    s.vx,
			VY:    s.vy,
			Delay: time.Duration(i) * s.stagger,
		})
	}
	return out
}

// spawnCount scales with speed: 1 at rest, up to maxPerSample.
func (s *PointerSampler) spawnCount() int {
	speed := math.Abs(s.vx) + math.Abs(s.vy)
	n := math.Ceil(math.Min(float64(s.maxPerSample), math.Max(1, speed)/s.speedDivisor))
	if n < 1 {
		return 1
	}
	return int(n)
}

// Velocity returns the most recent velocity estimate.
func (s *PointerSampler) Velocity() (vx, vy float64) {
	return s.vx, s.vy
}

// Samples returns how many events were accepted.
func (s *PointerSampler) Samples() uint64 {
	return s.samples
}

// Observed returns how many finite events were seen.
func (s *PointerSampler) Observed() uint64 {
	return s.observed
}

// Reset forgets the previous position so the next event starts at zero velocity.
func (s *PointerSampler) Reset() {
	s.primed = false
	s.accepted = false
	s.vx, s.vy = 0, 0
}
