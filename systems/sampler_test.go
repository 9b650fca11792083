package systems

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/savor/config"
)

func testProfile(throttleMS float64) config.ProfileConfig {
	return config.ProfileConfig{
		Cap:           80,
		ThrottleMS:    throttleMS,
		VelocityScale: 10,
		SpeedDivisor:  5,
		MaxPerSample:  3,
		StaggerMS:     8,
		SparkleChance: 0.8,
		Damping:       0.985,
	}
}

func TestPointerSampler_FirstEventZeroVelocity(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	reqs := s.Observe(300, 200, 5*time.Second, nil)

	if len(reqs) != 1 {
		t.Fatalf("expected 1 request at rest, got %d", len(reqs))
	}
	if reqs[0].VX != 0 || reqs[0].VY != 0 {
		t.Errorf("expected zero velocity on first event, got (%f, %f)", reqs[0].VX, reqs[0].VY)
	}
	if math.IsNaN(reqs[0].VX) || math.IsNaN(reqs[0].VY) {
		t.Error("velocity must never be NaN")
	}
}

func TestPointerSampler_ThrottleBoundsAcceptedSamples(t *testing.T) {
	s := NewPointerSampler(testProfile(25))

	var accepted int
	for ms := 0; ms < 200; ms += 5 {
		before := s.Samples()
		s.Observe(float64(ms), 100, time.Duration(ms)*time.Millisecond, nil)
		if s.Samples() > before {
			accepted++
		}
	}

	if accepted < 7 || accepted > 9 {
		t.Errorf("expected 8±1 accepted samples, got %d", accepted)
	}
	if s.Observed() != 40 {
		t.Errorf("expected all 40 events observed, got %d", s.Observed())
	}
}

func TestPointerSampler_ThrottleMustBeExceeded(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	s.Observe(0, 0, 0, nil)

	if reqs := s.Observe(5, 0, 25*time.Millisecond, nil); len(reqs) != 0 {
		t.Errorf("event exactly one window later should be throttled, got %d requests", len(reqs))
	}
	if reqs := s.Observe(6, 0, 26*time.Millisecond, nil); len(reqs) == 0 {
		t.Error("event past the window should be accepted")
	}
	if s.Samples() != 2 {
		t.Errorf("expected 2 accepted samples, got %d", s.Samples())
	}
}

func TestPointerSampler_TracksPositionBetweenAcceptedSamples(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	s.Observe(0, 0, 0, nil)
	// Throttled, but position and time still update
	s.Observe(10, 0, 10*time.Millisecond, nil)
	reqs := s.Observe(20, 0, 30*time.Millisecond, nil)

	if len(reqs) == 0 {
		t.Fatal("expected accepted sample at 30ms")
	}
	// 10px over 20ms since the last seen event, scaled by 10
	if math.Abs(reqs[0].VX-5) > 1e-9 {
		t.Errorf("expected vx 5 from last seen event, got %f", reqs[0].VX)
	}
}

func TestPointerSampler_SpawnCountScalesWithSpeed(t *testing.T) {
	cases := []struct {
		name string
		dx   float64
		want int
	}{
		{"slow", 0.5, 1},   // speed 0.25 -> max(1, .25)/5 -> 1
		{"medium", 16, 2},  // speed 8 -> 1.6 -> 2
		{"fast", 100, 3},   // speed 50 -> capped at 3
		{"huge", 10000, 3}, // still capped
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewPointerSampler(testProfile(25))
			s.Observe(0, 0, 0, nil)
			reqs := s.Observe(tc.dx, 0, 20*time.Millisecond, nil)
			// Second event is inside the throttle window, so accept a third
			reqs = s.Observe(tc.dx*2, 0, 40*time.Millisecond, reqs)
			if len(reqs) != tc.want {
				t.Errorf("expected %d requests, got %d", tc.want, len(reqs))
			}
		})
	}
}

func TestPointerSampler_StaggersRequests(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	s.Observe(0, 0, 0, nil)
	reqs := s.Observe(200, 0, 30*time.Millisecond, nil)

	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests for a fast move, got %d", len(reqs))
	}
	for i, r := range reqs {
		if want := time.Duration(i) * 8 * time.Millisecond; r.Delay != want {
			t.Errorf("request %d: expected delay %v, got %v", i, want, r.Delay)
		}
	}
}

func TestPointerSampler_SameTimestampUsesMinimumGap(t *testing.T) {
	s := NewPointerSampler(testProfile(0))
	s.Observe(0, 0, time.Second, nil)
	reqs := s.Observe(3, 4, time.Second, nil)
	if len(reqs) == 0 {
		t.Fatal("zero throttle should accept every event")
	}
	if math.IsInf(reqs[0].VX, 0) || math.IsNaN(reqs[0].VX) {
		t.Fatalf("velocity must stay finite, got %f", reqs[0].VX)
	}
	if reqs[0].VX != 30 || reqs[0].VY != 40 {
		t.Errorf("expected (30, 40) over a 1ms floor, got (%f, %f)", reqs[0].VX, reqs[0].VY)
	}
}

func TestPointerSampler_IgnoresNonFinite(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	if reqs := s.Observe(math.NaN(), 0, 0, nil); len(reqs) != 0 {
		t.Errorf("expected no requests for NaN, got %d", len(reqs))
	}
	if s.Observed() != 0 {
		t.Error("NaN event should not count as observed")
	}
	reqs := s.Observe(1, 1, time.Millisecond, nil)
	if len(reqs) != 1 || reqs[0].VX != 0 {
		t.Errorf("first finite event should still be a fresh zero-velocity sample, got %+v", reqs)
	}
}

func TestPointerSampler_Reset(t *testing.T) {
	s := NewPointerSampler(testProfile(25))
	s.Observe(0, 0, 0, nil)
	s.Observe(500, 0, 30*time.Millisecond, nil)
	s.Reset()

	reqs := s.Observe(900, 0, 31*time.Millisecond, nil)
	if len(reqs) != 1 {
		t.Fatalf("reset sampler should accept immediately, got %d requests", len(reqs))
	}
	if reqs[0].VX != 0 {
		t.Errorf("expected zero velocity after reset, got %f", reqs[0].VX)
	}
}

func TestSpawnQueue_ReleasesInDueOrder(t *testing.T) {
	var q SpawnQueue
	q.Push(SpawnRequest{X: 1, Delay: 16 * time.Millisecond}, 0)
	q.Push(SpawnRequest{X: 2}, 0)
	q.Push(SpawnRequest{X: 3, Delay: 8 * time.Millisecond}, 0)
	q.Push(SpawnRequest{X: 4}, 5*time.Millisecond)

	got := q.Due(10*time.Millisecond, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 due, got %d", len(got))
	}
	want := []float64{2, 4, 3}
	for i, r := range got {
		if r.X != want[i] {
			t.Errorf("slot %d: expected X=%g, got %g", i, want[i], r.X)
		}
	}
	if q.Len() != 1 {
		t.Errorf("expected 1 pending, got %d", q.Len())
	}

	q.Clear()
	if got := q.Due(time.Hour, nil); len(got) != 0 {
		t.Errorf("expected nothing after clear, got %d", len(got))
	}
}

func TestViewport_ClampsAndReportsChanges(t *testing.T) {
	var v Viewport
	if !v.Update(0, -5) {
		t.Fatal("first update should report a change")
	}
	if w, h := v.Size(); w != 1 || h != 1 {
		t.Errorf("expected clamp to 1x1, got %dx%d", w, h)
	}
	if v.Update(1, 1) {
		t.Error("same clamped size should not report a change")
	}
	if !v.Update(1920, 1080) {
		t.Error("resize should report a change")
	}
}
