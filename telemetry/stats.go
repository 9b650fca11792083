package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameSample is what one trail frame reports to the window.
type FrameSample struct {
	Particles int
	FrameTime time.Duration
	DrawCalls int
}

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStart int64  `csv:"-"`
	WindowEnd   int64  `csv:"window_end"`
	Screen      string `csv:"screen"`
	Frames      int    `csv:"frames"`

	// Live particle count across the window
	ParticlesMean float64 `csv:"particles_mean"`
	ParticlesP50  float64 `csv:"particles_p50"`
	ParticlesP90  float64 `csv:"particles_p90"`
	ParticlesMax  float64 `csv:"particles_max"`

	// Engine counters accumulated during the window
	Spawned  uint64 `csv:"spawned"`
	Evicted  uint64 `csv:"evicted"`
	Expired  uint64 `csv:"expired"`
	Rejected uint64 `csv:"rejected"`
	Samples  uint64 `csv:"samples"`

	// Frame time distribution in milliseconds
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSStd  float64 `csv:"frame_ms_std"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP99  float64 `csv:"frame_ms_p99"`

	DrawCalls int `csv:"draw_calls"`

	// Lifecycle events during the window, filled by Collector
	Cap      int `csv:"cap"`
	Mounts   int `csv:"mounts"`
	Unmounts int `csv:"unmounts"`
	Resizes  int `csv:"resizes"`
	Panics   int `csv:"panics"`
}

// Counters are cumulative totals; the window reports their change.
type Counters struct {
	Spawned, Evicted, Expired, Rejected, Samples uint64
}

// FrameWindow accumulates per-frame samples and summarises them every
// size frames.
type FrameWindow struct {
	size  int
	start int64
	frame int64

	particles []float64
	frameMS   []float64
	drawCalls int

	base Counters
}

// NewFrameWindow creates a window of size frames.
func NewFrameWindow(size int) *FrameWindow {
	if size < 1 {
		size = 120
	}
	return &FrameWindow{
		size:      size,
		particles: make([]float64, 0, size),
		frameMS:   make([]float64, 0, size),
	}
}

// Add records one frame. When the window is full it returns the summary
// and true, then starts a new window.
func (w *FrameWindow) Add(s FrameSample, totals Counters, screen string) (WindowStats, bool) {
	w.frame++
	w.particles = append(w.particles, float64(s.Particles))
	w.frameMS = append(w.frameMS, float64(s.FrameTime)/float64(time.Millisecond))
	w.drawCalls += s.DrawCalls

	if len(w.particles) < w.size {
		return WindowStats{}, false
	}
	return w.Flush(totals, screen), true
}

// Flush summarises whatever the window holds and resets it.
func (w *FrameWindow) Flush(totals Counters, screen string) WindowStats {
	out := WindowStats{
		WindowStart: w.start,
		WindowEnd:   w.frame,
		Screen:      screen,
		Frames:      len(w.particles),
		Spawned:     delta(totals.Spawned, w.base.Spawned),
		Evicted:     delta(totals.Evicted, w.base.Evicted),
		Expired:     delta(totals.Expired, w.base.Expired),
		Rejected:    delta(totals.Rejected, w.base.Rejected),
		Samples:     delta(totals.Samples, w.base.Samples),
		DrawCalls:   w.drawCalls,
	}
	out.ParticlesMean, out.ParticlesP50, out.ParticlesP90, out.ParticlesMax = ComputeCountStats(w.particles)
	out.FrameMSMean, out.FrameMSStd, out.FrameMSP50, out.FrameMSP99 = ComputeFrameTimeStats(w.frameMS)

	w.start = w.frame
	w.particles = w.particles[:0]
	w.frameMS = w.frameMS[:0]
	w.drawCalls = 0
	w.base = totals
	return out
}

// Rebase forgets counter history, for when the engine behind the totals
// is replaced.
func (w *FrameWindow) Rebase(totals Counters) {
	w.base = totals
}

// Len returns the number of frames in the current window.
func (w *FrameWindow) Len() int {
	return len(w.particles)
}

// delta tolerates counters that restarted from zero.
func delta(now, base uint64) uint64 {
	if now < base {
		return now
	}
	return now - base
}

// Quantile returns the empirical p-quantile of a sorted slice, or 0 when
// it is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeCountStats returns mean, median, p90 and max.
func ComputeCountStats(values []float64) (mean, p50, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := sortedCopy(values)
	return stat.Mean(values, nil), Quantile(sorted, 0.5), Quantile(sorted, 0.9), sorted[len(sorted)-1]
}

// ComputeFrameTimeStats returns mean, standard deviation, median and p99.
func ComputeFrameTimeStats(values []float64) (mean, std, p50, p99 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	sorted := sortedCopy(values)
	return mean, std, Quantile(sorted, 0.5), Quantile(sorted, 0.99)
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStart),
		slog.Int64("window_end", s.WindowEnd),
		slog.String("screen", s.Screen),
		slog.Int("frames", s.Frames),
		slog.Float64("particles_mean", s.ParticlesMean),
		slog.Float64("particles_p90", s.ParticlesP90),
		slog.Float64("particles_max", s.ParticlesMax),
		slog.Uint64("spawned", s.Spawned),
		slog.Uint64("evicted", s.Evicted),
		slog.Uint64("expired", s.Expired),
		slog.Uint64("samples", s.Samples),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_p99", s.FrameMSP99),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"screen", s.Screen,
		"frames", s.Frames,
		"particles_mean", s.ParticlesMean,
		"particles_p50", s.ParticlesP50,
		"particles_p90", s.ParticlesP90,
		"particles_max", s.ParticlesMax,
		"spawned", s.Spawned,
		"evicted", s.Evicted,
		"expired", s.Expired,
		"rejected", s.Rejected,
		"samples", s.Samples,
		"frame_ms_mean", s.FrameMSMean,
		"frame_ms_std", s.FrameMSStd,
		"frame_ms_p50", s.FrameMSP50,
		"frame_ms_p99", s.FrameMSP99,
		"draw_calls", s.DrawCalls,
		"mounts", s.Mounts,
		"unmounts", s.Unmounts,
		"resizes", s.Resizes,
		"panics", s.Panics,
	)
}
