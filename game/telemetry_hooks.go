package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/savor/telemetry"
	"github.com/pthm-cable/savor/trail"
)

// telemetryHooks feeds frame samples into the collector and writes each
// finished window to slog and CSV.
type telemetryHooks struct {
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	statsCallback func(telemetry.WindowStats)
}

// frame records one host frame. effect may be nil when the screen has no trail.
func (h *telemetryHooks) frame(frameTime time.Duration, effect *trail.Effect) {
	sample := telemetry.FrameSample{FrameTime: frameTime}
	var totals telemetry.Counters
	if effect != nil {
		st := effect.Stats()
		sample.Particles = st.Particles
		sample.DrawCalls = int(effect.DrawCalls())
		totals = st.Counters()
	}

	stats, bookmarks, ok := h.collector.Frame(sample, totals)
	if !ok {
		return
	}
	h.flushTelemetry(stats, bookmarks)
}

// flushTelemetry logs and writes a finished window with its bookmarks.
func (h *telemetryHooks) flushTelemetry(stats telemetry.WindowStats, bookmarks []telemetry.Bookmark) {
	perfStats := h.perfCollector.Stats()

	if h.statsCallback != nil {
		h.statsCallback(stats)
	}

	if h.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if h.outputManager != nil {
		if err := h.outputManager.WriteFrames(stats); err != nil {
			slog.Error("failed to write frame stats", "error", err)
		}
		if err := h.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range bookmarks {
		if h.logStats {
			bm.LogBookmark()
		}
		if h.outputManager != nil {
			if err := h.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// close flushes the partial window and closes the output files.
func (h *telemetryHooks) close(effect *trail.Effect) {
	var totals telemetry.Counters
	if effect != nil {
		totals = effect.Stats().Counters()
	}
	if stats, ok := h.collector.Flush(totals); ok {
		h.flushTelemetry(stats, nil)
	}
	if h.outputManager != nil {
		if err := h.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		} else {
			slog.Info("telemetry written", "dir", h.outputManager.Dir())
		}
	}
}
