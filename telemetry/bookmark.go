package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFrameSpike   BookmarkType = "frame_spike"
	BookmarkCapSaturated BookmarkType = "cap_saturated"
	BookmarkTrailIdle    BookmarkType = "trail_idle"
	BookmarkSteadyTrail  BookmarkType = "steady_trail"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int64        `csv:"frame"`
	Screen      string       `csv:"screen"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"screen", b.Screen,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	wasSaturated       bool
	wasActive          bool
	steadyWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady trail detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkFrameSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkTrailIdle(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyTrail(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkCapSaturated(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.wasActive = stats.Spawned > 0

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkFrameSpike fires when p99 frame time is over twice the rolling mean.
func (bd *BookmarkDetector) checkFrameSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.FrameMSMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.FrameMSP99 > avg*2.0 && stats.FrameMSP99 > 20 {
		return &Bookmark{
			Type:        BookmarkFrameSpike,
			Frame:       stats.WindowEnd,
			Screen:      stats.Screen,
			Description: fmt.Sprintf("p99 frame %.1fms is %.1fx average (%.1fms)", stats.FrameMSP99, stats.FrameMSP99/avg, avg),
		}
	}
	return nil
}

// checkCapSaturated fires on the first window that reaches the cap.
func (bd *BookmarkDetector) checkCapSaturated(stats WindowStats) *Bookmark {
	saturated := stats.Cap > 0 && int(stats.ParticlesMax) >= stats.Cap
	defer func() { bd.wasSaturated = saturated }()

	if !saturated || bd.wasSaturated {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCapSaturated,
		Frame:       stats.WindowEnd,
		Screen:      stats.Screen,
		Description: fmt.Sprintf("Live set hit cap %d, %d evicted", stats.Cap, stats.Evicted),
	}
}

// checkTrailIdle fires when spawning stops after an active window.
func (bd *BookmarkDetector) checkTrailIdle(stats WindowStats) *Bookmark {
	if !bd.wasActive || stats.Spawned > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkTrailIdle,
		Frame:       stats.WindowEnd,
		Screen:      stats.Screen,
		Description: "Pointer went quiet, no spawns this window",
	}
}

// checkSteadyTrail fires once after five windows of stable population.
func (bd *BookmarkDetector) checkSteadyTrail(stats WindowStats) *Bookmark {
	if stats.ParticlesMean < 5 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// last four windows, newest first
	recent := make([]WindowStats, 0, 4)
	for i := 1; i <= 4; i++ {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		recent = append(recent, bd.history[idx])
	}

	var sum float64
	for _, h := range recent {
		sum += h.ParticlesMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.ParticlesMean - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyTrail,
			Frame:       stats.WindowEnd,
			Screen:      stats.Screen,
			Description: fmt.Sprintf("Steady trail around %.0f particles over 5+ windows", stats.ParticlesMean),
		}
	}
	return nil
}
