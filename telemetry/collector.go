package telemetry

// Collector accumulates frame samples and lifecycle events into windows
// and flags notable windows as bookmarks.
type Collector struct {
	window    *FrameWindow
	bookmarks *BookmarkDetector

	screen string
	cap    int

	mounts   int
	unmounts int
	resizes  int
	panics   int
}

// NewCollector creates a collector that reports every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	return &Collector{
		window:    NewFrameWindow(windowFrames),
		bookmarks: NewBookmarkDetector(10),
	}
}

// Record counts a lifecycle event. Screen and mount events also set the
// screen label and cap reported by later windows.
func (c *Collector) Record(e Event) {
	e.Log()
	switch e.Type {
	case EventMount:
		c.mounts++
		c.screen = e.Screen
	case EventUnmount:
		c.unmounts++
	case EventResize:
		c.resizes++
	case EventScreen:
		c.screen = e.Screen
	case EventPanic:
		c.panics++
	}
}

// SetCap records the live particle cap of the mounted trail, 0 when none.
func (c *Collector) SetCap(n int) {
	c.cap = n
}

// Rebase resets counter history when the engine behind totals changes.
func (c *Collector) Rebase(totals Counters) {
	c.window.Rebase(totals)
}

// Frame adds one frame. When a window completes it returns the stats and
// any bookmarks it triggered.
func (c *Collector) Frame(s FrameSample, totals Counters) (WindowStats, []Bookmark, bool) {
	stats, ok := c.window.Add(s, totals, c.screen)
	if !ok {
		return WindowStats{}, nil, false
	}
	c.fill(&stats)
	return stats, c.bookmarks.Check(stats), true
}

// Flush closes the current window early, for shutdown.
func (c *Collector) Flush(totals Counters) (WindowStats, bool) {
	if c.window.Len() == 0 {
		return WindowStats{}, false
	}
	stats := c.window.Flush(totals, c.screen)
	c.fill(&stats)
	return stats, true
}

func (c *Collector) fill(stats *WindowStats) {
	stats.Cap = c.cap
	stats.Mounts = c.mounts
	stats.Unmounts = c.unmounts
	stats.Resizes = c.resizes
	stats.Panics = c.panics
	c.mounts, c.unmounts, c.resizes, c.panics = 0, 0, 0, 0
}

// Screen returns the current screen label.
func (c *Collector) Screen() string {
	return c.screen
}
