package game

import "github.com/pthm-cable/savor/telemetry"

// Options holds host settings that come from the command line rather than
// the YAML config.
type Options struct {
	Seed      int64  // 0 = time-based
	LogStats  bool   // Log window stats via slog
	OutputDir string // CSV logs and config snapshot; empty disables
	Debug     bool   // Start with the debug overlays on

	// StatsCallback, when set, receives every finished stats window.
	StatsCallback func(telemetry.WindowStats)
}
