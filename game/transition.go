package game

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// Wipe is a full-screen overlay that grows down from the top edge, holds
// while the screen underneath is swapped, then retracts. Coverage follows
// a spring toward 1 for the first half and back to 0 for the second.
type Wipe struct {
	half      float64 // seconds per half
	frequency float64
	damping   float64

	elapsed  float64
	coverage float64
	velocity float64

	covered bool // first half finished, screen swapped
	done    bool
}

// NewWipe creates a wipe whose cover phase lasts duration.
func NewWipe(duration time.Duration, frequency, damping float64) *Wipe {
	half := duration.Seconds()
	if half <= 0 {
		half = 1
	}
	return &Wipe{half: half, frequency: frequency, damping: damping}
}

// Update advances the wipe. It returns true exactly once, on the frame the
// overlay has fully covered the screen.
func (w *Wipe) Update(dt time.Duration) bool {
	if w.done || dt <= 0 {
		return false
	}
	sec := dt.Seconds()
	w.elapsed += sec

	target := 1.0
	if w.covered {
		target = 0
	}
	spring := harmonica.NewSpring(sec, w.frequency, w.damping)
	w.coverage, w.velocity = spring.Update(w.coverage, w.velocity, target)

	if !w.covered && w.elapsed >= w.half {
		w.covered = true
		w.coverage, w.velocity = 1, 0
		return true
	}
	if w.covered && (w.elapsed >= 2*w.half || (w.coverage < 0.002 && w.velocity > -0.01)) {
		w.done = true
		w.coverage, w.velocity = 0, 0
	}
	return false
}

// Coverage returns the covered share of the screen height, 0..1.
func (w *Wipe) Coverage() float64 {
	switch {
	case w.coverage < 0:
		return 0
	case w.coverage > 1:
		return 1
	}
	return w.coverage
}

// Covered reports whether the swap point has passed.
func (w *Wipe) Covered() bool {
	return w.covered
}

// Done reports whether the overlay has fully retracted.
func (w *Wipe) Done() bool {
	return w.done
}
