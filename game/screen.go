package game

import "math"

// ScreenID identifies a host screen.
type ScreenID uint8

const (
	ScreenLoader ScreenID = iota
	ScreenMood
	ScreenJourney
	ScreenGallery
)

func (s ScreenID) String() string {
	switch s {
	case ScreenLoader:
		return "loader"
	case ScreenMood:
		return "mood"
	case ScreenJourney:
		return "journey"
	case ScreenGallery:
		return "gallery"
	}
	return "unknown"
}

// LoaderPhase is the stage of the loading splash.
type LoaderPhase uint8

const (
	PhaseAirplane LoaderPhase = iota
	PhaseMorphing
	PhaseComplete
)

func (p LoaderPhase) String() string {
	switch p {
	case PhaseAirplane:
		return "airplane"
	case PhaseMorphing:
		return "morphing"
	}
	return "complete"
}

// loaderPhase returns the splash stage at elapsed seconds.
func loaderPhase(elapsed, morphAt, completeAt float64) LoaderPhase {
	switch {
	case elapsed >= completeAt:
		return PhaseComplete
	case elapsed >= morphAt:
		return PhaseMorphing
	}
	return PhaseAirplane
}

// loaderProgress returns the 0..100 counter, which starts at completeAt
// and counts up over countSec.
func loaderProgress(elapsed, completeAt, countSec float64) int {
	if elapsed <= completeAt {
		return 0
	}
	if countSec <= 0 {
		return 100
	}
	p := int(math.Round((elapsed - completeAt) / countSec * 100))
	if p > 100 {
		p = 100
	}
	return p
}
