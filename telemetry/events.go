// Package telemetry provides trail performance tracking, window statistics and run output.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventMount EventType = iota
	EventUnmount
	EventResize
	EventScreen
	EventPanic
)

func (t EventType) String() string {
	switch t {
	case EventMount:
		return "mount"
	case EventUnmount:
		return "unmount"
	case EventResize:
		return "resize"
	case EventScreen:
		return "screen"
	case EventPanic:
		return "panic"
	}
	return "unknown"
}

// Event represents a single lifecycle event of a mounted trail.
type Event struct {
	Type   EventType
	Frame  int64
	Screen string

	// Resize only
	Width, Height int32
}

// NewMountEvent records a trail being attached to a screen.
func NewMountEvent(frame int64, screen string) Event {
	return Event{Type: EventMount, Frame: frame, Screen: screen}
}

// NewUnmountEvent records a trail being torn down.
func NewUnmountEvent(frame int64, screen string) Event {
	return Event{Type: EventUnmount, Frame: frame, Screen: screen}
}

// NewResizeEvent records a viewport change.
func NewResizeEvent(frame int64, screen string, w, h int32) Event {
	return Event{Type: EventResize, Frame: frame, Screen: screen, Width: w, Height: h}
}

// NewScreenEvent records the host switching screens.
func NewScreenEvent(frame int64, screen string) Event {
	return Event{Type: EventScreen, Frame: frame, Screen: screen}
}

// NewPanicEvent records a frame that panicked and was recovered.
func NewPanicEvent(frame int64, screen string) Event {
	return Event{Type: EventPanic, Frame: frame, Screen: screen}
}

// Log writes the event at debug level.
func (e Event) Log() {
	attrs := []any{"type", e.Type.String(), "frame", e.Frame, "screen", e.Screen}
	if e.Type == EventResize {
		attrs = append(attrs, "width", e.Width, "height", e.Height)
	}
	slog.Debug("trail event", attrs...)
}
