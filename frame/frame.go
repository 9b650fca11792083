// Package frame provides a request/cancel frame scheduler and a cancellable
// self-rescheduling loop built on it.
package frame

import (
	"log/slog"
	"time"
)

// Callback runs once for one scheduled frame. now is the host clock.
type Callback func(now time.Duration)

// Handle identifies a pending frame request. The zero Handle is never issued.
type Handle uint64

// Scheduler is the host's frame scheduling primitive.
// A request fires at most once, on the next frame.
type Scheduler interface {
	Request(cb Callback) Handle
	Cancel(h Handle)
}

type request struct {
	handle Handle
	cb     Callback
}

// Driver is a Scheduler pumped by the host main loop. Each RunFrame call
// fires the callbacks requested before it; requests made while a frame is
// running wait for the next one.
type Driver struct {
	next    Handle
	pending []request
	running []request
	frames  uint64
}

// NewDriver creates an idle driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Request schedules cb for the next frame.
func (d *Driver) Request(cb Callback) Handle {
	d.next++
	d.pending = append(d.pending, request{handle: d.next, cb: cb})
	return d.next
}

// Cancel drops a pending request. Unknown or already fired handles are ignored.
func (d *Driver) Cancel(h Handle) {
	if h == 0 {
		return
	}
	for i := range d.pending {
		if d.pending[i].handle == h {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return
		}
	}
	// Cancelled from inside the current frame
	for i := range d.running {
		if d.running[i].handle == h {
			d.running[i].cb = nil
			return
		}
	}
}

// RunFrame fires every callback requested before this call, in request order.
func (d *Driver) RunFrame(now time.Duration) {
	d.running, d.pending = d.pending, d.running[:0]
	d.frames++
	for i := 0; i < len(d.running); i++ {
		if cb := d.running[i].cb; cb != nil {
			cb(now)
		}
	}
	d.running = d.running[:0]
}

// Pending returns the number of callbacks waiting for the next frame.
func (d *Driver) Pending() int {
	return len(d.pending)
}

// Frames returns how many frames have run.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Loop runs fn once per frame until stopped. Each frame explicitly
// requests the next one at its end; Stop cancels the outstanding request
// so no callback outlives its owner.
type Loop struct {
	name   string
	sched  Scheduler
	fn     Callback
	handle Handle

	running bool
	frames  uint64
	panics  uint64
}

// NewLoop creates a stopped loop.
func NewLoop(name string, sched Scheduler, fn Callback) *Loop {
	return &Loop{name: name, sched: sched, fn: fn}
}

// Start schedules the first frame. Starting a running loop does nothing.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.handle = l.sched.Request(l.frame)
}

// Stop cancels the pending frame. Safe to call from inside fn.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.sched.Cancel(l.handle)
	l.handle = 0
}

// Running reports whether the loop is scheduled.
func (l *Loop) Running() bool {
	return l.running
}

// Frames returns how many frames fn has been called for.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Panics returns how many frames were recovered from a panic.
func (l *Loop) Panics() uint64 {
	return l.panics
}

func (l *Loop) frame(now time.Duration) {
	l.handle = 0
	if !l.running {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.panics++
			slog.Error("frame panicked, continuing",
				"loop", l.name,
				"frame", l.frames,
				"panic", r,
			)
		}
		// A Stop then Start inside fn has already requested the next frame.
		if l.running && l.handle == 0 {
			l.handle = l.sched.Request(l.frame)
		}
	}()
	l.frames++
	l.fn(now)
}
