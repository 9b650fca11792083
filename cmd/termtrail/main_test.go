package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestPollEvents_ClosesOnNilEvent(t *testing.T) {
	sent := 0
	poll := func() tcell.Event {
		if sent == 2 {
			return nil
		}
		sent++
		return tcell.NewEventInterrupt(nil)
	}

	events := pollEvents(poll, make(chan struct{}))
	got := 0
	for range events {
		got++
	}
	if got != 2 {
		t.Errorf("expected 2 events before close, got %d", got)
	}
}

func TestPollEvents_ExitsWhenDoneWithUnreadEvents(t *testing.T) {
	exited := make(chan struct{})
	poll := func() tcell.Event {
		select {
		case <-exited:
			return nil
		default:
		}
		return tcell.NewEventInterrupt(nil)
	}

	done := make(chan struct{})
	events := pollEvents(poll, done)
	// Nobody reads: the buffer fills and the poller blocks on send
	time.Sleep(10 * time.Millisecond)
	close(done)

	// Drain what was buffered; the channel must close once the poller sees done
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			close(exited)
			t.Fatal("poller did not exit after done was closed")
		}
	}
}
