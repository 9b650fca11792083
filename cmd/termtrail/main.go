// Terminal trail - the cursor trail drawn with background-coloured cells.
// Move the mouse over the terminal; Esc or Ctrl-C quits.
//
// Usage: go run ./cmd/termtrail [-profile mood]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/savor/camera"
	"github.com/pthm-cable/savor/config"
	"github.com/pthm-cable/savor/frame"
	"github.com/pthm-cable/savor/renderer"
	"github.com/pthm-cable/savor/trail"
)

// Surface pixels per terminal cell. Cells are roughly twice as tall as wide.
const (
	cellW = 8
	cellH = 16
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	profile := flag.String("profile", "mood", "Trail profile")
	logPath := flag.String("log", "", "Write JSON logs to this file")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *profile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, profile string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	driver := frame.NewDriver()
	surface := renderer.NewCellSurface(screen, cellW, cellH)
	effect, err := trail.New(cfg, profile, surface, driver, rand.New(rand.NewSource(time.Now().UnixNano())), trail.Options{
		Space: camera.Cells(cellW, cellH),
	})
	if err != nil {
		return err
	}
	defer effect.Stop()

	cols, rows := screen.Size()
	effect.Resized(cols, rows)
	effect.Start()
	slog.Info("terminal trail started", "profile", profile, "cols", cols, "rows", rows)

	start := time.Now()
	ticker := time.NewTicker(cfg.Derived.ReferenceFrame)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := pollEvents(screen.PollEvent, done)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
			case *tcell.EventMouse:
				x, y := ev.Position()
				effect.PointerMoved(float32(x), float32(y), time.Since(start))
			case *tcell.EventResize:
				screen.Sync()
				cols, rows := screen.Size()
				effect.Resized(cols, rows)
			}

		case <-ticker.C:
			driver.RunFrame(time.Since(start))
			effect.Present()
			screen.Show()
		}
	}
}

// pollEvents forwards events from poll until it returns nil or done is
// closed. The returned channel is closed when the poller exits.
func pollEvents(poll func() tcell.Event, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := poll()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}
