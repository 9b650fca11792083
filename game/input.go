package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// scrollStep is the gallery scroll distance per wheel notch, in pixels.
const scrollStep = 60

// handleInput forwards pointer and keyboard input to the director.
func (g *Game) handleInput(now time.Duration) {
	// Toggle fullscreen
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Overlay toggles. Letters are only taken with Ctrl held so they still
	// reach the screens as typed keys.
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	for _, key := range g.overlays.Keys() {
		if key != rl.KeyF1 && !ctrl {
			continue
		}
		if rl.IsKeyPressed(key) {
			id, on, _ := g.overlays.HandleKeyPress(key)
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}

	mouse := rl.GetMousePosition()
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		g.director.PointerMoved(mouse.X, mouse.Y, now)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.director.Click(mouse.X, mouse.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.director.Scroll(-wheel * scrollStep)
	}

	if ctrl {
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		g.director.KeyPressed('\n')
	}
	for r := rl.GetCharPressed(); r != 0; r = rl.GetCharPressed() {
		g.director.KeyPressed(r)
	}
}

// handleResize checks for window resize and relays the new size.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	newW := int32(rl.GetScreenWidth())
	newH := int32(rl.GetScreenHeight())
	if newW == g.width && newH == g.height {
		return
	}
	g.width = newW
	g.height = newH
	g.layoutPanels()
	g.director.Resize(int(newW), int(newH))
}

// handleVisibility pauses the trail while the window is minimised or hidden.
func (g *Game) handleVisibility() {
	g.director.SetVisible(!rl.IsWindowMinimized() && !rl.IsWindowHidden())
}
