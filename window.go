package main

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/camera"
	"github.com/pthm-cable/dots/renderer"
	"github.com/pthm-cable/dots/ui"
)

const keyHints = "[Space] pause  [,/.] speed  [Wheel] zoom  [Right drag] pan"

// window holds the raylib-side state of the windowed mode.
type window struct {
	cam      *camera.Camera
	dots     *renderer.DotRenderer
	hud      *ui.HUD
	controls *ui.Controls

	screenW, screenH float32
	dragging         bool
}

func (r *runner) runWindow(ctx context.Context) {
	cfg := r.game.Config()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Dots")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w := &window{
		screenW:  float32(cfg.Screen.Width),
		screenH:  float32(cfg.Screen.Height),
		hud:      ui.NewHUD(),
		controls: ui.NewControls(int32(cfg.Screen.Width)),
	}
	w.cam = camera.New(w.screenW, w.screenH, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	w.dots = renderer.NewDotRenderer(w.cam)

	for ctx.Err() == nil && !rl.WindowShouldClose() && !r.done() {
		w.handleInput(r)
		r.update()
		w.draw(r)
	}
}

// handleInput processes keyboard and mouse input.
func (w *window) handleInput(r *runner) {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		r.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		r.game.SlowDown()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		r.game.SpeedUp()
	}

	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !w.controls.Contains(mouse.X, mouse.Y) {
		w.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		w.dragging = false
	}
	if w.dragging {
		delta := rl.GetMouseDelta()
		w.cam.Pan(-delta.X, -delta.Y)
	}
}

// handleResize propagates window size changes to the camera and panel.
func (w *window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())
	if sw == w.screenW && sh == w.screenH {
		return
	}
	w.screenW, w.screenH = sw, sh
	w.cam.Resize(sw, sh)
	w.controls.SetScreenWidth(int32(sw))
}

func (w *window) draw(r *runner) {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	w.dots.Begin()
	r.game.Population().Render(w.dots)

	w.hud.Draw(ui.HUDData{
		Title:  "Dots",
		Status: r.game.Status(),
		FPS:    rl.GetFPS(),
	})
	w.hud.DrawKeyHints(int32(w.screenH), keyHints)

	actions := w.controls.Draw(ui.ControlState{
		Paused: r.game.Paused(),
		Speed:  r.game.Speed(),
	})
	if actions.TogglePause {
		r.game.TogglePause()
	}
	if actions.ResetView {
		w.cam.Reset()
	}
	if actions.Speed != r.game.Speed() {
		r.game.SetSpeed(actions.Speed)
	}
}
