// Package graphics holds the raylib side of the viewer: the window and its
// frame loop, the render-texture renderer, per-node meshes, the proxy factory
// and the orbit and drag controls. Everything here needs a window except the
// control logic, which takes already-sampled input.
package graphics

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/event"
)

// ErrContextLost is returned by Renderer.Draw when there is no usable window
// or GPU surface to draw into.
var ErrContextLost = errors.New("graphics: rendering context lost")

// Window is the host window. It is the viewer's size source: the viewport is
// the window area right of and below Offset.
type Window struct {
	left, top int
	open      bool
	resized   event.Dispatcher[struct{}]
}

// OpenWindow creates a resizable window. Close it with Close.
func OpenWindow(title string, width, height int) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(60)
	return &Window{open: true}
}

// SetOffset moves the viewport's top-left corner inside the window, e.g. to
// leave room for a side panel.
func (w *Window) SetOffset(left, top int) {
	if left == w.left && top == w.top {
		return
	}
	w.left, w.top = left, top
	w.resized.Emit(struct{}{})
}

func (w *Window) WindowSize() (int, int) { return rl.GetScreenWidth(), rl.GetScreenHeight() }
func (w *Window) Offset() (int, int)     { return w.left, w.top }

// ClientSize is the viewport area: the window minus the offset.
func (w *Window) ClientSize() (int, int) {
	ww, wh := w.WindowSize()
	return ww - w.left, wh - w.top
}

// OnResize calls fn whenever the window or the offset changes.
func (w *Window) OnResize(fn func()) *event.Subscription {
	return w.resized.Subscribe(func(struct{}) { fn() })
}

// Run loops until the user closes the window. Each frame it calls frame
// (input and viewer tick), then present between BeginDrawing and EndDrawing.
// An error from frame stops the loop and is returned. The window stays open
// so GPU resources can be released before Close.
func (w *Window) Run(frame func() error, present func()) error {
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w.resized.Emit(struct{}{})
		}
		if err := frame(); err != nil {
			return err
		}
		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		present()
		rl.EndDrawing()
	}
	return nil
}

// Close closes the window once.
func (w *Window) Close() {
	if !w.open {
		return
	}
	w.open = false
	rl.CloseWindow()
}
