package commands

import (
	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewer"
)

// headless stands in for the window, renderer and input controls when the
// viewer runs without a display. It reports a fixed surface size and never
// draws or produces input.
type headless struct {
	width, height int

	drag   event.Dispatcher[viewer.Event]
	orbit  event.Dispatcher[struct{}]
	resize event.Dispatcher[struct{}]
	on     bool
}

func (h *headless) Draw(*scene.Graph, *viewer.Camera) error { return nil }
func (h *headless) SetSize(int, int)                        {}

func (h *headless) WindowSize() (int, int) { return h.width, h.height }
func (h *headless) Offset() (int, int)     { return 0, 0 }
func (h *headless) ClientSize() (int, int) { return h.width, h.height }
func (h *headless) OnResize(fn func()) *event.Subscription {
	return h.resize.Subscribe(func(struct{}) { fn() })
}

type headlessDrag struct{ *headless }

func (d headlessDrag) Activate()                {}
func (d headlessDrag) Deactivate()              {}
func (d headlessDrag) SetSelected(viewer.Proxy) {}
func (d headlessDrag) Subscribe(fn func(viewer.Event)) *event.Subscription {
	return d.drag.Subscribe(fn)
}

type headlessOrbit struct{ *headless }

func (o headlessOrbit) SetEnabled(on bool) { o.on = on }
func (o headlessOrbit) Enabled() bool      { return o.on }
func (o headlessOrbit) Sync()              {}
func (o headlessOrbit) OnChange(fn func()) *event.Subscription {
	return o.orbit.Subscribe(func(struct{}) { fn() })
}
