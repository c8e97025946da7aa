package viewer

import (
	"floorplan-viewer/internal/event"
)

// SizeSource reports the size of the window hosting the viewport and of the
// viewport's container.
type SizeSource interface {
	// WindowSize is the size of the host window.
	WindowSize() (w, h int)
	// Offset is the container's offset from the window's top-left corner.
	Offset() (left, top int)
	// ClientSize is the container's own size.
	ClientSize() (w, h int)
	OnResize(func()) *event.Subscription
}

// Viewport keeps the camera projection and renderer surface in step with the
// container size.
type Viewport struct {
	src      SizeSource
	auto     bool
	cam      *Camera
	renderer Renderer
	dirty    func()

	width, height int
	sized         bool
}

// NewViewport returns a viewport. With auto set, the size follows the window
// minus the container offset; otherwise the container's client size is used.
func NewViewport(src SizeSource, auto bool, cam *Camera, r Renderer, dirty func()) *Viewport {
	return &Viewport{src: src, auto: auto, cam: cam, renderer: r, dirty: dirty}
}

// Resize re-reads the size and, when it changed, updates the camera aspect and
// projection, resizes the renderer surface and marks the frame dirty. It
// reports whether anything changed. Zero-area sizes are ignored.
func (v *Viewport) Resize() bool {
	var w, h int
	if v.auto {
		ww, wh := v.src.WindowSize()
		left, top := v.src.Offset()
		w, h = ww-left, wh-top
	} else {
		w, h = v.src.ClientSize()
	}
	if w <= 0 || h <= 0 {
		return false
	}
	if v.sized && w == v.width && h == v.height {
		return false
	}
	v.width, v.height, v.sized = w, h, true
	v.cam.Aspect = float32(w) / float32(h)
	v.cam.UpdateProjection()
	v.renderer.SetSize(w, h)
	v.dirty()
	return true
}

// Size returns the last applied size.
func (v *Viewport) Size() (w, h int) { return v.width, v.height }
