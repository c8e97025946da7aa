package graphics

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/viewer"
	"floorplan-viewer/internal/viewerconfig"
)

const (
	rotateSpeed = 0.005 // radians per pixel
	zoomStep    = 0.1   // fraction of distance per wheel notch
	panSpeed    = 0.001 // distance fraction per pixel
	maxPitch    = 1.5   // just short of straight down or up
)

// OrbitInput is one frame of orbit input.
type OrbitInput struct {
	Rotate  rl.Vector2 // pointer delta while orbiting
	Pan     rl.Vector2 // pointer delta while panning
	Zoom    float32    // wheel notches, positive zooms in
	Idle    bool       // no button held
	Elapsed time.Duration
}

// Orbit orbits, pans and zooms a viewer camera around its target.
type Orbit struct {
	cam     *viewer.Camera
	enabled bool

	yaw, pitch, distance float32

	clickPan  bool
	spin      bool
	spinSpeed float32 // radians per millisecond

	changes event.Dispatcher[struct{}]
}

// NewOrbit returns a disabled control over cam.
func NewOrbit(cam *viewer.Camera, o viewerconfig.Options) *Orbit {
	c := &Orbit{cam: cam, clickPan: o.ClickPan, spin: o.Spin, spinSpeed: o.SpinSpeed}
	c.Sync()
	return c
}

func (o *Orbit) SetEnabled(on bool) { o.enabled = on }
func (o *Orbit) Enabled() bool      { return o.enabled }

// OnChange calls fn after input moved the camera.
func (o *Orbit) OnChange(fn func()) *event.Subscription {
	return o.changes.Subscribe(func(struct{}) { fn() })
}

// Sync re-derives the orbit angles and distance from the camera.
func (o *Orbit) Sync() {
	off := rl.Vector3Subtract(o.cam.Position, o.cam.Target)
	o.distance = rl.Vector3Length(off)
	if o.distance == 0 {
		o.yaw, o.pitch = 0, 0
		return
	}
	o.yaw = float32(math.Atan2(float64(off.X), float64(off.Z)))
	o.pitch = float32(math.Asin(float64(off.Y / o.distance)))
}

// Apply moves the camera for in and reports whether it moved.
func (o *Orbit) Apply(in OrbitInput) bool {
	if !o.enabled {
		return false
	}
	moved := false
	if in.Rotate.X != 0 || in.Rotate.Y != 0 {
		o.yaw -= in.Rotate.X * rotateSpeed
		o.pitch = rl.Clamp(o.pitch+in.Rotate.Y*rotateSpeed, -maxPitch, maxPitch)
		moved = true
	}
	if o.spin && in.Idle && in.Elapsed > 0 {
		o.yaw += o.spinSpeed * float32(in.Elapsed.Milliseconds())
		moved = true
	}
	if in.Zoom != 0 {
		d := o.distance * (1 - in.Zoom*zoomStep)
		o.distance = rl.Clamp(d, o.cam.MinDistance, o.cam.MaxDistance)
		moved = true
	}
	if o.clickPan && (in.Pan.X != 0 || in.Pan.Y != 0) {
		o.pan(in.Pan)
		moved = true
	}
	if !moved {
		return false
	}
	o.place()
	o.changes.Emit(struct{}{})
	return true
}

// pan slides the target in the view plane.
func (o *Orbit) pan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(o.cam.Target, o.cam.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, o.cam.Up))
	up := rl.Vector3CrossProduct(right, forward)
	scale := o.distance * panSpeed
	shift := rl.Vector3Add(
		rl.Vector3Scale(right, -delta.X*scale),
		rl.Vector3Scale(up, delta.Y*scale),
	)
	o.cam.Target = rl.Vector3Add(o.cam.Target, shift)
}

func (o *Orbit) place() {
	cp := float32(math.Cos(float64(o.pitch)))
	off := rl.NewVector3(
		float32(math.Sin(float64(o.yaw)))*cp,
		float32(math.Sin(float64(o.pitch))),
		float32(math.Cos(float64(o.yaw)))*cp,
	)
	o.cam.Position = rl.Vector3Add(o.cam.Target, rl.Vector3Scale(off, o.distance))
}

// Update samples the mouse and applies it. Left drag orbits, right drag pans,
// the wheel zooms.
func (o *Orbit) Update(elapsed time.Duration) {
	if !o.enabled {
		return
	}
	in := OrbitInput{Elapsed: elapsed, Zoom: rl.GetMouseWheelMove()}
	left := rl.IsMouseButtonDown(rl.MouseLeftButton)
	right := rl.IsMouseButtonDown(rl.MouseRightButton)
	switch {
	case left:
		in.Rotate = rl.GetMouseDelta()
	case right:
		in.Pan = rl.GetMouseDelta()
	default:
		in.Idle = true
	}
	o.Apply(in)
}
