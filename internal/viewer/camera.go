package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/viewerconfig"
)

// Framing policy. Tuned for typical wall and room proportions.
const (
	wallDistanceScale   = 1.5
	wallHeightScale     = 0.5
	roomDistanceScale   = 3.0
	planExtentScale     = 1.5
	planDiagonalYFactor = 0.5
)

// Camera is the viewer's perspective camera. Position, Target, Up and Fovy
// live in the embedded rl.Camera3D.
type Camera struct {
	rl.Camera3D
	Aspect      float32
	Near, Far   float32
	MinDistance float32
	MaxDistance float32
	// ProjectionMatrix is derived by UpdateProjection.
	ProjectionMatrix rl.Matrix
}

// NewCamera returns a camera set up from o, looking at the origin.
func NewCamera(o viewerconfig.CameraOptions) *Camera {
	c := &Camera{
		Aspect:      1,
		Near:        o.Near,
		Far:         o.Far,
		MinDistance: o.MinDistance,
		MaxDistance: o.MaxDistance,
	}
	c.Position = rl.NewVector3(o.Position[0], o.Position[1], o.Position[2])
	c.Target = rl.NewVector3(0, 0, 0)
	c.Up = rl.NewVector3(0, 1, 0)
	c.Fovy = o.Fovy
	c.Projection = rl.CameraPerspective
	c.UpdateProjection()
	return c
}

// UpdateProjection recomputes ProjectionMatrix from Fovy, Aspect, Near and Far.
func (c *Camera) UpdateProjection() {
	c.ProjectionMatrix = rl.MatrixPerspective(c.Fovy*rl.Deg2rad, c.Aspect, c.Near, c.Far)
}

// Distance returns the orbit distance between position and target.
func (c *Camera) Distance() float32 {
	return rl.Vector3Distance(c.Position, c.Target)
}

// OrbitControl turns user input into camera orbit, pan and zoom. The viewer
// owns when it is enabled; the control owns how input moves the camera.
type OrbitControl interface {
	SetEnabled(bool)
	Enabled() bool
	// Sync re-reads the camera after the viewer moved it.
	Sync()
	// OnChange notifies when user input moved the camera.
	OnChange(func()) *event.Subscription
}

// Framer moves the camera to frame walls, rooms and the whole floorplan.
type Framer struct {
	cam   *Camera
	orbit OrbitControl
	dirty func()
}

// NewFramer returns a Framer driving cam. dirty is called after every move.
func NewFramer(cam *Camera, orbit OrbitControl, dirty func()) *Framer {
	return &Framer{cam: cam, orbit: orbit, dirty: dirty}
}

// Focus places the camera at center + normal*distance looking at center.
func (f *Framer) Focus(normal, center rl.Vector3, distance float32) {
	f.apply(rl.Vector3Add(center, rl.Vector3Scale(normal, distance)), center)
}

func (f *Framer) apply(position, target rl.Vector3) {
	f.cam.Target = target
	f.cam.Position = position
	f.orbit.Sync()
	f.dirty()
}

// FocusWall frames the interior side of a wall, looking along -normal.
func (f *Framer) FocusWall(e *floorplan.HalfEdge, normal rl.Vector3) {
	y := max(e.Wall.StartElevation(), e.Wall.EndElevation()) * wallHeightScale
	c := e.InteriorCenter()
	f.Focus(normal, rl.NewVector3(c.X, y, c.Y), e.InteriorDistance()*wallDistanceScale)
}

// FocusRoom frames a room from above its area center. Rooms without corners
// are left alone and FocusRoom reports false.
func (f *Framer) FocusRoom(r *floorplan.Room) bool {
	if len(r.Corners) == 0 {
		return false
	}
	y := r.Corners[0].Elevation
	c := r.AreaCenter()
	f.Focus(r.Normal(), rl.NewVector3(c.X, 0, c.Y), y*roomDistanceScale)
	return true
}

// FrameFloorplan frames the whole plan. An empty plan keeps the current
// camera and FrameFloorplan reports false.
func (f *Framer) FrameFloorplan(fp FloorplanSource) bool {
	if len(fp.Corners()) == 0 {
		return false
	}
	dims := fp.Dimensions()
	pos := rl.NewVector3(
		dims.X*planExtentScale,
		rl.Vector3Length(dims)*planDiagonalYFactor,
		dims.Z*planExtentScale,
	)
	f.apply(pos, fp.Center())
	return true
}
