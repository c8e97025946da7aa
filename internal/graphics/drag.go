package graphics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewer"
)

const (
	rotateStep   = 0.01         // radians per pixel
	rotateSnap   = math.Pi / 12 // 15 degrees
	liftStep     = 0.5          // cm per pixel
	clickSlopPx2 = 9            // squared pixels a press may move and still count as a click
)

// Pickable is what the drag control picks against.
type Pickable interface {
	Graph() *scene.Graph
	ProxyByNode(uuid.UUID) (viewer.Proxy, bool)
}

// Modifiers are the keys held when a drag starts.
type Modifiers struct {
	Shift, Alt, Ctrl bool
}

// motion maps held keys to an item motion: shift rotates in steps, alt
// rotates freely, ctrl lifts.
func (m Modifiers) motion() viewer.Motion {
	switch {
	case m.Shift:
		return viewer.MotionRotate
	case m.Alt:
		return viewer.MotionRotateFree
	case m.Ctrl:
		return viewer.MotionPan
	}
	return viewer.MotionTranslate
}

// Drag picks entities under the pointer and moves the selected item. It
// reports everything as viewer events.
type Drag struct {
	target       Pickable
	canMoveFixed bool
	active       bool
	selected     viewer.Proxy
	events       event.Dispatcher[viewer.Event]

	pressed bool
	moved   bool
	travel  float32 // squared pointer travel since press
	motion  viewer.Motion
	planeY  float32
	grab    rl.Vector3 // item position minus the grabbed point
	angle   float32    // unsnapped rotation while rotating in steps
}

// NewDrag returns an inactive control. Fixed items only move when
// canMoveFixed is set.
func NewDrag(canMoveFixed bool) *Drag {
	return &Drag{canMoveFixed: canMoveFixed}
}

// Attach sets what the control picks against.
func (d *Drag) Attach(p Pickable) { d.target = p }

func (d *Drag) Activate() { d.active = true }

// Deactivate stops reporting input and drops any press in progress.
func (d *Drag) Deactivate() {
	d.active = false
	d.pressed, d.moved = false, false
}

func (d *Drag) SetSelected(p viewer.Proxy) { d.selected = p }
func (d *Drag) Selected() viewer.Proxy     { return d.selected }

func (d *Drag) Subscribe(fn func(viewer.Event)) *event.Subscription {
	return d.events.Subscribe(fn)
}

// Pick returns the proxy whose node the ray hits first.
func (d *Drag) Pick(ray rl.Ray) (viewer.Proxy, rl.RayCollision, bool) {
	if d.target == nil {
		return nil, rl.RayCollision{}, false
	}
	var (
		best    viewer.Proxy
		bestHit rl.RayCollision
	)
	d.target.Graph().ForEach(func(n *scene.Node) bool {
		if n.Hidden {
			return true
		}
		hit := rl.GetRayCollisionBox(ray, n.Bounds())
		if !hit.Hit || (best != nil && hit.Distance >= bestHit.Distance) {
			return true
		}
		if p, ok := d.target.ProxyByNode(n.ID); ok {
			best, bestHit = p, hit
		}
		return true
	})
	return best, bestHit, best != nil
}

// Press handles a primary button press along ray.
func (d *Drag) Press(ray rl.Ray, mods Modifiers) {
	if !d.active {
		return
	}
	p, hit, ok := d.Pick(ray)
	if !ok {
		d.events.Emit(viewer.Event{Type: viewer.EventNoItemSelected})
		return
	}
	switch ent := p.Entity().(type) {
	case *floorplan.Item:
		if p != d.selected {
			d.selected = p
			d.events.Emit(viewer.Event{Type: viewer.EventItemSelected, Item: p})
		}
		d.pressed, d.moved, d.travel = true, false, 0
		d.motion = mods.motion()
		d.planeY = hit.Point.Y
		d.grab = rl.Vector3Subtract(ent.Position, hit.Point)
		d.angle = ent.Rotation
	case *floorplan.HalfEdge:
		d.events.Emit(viewer.Event{Type: viewer.EventWallClicked, Edge: ent, Normal: ent.Normal()})
	case *floorplan.Room:
		d.events.Emit(viewer.Event{Type: viewer.EventRoomClicked, Room: ent})
	}
}

// Move handles pointer motion by delta pixels with the button held.
func (d *Drag) Move(ray rl.Ray, delta rl.Vector2) {
	if !d.active || !d.pressed || d.selected == nil {
		return
	}
	it, ok := d.selected.Entity().(*floorplan.Item)
	if !ok || (it.Fixed && !d.canMoveFixed) {
		return
	}
	if !d.moved {
		d.travel += delta.X*delta.X + delta.Y*delta.Y
		if d.travel < clickSlopPx2 {
			return
		}
	}

	switch d.motion {
	case viewer.MotionTranslate:
		if ray.Direction.Y == 0 {
			return
		}
		t := (d.planeY - ray.Position.Y) / ray.Direction.Y
		if t < 0 {
			return
		}
		at := rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, t))
		it.Position.X = at.X + d.grab.X
		it.Position.Z = at.Z + d.grab.Z
	case viewer.MotionRotate:
		d.angle += delta.X * rotateStep
		it.Rotation = float32(math.Round(float64(d.angle)/rotateSnap) * rotateSnap)
	case viewer.MotionRotateFree:
		it.Rotation += delta.X * rotateStep
	case viewer.MotionPan:
		it.Position.Y = max(it.Position.Y-delta.Y*liftStep, it.Size.Y/2)
	}
	d.moved = true
	SyncItemNode(d.selected.Node(), it)
	d.events.Emit(viewer.Event{Type: viewer.EventItemMove, Item: d.selected, Motion: d.motion})
}

// Release handles the primary button going up.
func (d *Drag) Release() {
	if !d.pressed {
		return
	}
	moved := d.moved
	d.pressed, d.moved = false, false
	if moved && d.active {
		d.events.Emit(viewer.Event{Type: viewer.EventItemMoveFinish, Item: d.selected})
	}
}

// Update samples the mouse over a viewport at (left, top) of the given size
// and feeds Press, Move and Release.
func (d *Drag) Update(cam *viewer.Camera, left, top, width, height int) {
	if !d.active {
		return
	}
	mouse := rl.Vector2Subtract(rl.GetMousePosition(), rl.NewVector2(float32(left), float32(top)))
	ray := rl.GetScreenToWorldRayEx(mouse, cam.Camera3D, int32(width), int32(height))
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		if mouse.X < 0 || mouse.Y < 0 || mouse.X >= float32(width) || mouse.Y >= float32(height) {
			return
		}
		d.Press(ray, Modifiers{
			Shift: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
			Alt:   rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt),
			Ctrl:  rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl),
		})
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		if delta := rl.GetMouseDelta(); delta.X != 0 || delta.Y != 0 {
			d.Move(ray, delta)
		}
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		d.Release()
	}
}
