package floorplan

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"floorplan-viewer/internal/event"
)

// FloorplanEventType enumerates floorplan notifications.
type FloorplanEventType int

const (
	// RoomsRebuilt is raised after corners, walls or rooms changed.
	RoomsRebuilt FloorplanEventType = iota
)

func (t FloorplanEventType) String() string {
	switch t {
	case RoomsRebuilt:
		return "rooms-rebuilt"
	}
	return fmt.Sprintf("FloorplanEventType(%d)", int(t))
}

// FloorplanEvent is delivered to floorplan subscribers.
type FloorplanEvent struct {
	Type FloorplanEventType
}

// Floorplan holds the corners, walls and rooms of a plan. Edits are batched:
// callers mutate and then call Update to announce the new geometry.
type Floorplan struct {
	corners []*Corner
	walls   []*Wall
	rooms   []*Room
	events  event.Dispatcher[FloorplanEvent]
}

// New returns an empty floorplan.
func New() *Floorplan {
	return &Floorplan{}
}

// Subscribe registers fn for floorplan events.
func (f *Floorplan) Subscribe(fn func(FloorplanEvent)) *event.Subscription {
	return f.events.Subscribe(fn)
}

// NewCorner adds a corner at plan position (x, y) with the given wall height.
func (f *Floorplan) NewCorner(x, y, elevation float32) *Corner {
	c := &Corner{ID: uuid.NewString(), X: x, Y: y, Elevation: elevation}
	f.corners = append(f.corners, c)
	return c
}

// NewWall adds a wall from start to end along with its two sides.
func (f *Floorplan) NewWall(start, end *Corner, thickness float32) *Wall {
	w := &Wall{ID: uuid.NewString(), Start: start, End: end, Thickness: thickness}
	w.Front = &HalfEdge{ID: w.ID + "/front", Wall: w, front: true}
	w.Back = &HalfEdge{ID: w.ID + "/back", Wall: w}
	f.walls = append(f.walls, w)
	return w
}

// NewRoom adds a room bounded by corners, in order.
func (f *Floorplan) NewRoom(name string, corners ...*Corner) *Room {
	r := &Room{ID: uuid.NewString(), Name: name, Corners: corners}
	f.rooms = append(f.rooms, r)
	return r
}

// Clear removes every corner, wall and room. It does not raise an event.
func (f *Floorplan) Clear() {
	f.corners = nil
	f.walls = nil
	f.rooms = nil
}

// Update announces that the geometry changed.
func (f *Floorplan) Update() {
	f.events.Emit(FloorplanEvent{Type: RoomsRebuilt})
}

// Corners returns the corners in creation order.
func (f *Floorplan) Corners() []*Corner { return f.corners }

// Walls returns the walls in creation order.
func (f *Floorplan) Walls() []*Wall { return f.walls }

// Rooms returns the rooms in creation order.
func (f *Floorplan) Rooms() []*Room { return f.rooms }

// WallEdges returns both sides of every wall, front before back, in wall order.
func (f *Floorplan) WallEdges() []*HalfEdge {
	edges := make([]*HalfEdge, 0, 2*len(f.walls))
	for _, w := range f.walls {
		edges = append(edges, w.Front, w.Back)
	}
	return edges
}

func (f *Floorplan) bounds() (minX, maxX, minZ, maxZ float32) {
	minX, minZ = math.MaxFloat32, math.MaxFloat32
	maxX, maxZ = -math.MaxFloat32, -math.MaxFloat32
	for _, c := range f.corners {
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minZ = min(minZ, c.Y)
		maxZ = max(maxZ, c.Y)
	}
	return
}

// Dimensions returns the extent of the plan on x and z; y is zero.
// An empty plan has zero dimensions.
func (f *Floorplan) Dimensions() rl.Vector3 {
	if len(f.corners) == 0 {
		return rl.Vector3{}
	}
	minX, maxX, minZ, maxZ := f.bounds()
	return rl.NewVector3(maxX-minX, 0, maxZ-minZ)
}

// Center returns the center of the plan's bounding box on the ground.
func (f *Floorplan) Center() rl.Vector3 {
	if len(f.corners) == 0 {
		return rl.Vector3{}
	}
	minX, maxX, minZ, maxZ := f.bounds()
	return rl.NewVector3((minX+maxX)/2, 0, (minZ+maxZ)/2)
}
