// Package floorplan holds the authoritative floorplan and room-item model the
// 3D viewer displays: corners, walls and their two sides, rooms and furniture
// items, plus the events raised when any of them change.
package floorplan

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Entity is a logical floorplan object the viewer can build a proxy for.
// Identity is pointer identity; EntityID is stable for the entity's lifetime.
type Entity interface {
	EntityID() string
}

// Corner is a 2D plan point. X and Y are plan coordinates (3D x and z);
// Elevation is the wall height at the corner.
type Corner struct {
	ID        string
	X, Y      float32
	Elevation float32
}

// Point returns the plan position of c.
func (c *Corner) Point() rl.Vector2 { return rl.NewVector2(c.X, c.Y) }

// Wall joins two corners. Its two sides are the Front and Back half edges.
type Wall struct {
	ID        string
	Start     *Corner
	End       *Corner
	Thickness float32
	Front     *HalfEdge
	Back      *HalfEdge
}

// StartElevation is the wall height at its start corner.
func (w *Wall) StartElevation() float32 { return w.Start.Elevation }

// EndElevation is the wall height at its end corner.
func (w *Wall) EndElevation() float32 { return w.End.Elevation }

// Length returns the centerline length of the wall.
func (w *Wall) Length() float32 {
	return rl.Vector2Distance(w.Start.Point(), w.End.Point())
}

// HalfEdge is one side of a wall. The front side runs start to end, the back
// side end to start; each faces the space to its left.
type HalfEdge struct {
	ID    string
	Wall  *Wall
	front bool
}

// EntityID implements Entity.
func (e *HalfEdge) EntityID() string { return e.ID }

// IsFront reports whether e is the wall's front side.
func (e *HalfEdge) IsFront() bool { return e.front }

func (e *HalfEdge) ends() (a, b rl.Vector2) {
	if e.front {
		return e.Wall.Start.Point(), e.Wall.End.Point()
	}
	return e.Wall.End.Point(), e.Wall.Start.Point()
}

// normal2D is the unit plan direction the side faces.
func (e *HalfEdge) normal2D() rl.Vector2 {
	a, b := e.ends()
	d := rl.Vector2Subtract(b, a)
	if rl.Vector2Length(d) == 0 {
		return rl.Vector2{}
	}
	return rl.Vector2Normalize(rl.NewVector2(-d.Y, d.X))
}

// Normal returns the outward interior normal of the side in 3D (y is up).
func (e *HalfEdge) Normal() rl.Vector3 {
	n := e.normal2D()
	return rl.NewVector3(n.X, 0, n.Y)
}

// InteriorStart and InteriorEnd are the side's endpoints, offset from the
// wall centerline by half the wall thickness.
func (e *HalfEdge) InteriorStart() rl.Vector2 {
	a, _ := e.ends()
	return rl.Vector2Add(a, rl.Vector2Scale(e.normal2D(), e.Wall.Thickness/2))
}

// InteriorEnd, see InteriorStart.
func (e *HalfEdge) InteriorEnd() rl.Vector2 {
	_, b := e.ends()
	return rl.Vector2Add(b, rl.Vector2Scale(e.normal2D(), e.Wall.Thickness/2))
}

// InteriorCenter is the plan midpoint of the interior side.
func (e *HalfEdge) InteriorCenter() rl.Vector2 {
	return rl.Vector2Scale(rl.Vector2Add(e.InteriorStart(), e.InteriorEnd()), 0.5)
}

// InteriorDistance is the length of the interior side.
func (e *HalfEdge) InteriorDistance() float32 {
	return rl.Vector2Distance(e.InteriorStart(), e.InteriorEnd())
}

// Room is a closed polygon of corners.
type Room struct {
	ID      string
	Name    string
	Corners []*Corner
}

// EntityID implements Entity.
func (r *Room) EntityID() string { return r.ID }

// Area returns the signed polygon area (positive when counter-clockwise).
func (r *Room) Area() float32 {
	var a float32
	n := len(r.Corners)
	for i := 0; i < n; i++ {
		p, q := r.Corners[i], r.Corners[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// AreaCenter returns the plan centroid of the room polygon. Degenerate
// polygons fall back to the mean of their corners.
func (r *Room) AreaCenter() rl.Vector2 {
	n := len(r.Corners)
	if n == 0 {
		return rl.Vector2{}
	}
	a := r.Area()
	if a == 0 {
		var sum rl.Vector2
		for _, c := range r.Corners {
			sum = rl.Vector2Add(sum, c.Point())
		}
		return rl.Vector2Scale(sum, 1/float32(n))
	}
	var cx, cy float32
	for i := 0; i < n; i++ {
		p, q := r.Corners[i], r.Corners[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	return rl.NewVector2(cx/(6*a), cy/(6*a))
}

// Normal is the floor surface normal. Floors are horizontal and face up
// regardless of corner winding.
func (r *Room) Normal() rl.Vector3 { return rl.NewVector3(0, 1, 0) }

// ItemMetadata is the descriptive model of a catalog item.
type ItemMetadata struct {
	Name     string `json:"item_name"`
	Type     int    `json:"item_type"`
	ModelURL string `json:"model_url"`
}

// Item is a piece of furniture placed in the plan. Position is the center of
// the item's bounding box; Size is width, height and depth.
type Item struct {
	ID       string
	Metadata *ItemMetadata
	Position rl.Vector3
	Rotation float32 // radians about +Y
	Size     rl.Vector3
	Fixed    bool
}

// EntityID implements Entity.
func (it *Item) EntityID() string { return it.ID }

// Name returns the catalog name of the item, or its ID if it has none.
func (it *Item) Name() string {
	if it.Metadata != nil && it.Metadata.Name != "" {
		return it.Metadata.Name
	}
	return it.ID
}
