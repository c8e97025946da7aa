package graphics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewer"
)

var (
	itemColor     = rl.NewColor(176, 148, 120, 255)
	wallColor     = rl.NewColor(232, 230, 224, 255)
	floorColor    = rl.NewColor(196, 184, 166, 255)
	selectedColor = rl.NewColor(255, 170, 60, 255)
)

// floorThickness is the height of the slab drawn for a room, in cm.
const floorThickness = 2

// proxy is a box node standing in for one entity.
type proxy struct {
	kind     viewer.Kind
	ent      floorplan.Entity
	node     *scene.Node
	base     rl.Color
	selected bool
	meshes   *Meshes
}

func (p *proxy) Kind() viewer.Kind        { return p.kind }
func (p *proxy) Entity() floorplan.Entity { return p.ent }
func (p *proxy) Node() *scene.Node        { return p.node }
func (p *proxy) Selected() bool           { return p.selected }

func (p *proxy) SetSelected(on bool) {
	p.selected = on
	p.node.Selected = on
	if on {
		p.node.Color = selectedColor
	} else {
		p.node.Color = p.base
	}
}

// Dispose unloads the node's mesh. The node itself is detached by the
// viewer.
func (p *proxy) Dispose() {
	if p.meshes != nil {
		p.meshes.Release(p.node.ID)
	}
}

// Factory builds box proxies whose meshes live in a shared Meshes registry.
type Factory struct {
	meshes *Meshes
}

// NewFactory returns a factory. meshes may be nil for headless use.
func NewFactory(meshes *Meshes) *Factory {
	return &Factory{meshes: meshes}
}

func (f *Factory) newProxy(k viewer.Kind, e floorplan.Entity, name string, c rl.Color) *proxy {
	n := scene.NewNode(name, k.String())
	n.Color = c
	return &proxy{kind: k, ent: e, node: n, base: c, meshes: f.meshes}
}

// NewItemProxy places a box of the item's size at its position.
func (f *Factory) NewItemProxy(it *floorplan.Item) viewer.Proxy {
	p := f.newProxy(viewer.KindItem, it, it.Name(), itemColor)
	SyncItemNode(p.node, it)
	return p
}

// SyncItemNode copies an item's placement onto its node.
func SyncItemNode(n *scene.Node, it *floorplan.Item) {
	n.Position = it.Position
	n.Size = it.Size
	n.Rotation = it.Rotation
}

// NewFloorProxy covers the room's bounding rectangle with a thin slab just
// below the ground plane.
func (f *Factory) NewFloorProxy(r *floorplan.Room) viewer.Proxy {
	p := f.newProxy(viewer.KindFloor, r, r.Name, floorColor)
	if len(r.Corners) == 0 {
		p.node.Hidden = true
		return p
	}
	minX, minZ := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxZ := -minX, -minZ
	for _, c := range r.Corners {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minZ, maxZ = min(minZ, c.Y), max(maxZ, c.Y)
	}
	p.node.Position = rl.NewVector3((minX+maxX)/2, -floorThickness/2, (minZ+maxZ)/2)
	p.node.Size = rl.NewVector3(maxX-minX, floorThickness, maxZ-minZ)
	return p
}

// NewWallEdgeProxy builds the half of the wall between its centerline and
// the given side, so the two sides of a wall together make up the wall.
func (f *Factory) NewWallEdgeProxy(e *floorplan.HalfEdge) viewer.Proxy {
	p := f.newProxy(viewer.KindWallEdge, e, e.ID, wallColor)
	a, b := e.InteriorStart(), e.InteriorEnd()
	half := e.Wall.Thickness / 2
	n := e.Normal()
	mid := rl.Vector2Scale(rl.Vector2Add(a, b), 0.5)
	mid = rl.Vector2Subtract(mid, rl.Vector2Scale(rl.NewVector2(n.X, n.Z), half/2))
	height := max(e.Wall.StartElevation(), e.Wall.EndElevation())

	d := rl.Vector2Subtract(b, a)
	p.node.Position = rl.NewVector3(mid.X, height/2, mid.Y)
	p.node.Size = rl.NewVector3(rl.Vector2Length(d), height, max(half, 1))
	// Box length runs along local x; MatrixRotateY(t) maps x to (cos t, 0, -sin t).
	p.node.Rotation = float32(math.Atan2(float64(-d.Y), float64(d.X)))
	return p
}
