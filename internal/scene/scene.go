// Package scene holds the render graph the viewer attaches proxies to. A Graph
// is plain data: it is drawn by a renderer and snapshotted for export, but it
// never touches GPU resources itself.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
)

// Node is one drawable element of the graph. Position is the center of the
// node's box; Size is its extent on x, y and z.
type Node struct {
	ID       uuid.UUID
	Name     string
	Tag      string // proxy kind, e.g. "floor"
	Position rl.Vector3
	Size     rl.Vector3
	Rotation float32 // radians about +Y
	Color    rl.Color
	Selected bool
	Hidden   bool
}

// NewNode returns a visible node with a fresh ID.
func NewNode(name, tag string) *Node {
	return &Node{ID: uuid.New(), Name: name, Tag: tag, Color: rl.LightGray}
}

// Bounds returns the axis-aligned box of n, ignoring rotation.
func (n *Node) Bounds() rl.BoundingBox {
	half := rl.Vector3Scale(n.Size, 0.5)
	return rl.NewBoundingBox(rl.Vector3Subtract(n.Position, half), rl.Vector3Add(n.Position, half))
}

// Graph is an ordered set of nodes. Draw order is attach order.
type Graph struct {
	nodes []*Node
	index map[uuid.UUID]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[uuid.UUID]int)}
}

// Attach appends n. Attaching a node that is already present is a no-op.
func (g *Graph) Attach(n *Node) {
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Detach removes n and reports whether it was attached.
func (g *Graph) Detach(n *Node) bool {
	i, ok := g.index[n.ID]
	if !ok {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	delete(g.index, n.ID)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j].ID] = j
	}
	return true
}

// Lookup returns the attached node with the given ID.
func (g *Graph) Lookup(id uuid.UUID) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Len returns the number of attached nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// ForEach calls f for each node in draw order until f returns false.
func (g *Graph) ForEach(f func(*Node) bool) {
	for _, n := range g.nodes {
		if !f(n) {
			return
		}
	}
}

// Snapshot returns copies of every attached node, in draw order. The copies
// may be read from another goroutine while the graph keeps changing.
func (g *Graph) Snapshot() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}
