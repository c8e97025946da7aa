package scene

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

func names(g *Graph) []string {
	var s []string
	g.ForEach(func(n *Node) bool {
		s = append(s, n.Name)
		return true
	})
	return s
}

func TestAttachDetach(t *testing.T) {
	g := New()
	a, b, c := NewNode("a", "item"), NewNode("b", "item"), NewNode("c", "floor")
	g.Attach(a)
	g.Attach(b)
	g.Attach(c)
	g.Attach(a)
	require.Equal(t, 3, g.Len())
	require.Equal(t, []string{"a", "b", "c"}, names(g))

	require.True(t, g.Detach(b))
	require.False(t, g.Detach(b))
	require.Equal(t, []string{"a", "c"}, names(g))

	n, ok := g.Lookup(c.ID)
	require.True(t, ok)
	require.Same(t, c, n)
	_, ok = g.Lookup(b.ID)
	require.False(t, ok)
}

func TestSnapshotIsCopy(t *testing.T) {
	g := New()
	n := NewNode("chair", "item")
	n.Position = rl.NewVector3(1, 2, 3)
	g.Attach(n)
	snap := g.Snapshot()
	n.Position.X = 99
	n.Selected = true
	require.Equal(t, float32(1), snap[0].Position.X)
	require.False(t, snap[0].Selected)
}

func TestBounds(t *testing.T) {
	n := NewNode("box", "item")
	n.Position = rl.NewVector3(10, 5, 0)
	n.Size = rl.NewVector3(4, 10, 2)
	b := n.Bounds()
	require.Equal(t, rl.NewVector3(8, 0, -1), b.Min)
	require.Equal(t, rl.NewVector3(12, 10, 1), b.Max)
}
