package viewer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
)

func newTestSet() (*ProxySet, *fakeFactory, *scene.Graph) {
	g := scene.New()
	f := &fakeFactory{graph: g}
	return NewProxySet(g, f), f, g
}

func TestProxySetAddDuplicate(t *testing.T) {
	set, f, g := newTestSet()
	it := &floorplan.Item{ID: "chair"}

	p, err := set.Add(it)
	require.NoError(t, err)
	require.Equal(t, KindItem, p.Kind())
	require.Equal(t, 1, g.Len())

	again, err := set.Add(it)
	require.ErrorIs(t, err, ErrDuplicateEntity)
	require.Same(t, p, again)
	require.Len(t, f.built, 1)
	require.Equal(t, 1, set.Len())
	require.Equal(t, 1, g.Len())
}

func TestProxySetRemove(t *testing.T) {
	set, f, g := newTestSet()
	it := &floorplan.Item{ID: "sofa"}
	_, err := set.Add(it)
	require.NoError(t, err)

	var removed []Proxy
	set.removed = func(p Proxy) { removed = append(removed, p) }

	require.NoError(t, set.Remove(it))
	require.Equal(t, 1, f.built[0].disposed)
	require.True(t, f.built[0].attachedOnDispose, "dispose must run before detach")
	require.Zero(t, g.Len())
	require.Zero(t, set.Len())
	require.Len(t, removed, 1)

	require.ErrorIs(t, set.Remove(it), ErrOrphanProxyRemoval)
	require.Equal(t, 1, f.built[0].disposed)
	require.Len(t, removed, 1)
}

func TestProxySetClearByKind(t *testing.T) {
	set, f, g := newTestSet()
	fp := floorplan.New()
	a, b := fp.NewCorner(0, 0, 250), fp.NewCorner(100, 0, 250)
	w := fp.NewWall(a, b, 10)
	r := fp.NewRoom("hall", a, b, fp.NewCorner(0, 100, 250))
	items := []*floorplan.Item{{ID: "1"}, {ID: "2"}}

	for _, e := range []floorplan.Entity{items[0], w.Front, r, items[1], w.Back} {
		_, err := set.Add(e)
		require.NoError(t, err)
	}
	require.Equal(t, 5, g.Len())

	require.Equal(t, 3, set.Clear(KindFloor, KindWallEdge))
	require.Equal(t, 2, set.Len())
	require.Equal(t, 2, g.Len())
	require.Empty(t, set.Proxies(KindWallEdge))

	got := set.Proxies(KindItem)
	require.Len(t, got, 2)
	require.Same(t, items[0], got[0].Entity())
	require.Same(t, items[1], got[1].Entity())

	require.Equal(t, 2, set.Clear())
	require.Zero(t, g.Len())
	for _, p := range f.built {
		require.Equal(t, 1, p.disposed)
	}
}

func TestProxySetByNode(t *testing.T) {
	set, _, _ := newTestSet()
	it := &floorplan.Item{ID: "lamp"}
	p, err := set.Add(it)
	require.NoError(t, err)

	got, ok := set.ByNode(p.Node().ID)
	require.True(t, ok)
	require.Same(t, p, got)

	require.NoError(t, set.Remove(it))
	_, ok = set.ByNode(p.Node().ID)
	require.False(t, ok)
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(&floorplan.Room{})
	require.True(t, ok)
	require.Equal(t, KindFloor, k)

	k, ok = KindOf(&floorplan.HalfEdge{})
	require.True(t, ok)
	require.Equal(t, KindWallEdge, k)

	_, ok = KindOf(strayEntity{})
	require.False(t, ok)
}

type strayEntity struct{}

func (strayEntity) EntityID() string { return "stray" }
