package floorplan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

func TestHalfEdgeInterior(t *testing.T) {
	fp := New()
	a := fp.NewCorner(-40, 20, 0)
	b := fp.NewCorner(60, 20, 200)
	w := fp.NewWall(a, b, 0)

	require.Equal(t, rl.NewVector3(0, 0, 1), w.Front.Normal())
	require.Equal(t, rl.NewVector3(0, 0, -1), w.Back.Normal())
	require.Equal(t, rl.NewVector2(10, 20), w.Front.InteriorCenter())
	require.InDelta(t, 100, w.Front.InteriorDistance(), 1e-4)
	require.Equal(t, float32(200), w.EndElevation())
}

func TestHalfEdgeThicknessOffset(t *testing.T) {
	fp := New()
	w := fp.NewWall(fp.NewCorner(0, 0, 250), fp.NewCorner(100, 0, 250), 10)
	require.Equal(t, rl.NewVector2(50, 5), w.Front.InteriorCenter())
	require.Equal(t, rl.NewVector2(50, -5), w.Back.InteriorCenter())
}

func TestWallEdgesOrder(t *testing.T) {
	fp := New()
	a, b, c := fp.NewCorner(0, 0, 250), fp.NewCorner(1, 0, 250), fp.NewCorner(1, 1, 250)
	w1 := fp.NewWall(a, b, 10)
	w2 := fp.NewWall(b, c, 10)
	require.Equal(t, []*HalfEdge{w1.Front, w1.Back, w2.Front, w2.Back}, fp.WallEdges())
}

func TestRoomAreaCenter(t *testing.T) {
	fp := New()
	r := fp.NewRoom("square",
		fp.NewCorner(0, 0, 250), fp.NewCorner(200, 0, 250),
		fp.NewCorner(200, 100, 250), fp.NewCorner(0, 100, 250))
	require.Equal(t, float32(20000), r.Area())
	c := r.AreaCenter()
	require.InDelta(t, 100, c.X, 1e-3)
	require.InDelta(t, 50, c.Y, 1e-3)
	require.Equal(t, rl.NewVector3(0, 1, 0), r.Normal())

	line := fp.NewRoom("degenerate", fp.NewCorner(0, 0, 1), fp.NewCorner(4, 0, 1))
	require.Equal(t, rl.NewVector2(2, 0), line.AreaCenter())
}

func TestDimensions(t *testing.T) {
	fp := New()
	require.Equal(t, rl.Vector3{}, fp.Dimensions())
	fp.NewCorner(-100, 0, 250)
	fp.NewCorner(300, 400, 250)
	require.Equal(t, rl.NewVector3(400, 0, 400), fp.Dimensions())
	require.Equal(t, rl.NewVector3(100, 0, 200), fp.Center())
}

func TestModelEvents(t *testing.T) {
	m := NewModel()
	var got []ModelEventType
	sub := m.Subscribe(func(e ModelEvent) { got = append(got, e.Type) })
	defer sub.Release()

	it := &Item{}
	m.AddItem(it)
	require.NotEmpty(t, it.ID)
	m.RemoveItem(it)
	m.RemoveItem(it)
	m.SetItems([]*Item{{}, {}})
	m.Reset()
	require.Equal(t, []ModelEventType{ItemAdded, ItemRemoved, ItemRemoved, ItemsLoaded, ModeReset}, got)
	require.Empty(t, m.Items())
}

const samplePlan = `{
  "floorplan": {
    "corners": {
      "a": {"x": 0, "y": 0},
      "b": {"x": 400, "y": 0, "elevation": 300},
      "c": {"x": 400, "y": 300},
      "d": {"x": 0, "y": 300}
    },
    "walls": [
      {"corner1": "a", "corner2": "b"},
      {"corner1": "b", "corner2": "c", "thickness": 20},
      {"corner1": "c", "corner2": "d"},
      {"corner1": "d", "corner2": "a"}
    ],
    "rooms": [{"name": "Living", "corners": ["a", "b", "c", "d"]}]
  },
  "items": [
    {"item_name": "Chair", "item_type": 1, "model_url": "models/chair.glb",
     "xpos": 100, "ypos": 40, "zpos": 100, "width": 50, "height": 80, "depth": 50},
    {"xpos": 10, "fixed": true}
  ]
}`

func TestLoad(t *testing.T) {
	m := NewModel()
	var order []string
	m.Floorplan().Subscribe(func(e FloorplanEvent) { order = append(order, e.Type.String()) })
	m.Subscribe(func(e ModelEvent) { order = append(order, e.Type.String()) })

	p, err := DecodePlan(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.NoError(t, m.Load(p))
	require.Equal(t, []string{"rooms-rebuilt", "items-loaded"}, order)

	fp := m.Floorplan()
	require.Len(t, fp.Corners(), 4)
	require.Equal(t, "a", fp.Corners()[0].ID)
	require.Equal(t, float32(DefaultWallHeight), fp.Corners()[0].Elevation)
	require.Equal(t, float32(300), fp.Corners()[1].Elevation)
	require.Len(t, fp.WallEdges(), 8)
	require.Equal(t, float32(20), fp.Walls()[1].Thickness)
	require.Len(t, fp.Rooms(), 1)

	items := m.Items()
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Metadata)
	require.Equal(t, "Chair", items[0].Name())
	require.Nil(t, items[1].Metadata)
	require.True(t, items[1].Fixed)
	require.Equal(t, items[1].ID, items[1].Name())
}

func TestLoadUnknownCorner(t *testing.T) {
	m := NewModel()
	p, err := DecodePlan(strings.NewReader(`{"floorplan":{"corners":{"a":{}},"walls":[{"corner1":"a","corner2":"zz"}]}}`))
	require.NoError(t, err)
	err = m.Load(p)
	require.True(t, errors.Is(err, ErrUnknownCorner))
	require.Empty(t, m.Floorplan().Corners())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o644))
	m := NewModel()
	require.NoError(t, m.LoadFile(path))
	require.Len(t, m.Items(), 2)

	require.Error(t, m.LoadFile(filepath.Join(t.TempDir(), "missing.json")))
}

func TestModelFind(t *testing.T) {
	m := NewModel()
	p, err := DecodePlan(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.NoError(t, m.Load(p))

	e, ok := m.Find("living")
	require.True(t, ok)
	require.Same(t, m.Floorplan().Rooms()[0], e)

	e, ok = m.Find("Chairs")
	require.True(t, ok)
	require.Same(t, m.Items()[0], e)

	_, ok = m.Find("Kitchen")
	require.False(t, ok)
	_, ok = m.Find("  ")
	require.False(t, ok)
}
