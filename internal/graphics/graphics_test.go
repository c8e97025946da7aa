package graphics

import (
	"math"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewer"
	"floorplan-viewer/internal/viewerconfig"
)

func TestItemProxy(t *testing.T) {
	f := NewFactory(nil)
	it := &floorplan.Item{
		ID:       "sofa",
		Metadata: &floorplan.ItemMetadata{Name: "Sofa"},
		Position: rl.NewVector3(100, 40, 50),
		Size:     rl.NewVector3(200, 80, 90),
		Rotation: 1,
	}
	p := f.NewItemProxy(it)
	require.Equal(t, viewer.KindItem, p.Kind())
	require.Equal(t, "Sofa", p.Node().Name)
	require.Equal(t, it.Position, p.Node().Position)
	require.Equal(t, it.Size, p.Node().Size)
	require.Equal(t, float32(1), p.Node().Rotation)

	p.SetSelected(true)
	require.True(t, p.Node().Selected)
	require.Equal(t, selectedColor, p.Node().Color)
	p.SetSelected(false)
	require.Equal(t, itemColor, p.Node().Color)
	p.Dispose()
}

func TestWallEdgeProxiesCoverWall(t *testing.T) {
	fp := floorplan.New()
	w := fp.NewWall(fp.NewCorner(0, 0, 250), fp.NewCorner(400, 0, 200), 20)
	f := NewFactory(nil)

	front := f.NewWallEdgeProxy(w.Front).Node()
	back := f.NewWallEdgeProxy(w.Back).Node()

	// Front faces +z, back faces -z; each covers half the thickness.
	require.InDelta(t, 200, front.Position.X, 1e-3)
	require.InDelta(t, 5, front.Position.Z, 1e-3)
	require.InDelta(t, -5, back.Position.Z, 1e-3)
	require.InDelta(t, 125, front.Position.Y, 1e-3)
	require.Equal(t, rl.NewVector3(400, 250, 10), front.Size)
	require.InDelta(t, 0, front.Rotation, 1e-6)
	require.InDelta(t, math.Pi, math.Abs(float64(back.Rotation)), 1e-6)
}

func TestFloorProxy(t *testing.T) {
	fp := floorplan.New()
	r := fp.NewRoom("hall",
		fp.NewCorner(0, 0, 250), fp.NewCorner(300, 0, 250), fp.NewCorner(300, 200, 250))
	n := NewFactory(nil).NewFloorProxy(r).Node()
	require.Equal(t, rl.NewVector3(150, -1, 100), n.Position)
	require.Equal(t, rl.NewVector3(300, 2, 200), n.Size)

	empty := NewFactory(nil).NewFloorProxy(&floorplan.Room{ID: "e"}).Node()
	require.True(t, empty.Hidden)
}

func newTestCamera() *viewer.Camera {
	o := viewerconfig.Default().Camera
	o.Position = [3]float32{0, 0, 1000}
	return viewer.NewCamera(o)
}

func TestOrbitDisabledIgnoresInput(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbit(cam, viewerconfig.Default())
	require.False(t, o.Apply(OrbitInput{Zoom: 1}))
	require.Equal(t, rl.NewVector3(0, 0, 1000), cam.Position)
}

func TestOrbitZoomClamped(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbit(cam, viewerconfig.Default())
	o.SetEnabled(true)
	var changes int
	o.OnChange(func() { changes++ })

	require.True(t, o.Apply(OrbitInput{Zoom: 1}))
	require.InDelta(t, 900, cam.Distance(), 1e-2)
	require.Equal(t, 1, changes)

	for i := 0; i < 100; i++ {
		o.Apply(OrbitInput{Zoom: 5})
	}
	require.InDelta(t, cam.MinDistance, cam.Distance(), 1e-2)
	for i := 0; i < 100; i++ {
		o.Apply(OrbitInput{Zoom: -5})
	}
	require.InDelta(t, cam.MaxDistance, cam.Distance(), 1)
}

func TestOrbitRotateKeepsDistance(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbit(cam, viewerconfig.Default())
	o.SetEnabled(true)

	o.Apply(OrbitInput{Rotate: rl.NewVector2(-100, 0)})
	require.InDelta(t, 1000, cam.Distance(), 1e-2)
	require.InDelta(t, 1000*math.Sin(0.5), cam.Position.X, 1e-1)

	o.Apply(OrbitInput{Rotate: rl.NewVector2(0, 10000)})
	require.InDelta(t, 1000*math.Sin(maxPitch), cam.Position.Y, 1e-1)
}

func TestOrbitSyncAfterFraming(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbit(cam, viewerconfig.Default())
	o.SetEnabled(true)
	cam.Target = rl.NewVector3(100, 0, 0)
	cam.Position = rl.NewVector3(100, 0, 500)
	o.Sync()

	o.Apply(OrbitInput{Zoom: 1})
	require.InDelta(t, 450, cam.Distance(), 1e-2)
	require.InDelta(t, 100, cam.Position.X, 1e-3)
}

func TestOrbitSpinOnlyWhenIdle(t *testing.T) {
	cam := newTestCamera()
	opts := viewerconfig.Default()
	opts.SpinSpeed = 0.001
	o := NewOrbit(cam, opts)
	o.SetEnabled(true)

	require.False(t, o.Apply(OrbitInput{Elapsed: time.Second}))
	require.True(t, o.Apply(OrbitInput{Idle: true, Elapsed: time.Second}))
	require.InDelta(t, 1000*math.Sin(1), cam.Position.X, 1e-1)
}

func TestOrbitPan(t *testing.T) {
	cam := newTestCamera()
	opts := viewerconfig.Default()
	o := NewOrbit(cam, opts)
	o.SetEnabled(true)
	o.Apply(OrbitInput{Pan: rl.NewVector2(100, 0)})
	require.InDelta(t, -100, cam.Target.X, 1e-2)
	require.InDelta(t, 1000, cam.Distance(), 1e-2)

	opts.ClickPan = false
	o = NewOrbit(cam, opts)
	o.SetEnabled(true)
	require.False(t, o.Apply(OrbitInput{Pan: rl.NewVector2(100, 0)}))
}

type pickScene struct {
	graph   *scene.Graph
	proxies map[uuid.UUID]viewer.Proxy
}

func newPickScene() *pickScene {
	return &pickScene{graph: scene.New(), proxies: make(map[uuid.UUID]viewer.Proxy)}
}

func (s *pickScene) Graph() *scene.Graph { return s.graph }

func (s *pickScene) ProxyByNode(id uuid.UUID) (viewer.Proxy, bool) {
	p, ok := s.proxies[id]
	return p, ok
}

func (s *pickScene) add(p viewer.Proxy) viewer.Proxy {
	s.graph.Attach(p.Node())
	s.proxies[p.Node().ID] = p
	return p
}

// down is a ray straight down onto (x, z).
func down(x, z float32) rl.Ray {
	return rl.NewRay(rl.NewVector3(x, 1000, z), rl.NewVector3(0, -1, 0))
}

type dragHarness struct {
	drag   *Drag
	item   *floorplan.Item
	proxy  viewer.Proxy
	room   *floorplan.Room
	events []viewer.Event
}

func newDragHarness(t *testing.T, fixed, canMoveFixed bool) *dragHarness {
	t.Helper()
	fp := floorplan.New()
	f := NewFactory(nil)
	s := newPickScene()
	h := &dragHarness{
		drag: NewDrag(canMoveFixed),
		item: &floorplan.Item{ID: "box", Position: rl.NewVector3(0, 50, 0), Size: rl.NewVector3(100, 100, 100), Fixed: fixed},
		room: fp.NewRoom("room",
			fp.NewCorner(-500, -500, 250), fp.NewCorner(500, -500, 250),
			fp.NewCorner(500, 500, 250), fp.NewCorner(-500, 500, 250)),
	}
	s.add(f.NewFloorProxy(h.room))
	h.proxy = s.add(f.NewItemProxy(h.item))
	h.drag.Attach(s)
	h.drag.Activate()
	h.drag.Subscribe(func(e viewer.Event) { h.events = append(h.events, e) })
	return h
}

func (h *dragHarness) types() []viewer.EventType {
	var out []viewer.EventType
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func TestDragPickNearest(t *testing.T) {
	h := newDragHarness(t, false, false)
	p, hit, ok := h.drag.Pick(down(0, 0))
	require.True(t, ok)
	require.Same(t, h.proxy, p)
	require.InDelta(t, 100, hit.Point.Y, 1e-3)

	p, _, ok = h.drag.Pick(down(300, 300))
	require.True(t, ok)
	require.Equal(t, viewer.KindFloor, p.Kind())

	_, _, ok = h.drag.Pick(down(900, 900))
	require.False(t, ok)
}

func TestDragPressEvents(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Release()
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Release()
	h.drag.Press(down(300, 300), Modifiers{})
	h.drag.Press(down(900, 900), Modifiers{})

	require.Equal(t, []viewer.EventType{
		viewer.EventItemSelected,
		viewer.EventRoomClicked,
		viewer.EventNoItemSelected,
	}, h.types())
	require.Same(t, h.room, h.events[1].Room)
}

func TestDragTranslate(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(10, 10), Modifiers{})
	h.drag.Move(down(60, -20), rl.NewVector2(50, -30))
	h.drag.Release()

	require.InDelta(t, 50, h.item.Position.X, 1e-3)
	require.InDelta(t, -30, h.item.Position.Z, 1e-3)
	require.Equal(t, h.item.Position, h.proxy.Node().Position)
	require.Equal(t, []viewer.EventType{
		viewer.EventItemSelected,
		viewer.EventItemMove,
		viewer.EventItemMoveFinish,
	}, h.types())
	require.Equal(t, viewer.MotionTranslate, h.events[1].Motion)
}

func TestDragClickSlop(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Move(down(1, 1), rl.NewVector2(1, 1))
	h.drag.Release()
	require.Equal(t, []viewer.EventType{viewer.EventItemSelected}, h.types())
	require.Equal(t, rl.NewVector3(0, 50, 0), h.item.Position)
}

func TestDragRotateSnaps(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(0, 0), Modifiers{Shift: true})
	h.drag.Move(down(0, 0), rl.NewVector2(10, 0))
	require.Zero(t, h.item.Rotation)
	h.drag.Move(down(0, 0), rl.NewVector2(30, 0))
	require.InDelta(t, math.Pi/12*2, h.item.Rotation, 1e-6)
	require.Equal(t, viewer.MotionRotate, h.events[len(h.events)-1].Motion)
}

func TestDragLiftStaysAboveFloor(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(0, 0), Modifiers{Ctrl: true})
	h.drag.Move(down(0, 0), rl.NewVector2(0, -40))
	require.InDelta(t, 70, h.item.Position.Y, 1e-3)
	h.drag.Move(down(0, 0), rl.NewVector2(0, 400))
	require.InDelta(t, 50, h.item.Position.Y, 1e-3)
}

func TestDragFixedItems(t *testing.T) {
	h := newDragHarness(t, true, false)
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Move(down(200, 0), rl.NewVector2(200, 0))
	h.drag.Release()
	require.Equal(t, rl.NewVector3(0, 50, 0), h.item.Position)
	require.Equal(t, []viewer.EventType{viewer.EventItemSelected}, h.types())

	h = newDragHarness(t, true, true)
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Move(down(200, 0), rl.NewVector2(200, 0))
	require.InDelta(t, 200, h.item.Position.X, 1e-3)
}

func TestDragInactive(t *testing.T) {
	h := newDragHarness(t, false, false)
	h.drag.Press(down(0, 0), Modifiers{})
	h.drag.Deactivate()
	h.drag.Move(down(200, 0), rl.NewVector2(200, 0))
	h.drag.Release()
	h.drag.Press(down(0, 0), Modifiers{})
	require.Equal(t, []viewer.EventType{viewer.EventItemSelected}, h.types())
}

type statsSource struct {
	state viewer.State
	draws uint64
	last  time.Time
}

func (s statsSource) State() viewer.State   { return s.state }
func (s statsSource) Draws() uint64         { return s.draws }
func (s statsSource) LastRender() time.Time { return s.last }

func TestStatsLines(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStats(statsSource{}, true)
	require.Equal(t, []string{
		"FPS: 60",
		"Mem: 1.50 MiB",
		"Draws: 0 (last never)",
		"State: none",
	}, s.lines(now, 60, 3<<19))

	s = NewStats(statsSource{state: viewer.StateRotating, draws: 12, last: now.Add(-2500 * time.Millisecond)}, true)
	lines := s.lines(now, 30, 0)
	require.Equal(t, "Draws: 12 (last 2.5s ago)", lines[2])
	require.Equal(t, "State: rotating", lines[3])
}
