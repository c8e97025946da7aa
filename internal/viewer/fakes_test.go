package viewer

import (
	"context"
	"fmt"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
)

// calls records collaborator calls in order across fakes.
type calls []string

func (c *calls) add(s string) {
	if c != nil {
		*c = append(*c, s)
	}
}

type fakeProxy struct {
	kind     Kind
	ent      floorplan.Entity
	node     *scene.Node
	selected bool
	disposed int
	// attachedOnDispose records whether the node was still in the graph
	// when Dispose ran.
	attachedOnDispose bool
	graph             *scene.Graph
}

func (p *fakeProxy) Kind() Kind               { return p.kind }
func (p *fakeProxy) Entity() floorplan.Entity { return p.ent }
func (p *fakeProxy) Node() *scene.Node        { return p.node }
func (p *fakeProxy) Selected() bool           { return p.selected }
func (p *fakeProxy) SetSelected(on bool) {
	p.selected = on
	p.node.Selected = on
}

func (p *fakeProxy) Dispose() {
	p.disposed++
	if p.graph != nil {
		_, p.attachedOnDispose = p.graph.Lookup(p.node.ID)
	}
}

type fakeFactory struct {
	graph *scene.Graph
	built []*fakeProxy
}

func (f *fakeFactory) build(k Kind, e floorplan.Entity) Proxy {
	p := &fakeProxy{kind: k, ent: e, node: scene.NewNode(e.EntityID(), k.String()), graph: f.graph}
	f.built = append(f.built, p)
	return p
}

func (f *fakeFactory) NewItemProxy(it *floorplan.Item) Proxy       { return f.build(KindItem, it) }
func (f *fakeFactory) NewFloorProxy(r *floorplan.Room) Proxy        { return f.build(KindFloor, r) }
func (f *fakeFactory) NewWallEdgeProxy(e *floorplan.HalfEdge) Proxy { return f.build(KindWallEdge, e) }

// live returns built proxies that have not been disposed.
func (f *fakeFactory) live() []*fakeProxy {
	var out []*fakeProxy
	for _, p := range f.built {
		if p.disposed == 0 {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeFactory) selectedCount() int {
	n := 0
	for _, p := range f.built {
		if p.selected {
			n++
		}
	}
	return n
}

type fakeDrag struct {
	log      *calls
	active   bool
	selected Proxy
	events   event.Dispatcher[Event]
}

func (d *fakeDrag) Activate() {
	d.active = true
	d.log.add("drag.activate")
}

func (d *fakeDrag) Deactivate() {
	d.active = false
	d.log.add("drag.deactivate")
}

func (d *fakeDrag) SetSelected(p Proxy) { d.selected = p }

func (d *fakeDrag) Subscribe(fn func(Event)) *event.Subscription { return d.events.Subscribe(fn) }

func (d *fakeDrag) fire(e Event) { d.events.Emit(e) }

type fakeOrbit struct {
	log     *calls
	enabled bool
	syncs   int
	changes event.Dispatcher[struct{}]
}

func (o *fakeOrbit) SetEnabled(on bool) {
	o.enabled = on
	o.log.add(fmt.Sprintf("orbit.enabled=%t", on))
}

func (o *fakeOrbit) Enabled() bool { return o.enabled }
func (o *fakeOrbit) Sync()         { o.syncs++ }

func (o *fakeOrbit) OnChange(fn func()) *event.Subscription {
	return o.changes.Subscribe(func(struct{}) { fn() })
}

type fakeRenderer struct {
	draws int
	err   error
	sizes [][2]int
}

func (r *fakeRenderer) Draw(*scene.Graph, *Camera) error {
	if r.err != nil {
		return r.err
	}
	r.draws++
	return nil
}

func (r *fakeRenderer) SetSize(w, h int) { r.sizes = append(r.sizes, [2]int{w, h}) }

type fakeSize struct {
	w, h       int
	left, top  int
	cw, ch     int
	resizeSubs event.Dispatcher[struct{}]
}

func (s *fakeSize) WindowSize() (int, int) { return s.w, s.h }
func (s *fakeSize) Offset() (int, int)     { return s.left, s.top }
func (s *fakeSize) ClientSize() (int, int) { return s.cw, s.ch }

func (s *fakeSize) OnResize(fn func()) *event.Subscription {
	return s.resizeSubs.Subscribe(func(struct{}) { fn() })
}

func (s *fakeSize) resize(w, h int) {
	s.w, s.h = w, h
	s.resizeSubs.Emit(struct{}{})
}

type fakeExporter struct {
	err error
}

func (e fakeExporter) Export(ctx context.Context, nodes []scene.Node) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%d nodes", len(nodes))), nil
}
