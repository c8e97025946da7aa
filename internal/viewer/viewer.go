// Package viewer is the interactive core of the 3D floorplan viewport. It
// keeps one proxy per wall side, room and item in the render graph, tracks the
// single active selection, frames the camera on selections and plan loads,
// and draws only when something visible changed.
//
// All methods must be called from one goroutine, the one running the
// animation loop and delivering model and pointer events.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/logger"
	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewerconfig"
)

var (
	ErrAlreadyEnabled  = errors.New("viewer: already enabled")
	ErrAlreadyDisabled = errors.New("viewer: already disabled")
	ErrClosed          = errors.New("viewer: closed")
	ErrNoExporter      = errors.New("viewer: no exporter configured")
	// ErrKindMismatch is returned by FocusOn when the entity is not of the
	// requested kind.
	ErrKindMismatch = errors.New("viewer: entity does not match kind")
)

// Deps are the collaborators a Viewer is built from. Camera, Exporter, Log
// and Now are optional. Pass Camera when the orbit control must move the
// same camera the viewer frames.
type Deps struct {
	Camera    *Camera
	Model     ModelSource
	Floorplan FloorplanSource
	Renderer  Renderer
	Factory   ProxyFactory
	Drag      DragControl
	Orbit     OrbitControl
	Size      SizeSource
	Exporter  Exporter
	Log       *logger.Logger
	Now       func() time.Time
}

func (d Deps) validate() error {
	missing := func(name string) error { return fmt.Errorf("viewer: missing %s", name) }
	switch {
	case d.Model == nil:
		return missing("model")
	case d.Floorplan == nil:
		return missing("floorplan")
	case d.Renderer == nil:
		return missing("renderer")
	case d.Factory == nil:
		return missing("proxy factory")
	case d.Drag == nil:
		return missing("drag control")
	case d.Orbit == nil:
		return missing("orbit control")
	case d.Size == nil:
		return missing("size source")
	}
	return nil
}

// Viewer ties the proxy set, synchronizer, selection, framing, scheduler and
// viewport together behind the viewer's public operations.
type Viewer struct {
	opts     viewerconfig.Options
	cam      *Camera
	graph    *scene.Graph
	proxies  *ProxySet
	framer   *Framer
	sel      *Selection
	sync     *Synchronizer
	sched    *Scheduler
	viewport *Viewport

	drag     DragControl
	orbit    OrbitControl
	exporter Exporter
	log      *logger.Logger

	listeners event.Dispatcher[Event]
	subs      event.Group

	enabled bool
	closed  bool

	exports chan exportResult
	done    chan struct{}
	pending int
}

// New builds a disabled viewer, sizes the viewport and synchronizes with the
// current model and floorplan. Call Enable to start drawing and interaction.
func New(d Deps, opts viewerconfig.Options) (*Viewer, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	cam := d.Camera
	if cam == nil {
		cam = NewCamera(opts.Camera)
	}
	v := &Viewer{
		opts:     opts,
		cam:      cam,
		graph:    scene.New(),
		drag:     d.Drag,
		orbit:    d.Orbit,
		exporter: d.Exporter,
		log:      d.Log,
		exports:  make(chan exportResult, 1),
		done:     make(chan struct{}),
	}
	v.sched = NewScheduler(d.Renderer, v.graph, v.cam, d.Now)
	dirty := v.sched.MarkDirty
	v.proxies = NewProxySet(v.graph, d.Factory)
	v.framer = NewFramer(v.cam, d.Orbit, dirty)
	v.sel = NewSelection(v.proxies, d.Drag, d.Orbit, v.framer, dirty, v.listeners.Emit, d.Log)
	v.proxies.removed = v.sel.invalidate
	v.sync = NewSynchronizer(d.Model, d.Floorplan, v.proxies, v.sel, v.framer, d.Drag, dirty, d.Log)
	v.viewport = NewViewport(d.Size, opts.Resize, v.cam, d.Renderer, dirty)

	v.drag.Deactivate()
	v.orbit.SetEnabled(false)
	v.orbit.Sync()
	v.viewport.Resize()

	v.subs.Add(d.Model.Subscribe(v.sync.HandleModel))
	v.subs.Add(d.Floorplan.Subscribe(v.sync.HandleFloorplan))
	v.subs.Add(d.Drag.Subscribe(v.sel.Handle))
	v.subs.Add(d.Orbit.OnChange(dirty))
	if opts.Resize {
		v.subs.Add(d.Size.OnResize(func() { v.viewport.Resize() }))
	}

	v.sync.HandleFloorplan(floorplan.FloorplanEvent{Type: floorplan.RoomsRebuilt})
	v.sync.HandleModel(floorplan.ModelEvent{Type: floorplan.ItemsLoaded})
	return v, nil
}

// Enable starts interaction and drawing. The drag control is activated
// before orbit input is turned on.
func (v *Viewer) Enable() error {
	switch {
	case v.closed:
		return ErrClosed
	case v.enabled:
		return ErrAlreadyEnabled
	}
	v.drag.Activate()
	v.enabled = true
	v.sched.SetEnabled(true)
	v.sel.setEnabled(true)
	v.orbit.SetEnabled(true)
	v.sched.MarkDirty()
	v.log.Log("viewer: enabled")
	return nil
}

// Disable stops interaction and drawing. The drag control is deactivated
// before anything else so no pointer event arrives after Disable returns.
func (v *Viewer) Disable() error {
	switch {
	case v.closed:
		return ErrClosed
	case !v.enabled:
		return ErrAlreadyDisabled
	}
	v.drag.Deactivate()
	v.enabled = false
	v.sched.SetEnabled(false)
	v.sel.setEnabled(false)
	v.orbit.SetEnabled(false)
	v.log.Log("viewer: disabled")
	return nil
}

// Enabled reports whether the viewer is enabled.
func (v *Viewer) Enabled() bool { return v.enabled }

// Resize re-reads the container size; see Viewport.Resize.
func (v *Viewer) Resize() bool { return v.viewport.Resize() }

// FocusOn selects or frames ent as if the pointer had clicked it.
func (v *Viewer) FocusOn(kind Kind, ent floorplan.Entity) error {
	if v.closed {
		return ErrClosed
	}
	switch kind {
	case KindWallEdge:
		edge, ok := ent.(*floorplan.HalfEdge)
		if !ok {
			return fmt.Errorf("%w: %T is not a wall edge", ErrKindMismatch, ent)
		}
		v.sel.Handle(Event{Type: EventWallClicked, Edge: edge, Normal: edge.Normal()})
	case KindFloor:
		room, ok := ent.(*floorplan.Room)
		if !ok {
			return fmt.Errorf("%w: %T is not a room", ErrKindMismatch, ent)
		}
		v.sel.Handle(Event{Type: EventRoomClicked, Room: room})
	case KindItem:
		if _, ok := ent.(*floorplan.Item); !ok {
			return fmt.Errorf("%w: %T is not an item", ErrKindMismatch, ent)
		}
		p, ok := v.proxies.Find(ent)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntity, ent.EntityID())
		}
		v.sel.SelectItem(p)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownEntity, kind)
	}
	return nil
}

// Pause suspends (true) or resumes (false) drawing.
func (v *Viewer) Pause(flag bool) { v.sched.Pause(flag) }

// Tick runs one animation frame: finished exports are delivered, then the
// scheduler draws if the frame is dirty. Renderer errors are returned as is.
func (v *Viewer) Tick() error {
	if v.closed {
		return ErrClosed
	}
	v.drainExports()
	return v.sched.Tick()
}

// ForceRender draws immediately, e.g. before taking a snapshot.
func (v *Viewer) ForceRender() error {
	if v.closed {
		return ErrClosed
	}
	return v.sched.ForceRender()
}

// Listen subscribes fn to the events the viewer forwards.
func (v *Viewer) Listen(fn func(Event)) *event.Subscription {
	return v.listeners.Subscribe(fn)
}

// Close releases every subscription, deactivates input and disposes every
// proxy. The viewer cannot be used afterwards.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.subs.Release()
	v.drag.Deactivate()
	v.orbit.SetEnabled(false)
	v.enabled = false
	v.sched.SetEnabled(false)
	v.sel.setEnabled(false)
	v.proxies.Clear()
	close(v.done)
	v.closed = true
	v.log.Log("viewer: closed")
}

// State returns the selection state.
func (v *Viewer) State() State { return v.sel.State() }

// Selected returns the selected or focused proxy, if any.
func (v *Viewer) Selected() Proxy { return v.sel.Current() }

func (v *Viewer) Camera() *Camera       { return v.cam }
func (v *Viewer) Graph() *scene.Graph   { return v.graph }
func (v *Viewer) Proxies() *ProxySet    { return v.proxies }
func (v *Viewer) NeedsRedraw() bool     { return v.sched.NeedsRedraw() }
func (v *Viewer) LastRender() time.Time { return v.sched.LastRender() }
func (v *Viewer) Draws() uint64         { return v.sched.Draws() }
func (v *Viewer) Options() viewerconfig.Options {
	return v.opts
}

// ProxyByNode returns the proxy owning the render graph node id, for picking.
func (v *Viewer) ProxyByNode(id uuid.UUID) (Proxy, bool) {
	return v.proxies.ByNode(id)
}
