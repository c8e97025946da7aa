package viewer

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/logger"
)

// ModelSource is the authoritative list of placed items.
type ModelSource interface {
	Items() []*floorplan.Item
	Subscribe(func(floorplan.ModelEvent)) *event.Subscription
}

// FloorplanSource is the authoritative plan geometry.
type FloorplanSource interface {
	Corners() []*floorplan.Corner
	Rooms() []*floorplan.Room
	WallEdges() []*floorplan.HalfEdge
	Dimensions() rl.Vector3
	Center() rl.Vector3
	Subscribe(func(floorplan.FloorplanEvent)) *event.Subscription
}

// Synchronizer keeps the proxy set in step with the model and floorplan.
type Synchronizer struct {
	model   ModelSource
	plan    FloorplanSource
	proxies *ProxySet
	sel     *Selection
	framer  *Framer
	drag    DragControl
	dirty   func()
	log     *logger.Logger
}

// NewSynchronizer returns a Synchronizer; subscribe HandleModel and
// HandleFloorplan to the sources.
func NewSynchronizer(model ModelSource, plan FloorplanSource, proxies *ProxySet, sel *Selection, framer *Framer, drag DragControl, dirty func(), log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		model:   model,
		plan:    plan,
		proxies: proxies,
		sel:     sel,
		framer:  framer,
		drag:    drag,
		dirty:   dirty,
		log:     log,
	}
}

// HandleModel reacts to a model event.
func (s *Synchronizer) HandleModel(e floorplan.ModelEvent) {
	switch e.Type {
	case floorplan.ItemAdded:
		s.itemAdded(e.Item)
	case floorplan.ItemRemoved:
		s.itemRemoved(e.Item)
	case floorplan.ItemsLoaded:
		s.reloadItems()
	case floorplan.ModeReset:
		s.reset()
	}
}

// HandleFloorplan reacts to a floorplan event.
func (s *Synchronizer) HandleFloorplan(e floorplan.FloorplanEvent) {
	if e.Type == floorplan.RoomsRebuilt {
		s.rebuildRoomsAndWalls()
	}
}

// itemAdded registers the new item and makes it the selection. Registration
// is complete before the selection transition runs.
func (s *Synchronizer) itemAdded(it *floorplan.Item) {
	if it == nil {
		return
	}
	p, err := s.proxies.Add(it)
	switch {
	case errors.Is(err, ErrDuplicateEntity):
		s.log.Logf("sync: %v, reusing proxy", err)
	case err != nil:
		s.log.Logf("sync: add item: %v", err)
		return
	}
	s.dirty()
	s.sel.SelectItem(p)
}

func (s *Synchronizer) itemRemoved(it *floorplan.Item) {
	if it == nil {
		return
	}
	if err := s.proxies.Remove(it); err != nil {
		s.log.Logf("sync: remove item: %v", err)
		return
	}
	s.dirty()
}

func (s *Synchronizer) reloadItems() {
	n := s.proxies.Clear(KindItem)
	for _, it := range s.model.Items() {
		s.add(it)
	}
	s.log.Logf("sync: items reloaded (%d disposed, %d live)", n, len(s.proxies.Proxies(KindItem)))
	s.dirty()
}

func (s *Synchronizer) rebuildRoomsAndWalls() {
	s.proxies.Clear(KindFloor, KindWallEdge)
	for _, r := range s.plan.Rooms() {
		s.add(r)
	}
	for _, e := range s.plan.WallEdges() {
		s.add(e)
	}
	s.framer.FrameFloorplan(s.plan)
	s.log.Logf("sync: rooms rebuilt (%d floors, %d wall edges)",
		len(s.proxies.Proxies(KindFloor)), len(s.proxies.Proxies(KindWallEdge)))
	s.dirty()
}

// reset disposes every proxy. A mode reset is an edit-mode transition, but
// the proxies it drops still hold renderer resources.
func (s *Synchronizer) reset() {
	s.drag.SetSelected(nil)
	n := s.proxies.Clear()
	s.log.Logf("sync: mode reset (%d disposed)", n)
	s.dirty()
}

func (s *Synchronizer) add(e floorplan.Entity) {
	if _, err := s.proxies.Add(e); err != nil {
		s.log.Logf("sync: %v", err)
	}
}
