package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/event"
	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/logger"
)

// State is what the viewer is currently selecting or manipulating.
type State int

const (
	StateNone State = iota
	StateItemSelected
	StateWallFocused
	StateRoomFocused
	StateDragging
	StateRotating
	StateRotatingFree
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateItemSelected:
		return "item-selected"
	case StateWallFocused:
		return "wall-focused"
	case StateRoomFocused:
		return "room-focused"
	case StateDragging:
		return "dragging"
	case StateRotating:
		return "rotating"
	case StateRotatingFree:
		return "rotating-free"
	case StatePanning:
		return "panning"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// manipulating reports whether s is one of the in-progress item motions.
func (s State) manipulating() bool {
	return s >= StateDragging
}

// EventType identifies pointer-driven and viewer events.
type EventType int

const (
	EventItemSelected EventType = iota
	EventItemMove
	EventItemMoveFinish
	EventNoItemSelected
	EventWallClicked
	EventRoomClicked
	EventExportReady
)

func (t EventType) String() string {
	switch t {
	case EventItemSelected:
		return "item-selected"
	case EventItemMove:
		return "item-move"
	case EventItemMoveFinish:
		return "item-move-finish"
	case EventNoItemSelected:
		return "no-item-selected"
	case EventWallClicked:
		return "wall-clicked"
	case EventRoomClicked:
		return "room-clicked"
	case EventExportReady:
		return "export-ready"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Motion is the kind of manipulation carried by an item-move event.
type Motion int

const (
	MotionTranslate Motion = iota
	MotionRotate
	MotionRotateFree
	MotionPan
)

func (m Motion) state() State {
	switch m {
	case MotionRotate:
		return StateRotating
	case MotionRotateFree:
		return StateRotatingFree
	case MotionPan:
		return StatePanning
	}
	return StateDragging
}

// Event is consumed from the drag control and forwarded to listeners.
// Fields beyond Type are set according to Type.
type Event struct {
	Type EventType

	Item      Proxy                   // item-selected, item-move, item-move-finish
	ItemModel *floorplan.ItemMetadata // item-selected, filled in by the viewer
	Motion    Motion                  // item-move

	Edge   *floorplan.HalfEdge // wall-clicked
	Normal rl.Vector3          // wall-clicked
	Room   *floorplan.Room     // room-clicked

	Payload []byte // export-ready
	Err     error  // export-ready
}

// DragControl turns raw pointer input into selection and drag events.
type DragControl interface {
	Activate()
	Deactivate()
	// SetSelected tells the control which item proxy is selected; nil clears it.
	SetSelected(Proxy)
	Subscribe(func(Event)) *event.Subscription
}

// Selection is the interaction state machine. At most one proxy carries the
// selected flag: every flag change goes through mark.
type Selection struct {
	state   State
	current Proxy
	enabled bool

	proxies *ProxySet
	drag    DragControl
	orbit   OrbitControl
	framer  *Framer
	dirty   func()
	emit    func(Event)
	log     *logger.Logger
}

// NewSelection returns a state machine in StateNone.
func NewSelection(proxies *ProxySet, drag DragControl, orbit OrbitControl, framer *Framer, dirty func(), emit func(Event), log *logger.Logger) *Selection {
	return &Selection{
		proxies: proxies,
		drag:    drag,
		orbit:   orbit,
		framer:  framer,
		dirty:   dirty,
		emit:    emit,
		log:     log,
	}
}

// State returns the current state.
func (s *Selection) State() State { return s.state }

// Current returns the selected item proxy or focused wall/floor proxy.
func (s *Selection) Current() Proxy { return s.current }

// mark moves the selected flag from the current proxy to p.
func (s *Selection) mark(p Proxy) {
	if s.current != nil && s.current != p {
		s.current.SetSelected(false)
	}
	s.current = p
	if p != nil {
		p.SetSelected(true)
	}
}

// setOrbit enables orbit input only while the viewer is enabled.
func (s *Selection) setOrbit(on bool) {
	s.orbit.SetEnabled(on && s.enabled)
}

// Handle applies e and then forwards it to listeners.
func (s *Selection) Handle(e Event) {
	switch e.Type {
	case EventItemSelected:
		if e.Item == nil {
			return
		}
		s.orbit.SetEnabled(false)
		s.mark(e.Item)
		s.state = StateItemSelected
		if it, ok := e.Item.Entity().(*floorplan.Item); ok && it.Metadata != nil {
			e.ItemModel = it.Metadata
		}
		s.dirty()

	case EventItemMove:
		if e.Item != nil && e.Item != s.current {
			s.mark(e.Item)
		}
		if s.current == nil {
			return
		}
		s.orbit.SetEnabled(false)
		s.state = e.Motion.state()
		s.dirty()

	case EventItemMoveFinish:
		if s.state.manipulating() {
			s.state = StateItemSelected
		}
		s.setOrbit(true)

	case EventNoItemSelected:
		s.setOrbit(true)
		if s.current != nil {
			s.drag.SetSelected(nil)
			s.mark(nil)
			s.dirty()
		}
		s.state = StateNone

	case EventWallClicked:
		if e.Edge == nil {
			return
		}
		s.focus(e.Edge, StateWallFocused)
		s.framer.FocusWall(e.Edge, e.Normal)

	case EventRoomClicked:
		if e.Room == nil {
			return
		}
		s.focus(e.Room, StateRoomFocused)
		s.framer.FocusRoom(e.Room)

	default:
		return
	}
	s.log.Logf("selection: %s -> %s", e.Type, s.state)
	s.emit(e)
}

// focus clears any item selection and flags the proxy of a wall side or room.
func (s *Selection) focus(ent floorplan.Entity, st State) {
	if s.current != nil && s.current.Kind() == KindItem {
		s.drag.SetSelected(nil)
	}
	p, _ := s.proxies.Find(ent)
	s.mark(p)
	s.state = st
	s.setOrbit(true)
}

// SelectItem makes p the selected item as if the pointer had picked it.
func (s *Selection) SelectItem(p Proxy) {
	s.drag.SetSelected(p)
	s.Handle(Event{Type: EventItemSelected, Item: p})
}

// invalidate drops the selection if p, which is being removed, holds it.
func (s *Selection) invalidate(p Proxy) {
	if p != s.current {
		return
	}
	p.SetSelected(false)
	s.current = nil
	s.state = StateNone
	s.drag.SetSelected(nil)
	s.setOrbit(true)
	s.dirty()
}

// setEnabled records whether the viewer is enabled. Disabling aborts any
// in-progress manipulation: the drag control is already inactive and will
// not report the finish.
func (s *Selection) setEnabled(on bool) {
	s.enabled = on
	if !on && s.state.manipulating() {
		s.state = StateItemSelected
		s.dirty()
	}
}
