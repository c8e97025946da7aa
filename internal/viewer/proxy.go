package viewer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/scene"
)

var (
	// ErrDuplicateEntity is returned by ProxySet.Add when the entity already
	// has a proxy. The existing proxy is returned alongside it.
	ErrDuplicateEntity = errors.New("viewer: entity already has a proxy")
	// ErrOrphanProxyRemoval is returned by ProxySet.Remove for an entity
	// without a proxy. Late or repeated removals are expected; callers treat
	// it as a no-op.
	ErrOrphanProxyRemoval = errors.New("viewer: no proxy for entity")
	// ErrUnknownEntity is returned for entities the viewer cannot represent
	// or does not know about.
	ErrUnknownEntity = errors.New("viewer: unknown entity")
)

// Kind tags a proxy with the kind of entity it represents.
type Kind int

const (
	KindItem Kind = iota
	KindFloor
	KindWallEdge
	numKinds
)

var allKinds = []Kind{KindItem, KindFloor, KindWallEdge}

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindFloor:
		return "floor"
	case KindWallEdge:
		return "wall-edge"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf returns the proxy kind used for e.
func KindOf(e floorplan.Entity) (Kind, bool) {
	switch e.(type) {
	case *floorplan.Item:
		return KindItem, true
	case *floorplan.Room:
		return KindFloor, true
	case *floorplan.HalfEdge:
		return KindWallEdge, true
	}
	return 0, false
}

// Proxy is the 3D representation of one logical entity. Its node is attached
// to the render graph while the proxy is registered.
type Proxy interface {
	Kind() Kind
	Entity() floorplan.Entity
	Node() *scene.Node
	Selected() bool
	SetSelected(bool)
	// Dispose releases renderer-side resources held by the proxy.
	Dispose()
}

// ProxyFactory builds proxies for logical entities.
type ProxyFactory interface {
	NewItemProxy(*floorplan.Item) Proxy
	NewFloorProxy(*floorplan.Room) Proxy
	NewWallEdgeProxy(*floorplan.HalfEdge) Proxy
}

// ProxySet owns every live proxy, keyed by entity identity. It is the only
// place proxies are created, attached, disposed and detached.
type ProxySet struct {
	graph    *scene.Graph
	factory  ProxyFactory
	byEntity map[floorplan.Entity]Proxy
	byNode   map[uuid.UUID]Proxy
	order    [numKinds][]Proxy

	// removed is called after a proxy has been disposed and detached.
	removed func(Proxy)
}

// NewProxySet returns an empty set attaching nodes to g.
func NewProxySet(g *scene.Graph, f ProxyFactory) *ProxySet {
	return &ProxySet{
		graph:    g,
		factory:  f,
		byEntity: make(map[floorplan.Entity]Proxy),
		byNode:   make(map[uuid.UUID]Proxy),
	}
}

// Add builds and registers the proxy for e. If e already has one, that proxy
// is returned with ErrDuplicateEntity and nothing is built.
func (s *ProxySet) Add(e floorplan.Entity) (Proxy, error) {
	if p, ok := s.byEntity[e]; ok {
		return p, fmt.Errorf("%w: %s", ErrDuplicateEntity, e.EntityID())
	}
	var p Proxy
	switch e := e.(type) {
	case *floorplan.Item:
		p = s.factory.NewItemProxy(e)
	case *floorplan.Room:
		p = s.factory.NewFloorProxy(e)
	case *floorplan.HalfEdge:
		p = s.factory.NewWallEdgeProxy(e)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEntity, e)
	}
	s.byEntity[e] = p
	s.byNode[p.Node().ID] = p
	s.order[p.Kind()] = append(s.order[p.Kind()], p)
	s.graph.Attach(p.Node())
	return p, nil
}

// Remove disposes and detaches the proxy for e.
func (s *ProxySet) Remove(e floorplan.Entity) error {
	p, ok := s.byEntity[e]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrphanProxyRemoval, e.EntityID())
	}
	k := p.Kind()
	for i, q := range s.order[k] {
		if q == p {
			s.order[k] = append(s.order[k][:i:i], s.order[k][i+1:]...)
			break
		}
	}
	s.drop(p)
	return nil
}

// drop disposes p before detaching it; callers fix up order.
func (s *ProxySet) drop(p Proxy) {
	p.Dispose()
	s.graph.Detach(p.Node())
	delete(s.byEntity, p.Entity())
	delete(s.byNode, p.Node().ID)
	if s.removed != nil {
		s.removed(p)
	}
}

// Clear disposes every proxy of the given kinds, or of all kinds when none
// are given, and returns how many were removed.
func (s *ProxySet) Clear(kinds ...Kind) int {
	if len(kinds) == 0 {
		kinds = allKinds
	}
	n := 0
	for _, k := range kinds {
		ps := s.order[k]
		s.order[k] = nil
		for _, p := range ps {
			s.drop(p)
		}
		n += len(ps)
	}
	return n
}

// Find returns the proxy registered for e.
func (s *ProxySet) Find(e floorplan.Entity) (Proxy, bool) {
	p, ok := s.byEntity[e]
	return p, ok
}

// ByNode returns the proxy owning the graph node with the given ID.
func (s *ProxySet) ByNode(id uuid.UUID) (Proxy, bool) {
	p, ok := s.byNode[id]
	return p, ok
}

// Proxies returns the proxies of kind k in registration order.
func (s *ProxySet) Proxies(k Kind) []Proxy {
	out := make([]Proxy, len(s.order[k]))
	copy(out, s.order[k])
	return out
}

// Len returns the number of live proxies.
func (s *ProxySet) Len() int { return len(s.byEntity) }
