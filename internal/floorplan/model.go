package floorplan

import (
	"fmt"

	"github.com/google/uuid"

	"floorplan-viewer/internal/event"
)

// ModelEventType enumerates room-item model notifications.
type ModelEventType int

const (
	ItemAdded ModelEventType = iota
	ItemRemoved
	ItemsLoaded
	ModeReset
)

func (t ModelEventType) String() string {
	switch t {
	case ItemAdded:
		return "item-added"
	case ItemRemoved:
		return "item-removed"
	case ItemsLoaded:
		return "items-loaded"
	case ModeReset:
		return "mode-reset"
	}
	return fmt.Sprintf("ModelEventType(%d)", int(t))
}

// ModelEvent is delivered to model subscribers. Item is set for
// ItemAdded and ItemRemoved.
type ModelEvent struct {
	Type ModelEventType
	Item *Item
}

// Model owns the floorplan and the list of placed items.
type Model struct {
	floorplan *Floorplan
	items     []*Item
	events    event.Dispatcher[ModelEvent]
}

// NewModel returns a model with an empty floorplan and no items.
func NewModel() *Model {
	return &Model{floorplan: New()}
}

// Floorplan returns the model's floorplan.
func (m *Model) Floorplan() *Floorplan { return m.floorplan }

// Items returns the placed items in placement order.
func (m *Model) Items() []*Item { return m.items }

// Subscribe registers fn for model events.
func (m *Model) Subscribe(fn func(ModelEvent)) *event.Subscription {
	return m.events.Subscribe(fn)
}

// AddItem places it and announces it. Items without an ID get one.
func (m *Model) AddItem(it *Item) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	m.items = append(m.items, it)
	m.events.Emit(ModelEvent{Type: ItemAdded, Item: it})
}

// RemoveItem removes it and announces the removal. Removing an item that is
// not placed still raises the event; subscribers treat it as a late removal.
func (m *Model) RemoveItem(it *Item) {
	for i, x := range m.items {
		if x == it {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			break
		}
	}
	m.events.Emit(ModelEvent{Type: ItemRemoved, Item: it})
}

// SetItems replaces every placed item and announces the reload.
func (m *Model) SetItems(items []*Item) {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
	}
	m.items = items
	m.events.Emit(ModelEvent{Type: ItemsLoaded})
}

// Reset empties the model for a new design and announces the mode reset.
// The floorplan is cleared without a rebuild notification.
func (m *Model) Reset() {
	m.items = nil
	m.floorplan.Clear()
	m.events.Emit(ModelEvent{Type: ModeReset})
}
