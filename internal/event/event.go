// Package event provides typed publish/subscribe dispatchers whose
// subscriptions are explicit handles that the subscriber releases on teardown.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is the handle returned by Subscribe. Release detaches the
// handler; it is safe to call more than once and on a nil handle.
type Subscription struct {
	id      uuid.UUID
	release func(uuid.UUID)
	once    sync.Once
}

// ID returns the identifier of the subscription.
func (s *Subscription) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// Release stops delivery to the subscribed handler.
func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.release(s.id) })
}

type handler[T any] struct {
	id uuid.UUID
	fn func(T)
}

// Dispatcher delivers values of type T to subscribed handlers in
// subscription order. Emit runs handlers on the caller's goroutine.
type Dispatcher[T any] struct {
	mu       sync.Mutex
	handlers []handler[T]
}

// Subscribe registers fn and returns its handle.
func (d *Dispatcher[T]) Subscribe(fn func(T)) *Subscription {
	id := uuid.New()
	d.mu.Lock()
	d.handlers = append(d.handlers, handler[T]{id: id, fn: fn})
	d.mu.Unlock()
	return &Subscription{id: id, release: d.remove}
}

func (d *Dispatcher[T]) remove(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, h := range d.handlers {
		if h.id == id {
			d.handlers = append(d.handlers[:i:i], d.handlers[i+1:]...)
			return
		}
	}
}

// Emit delivers v to every handler subscribed at the time of the call.
// Handlers released or added while emitting do not affect this delivery.
func (d *Dispatcher[T]) Emit(v T) {
	d.mu.Lock()
	hs := make([]handler[T], len(d.handlers))
	copy(hs, d.handlers)
	d.mu.Unlock()
	for _, h := range hs {
		h.fn(v)
	}
}

// Len returns the number of live subscriptions.
func (d *Dispatcher[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// Group collects subscriptions so they can be released together.
type Group struct {
	subs []*Subscription
}

// Add appends s to the group and returns it.
func (g *Group) Add(s *Subscription) *Subscription {
	g.subs = append(g.subs, s)
	return s
}

// Release releases every subscription in the group, newest first.
func (g *Group) Release() {
	for i := len(g.subs) - 1; i >= 0; i-- {
		g.subs[i].Release()
	}
	g.subs = nil
}

// Len returns the number of held subscriptions.
func (g *Group) Len() int { return len(g.subs) }
