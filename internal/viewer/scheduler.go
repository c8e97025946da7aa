package viewer

import (
	"time"

	"floorplan-viewer/internal/scene"
)

// Renderer draws the graph from the camera. Draw errors, such as a lost
// graphics context, are not recoverable by the viewer and are passed through.
type Renderer interface {
	Draw(g *scene.Graph, cam *Camera) error
	SetSize(width, height int)
}

// Scheduler issues draws on demand: a tick only draws when something marked
// the frame dirty since the last draw.
type Scheduler struct {
	renderer Renderer
	graph    *scene.Graph
	cam      *Camera
	now      func() time.Time

	enabled     bool
	paused      bool
	needsRedraw bool
	lastRender  time.Time
	draws       uint64
}

// NewScheduler returns a disabled scheduler with a dirty frame pending.
func NewScheduler(r Renderer, g *scene.Graph, cam *Camera, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{renderer: r, graph: g, cam: cam, now: now, needsRedraw: true}
}

// MarkDirty requests a draw on the next tick.
func (s *Scheduler) MarkDirty() { s.needsRedraw = true }

// NeedsRedraw reports whether a draw is pending.
func (s *Scheduler) NeedsRedraw() bool { return s.needsRedraw }

// SetEnabled turns drawing on or off.
func (s *Scheduler) SetEnabled(on bool) { s.enabled = on }

// Pause suspends drawing while flag is set. Dirty state is kept; resuming
// marks the frame dirty so the first tick after shows the current state.
func (s *Scheduler) Pause(flag bool) {
	if s.paused && !flag {
		s.needsRedraw = true
	}
	s.paused = flag
}

// Paused reports whether drawing is suspended.
func (s *Scheduler) Paused() bool { return s.paused }

// Tick runs once per animation frame.
func (s *Scheduler) Tick() error {
	if !s.enabled || s.paused || !s.needsRedraw {
		return nil
	}
	if err := s.draw(); err != nil {
		return err
	}
	s.needsRedraw = false
	return nil
}

// ForceRender draws now regardless of the dirty flag, leaving the flag as is.
func (s *Scheduler) ForceRender() error {
	return s.draw()
}

func (s *Scheduler) draw() error {
	if err := s.renderer.Draw(s.graph, s.cam); err != nil {
		return err
	}
	s.lastRender = s.now()
	s.draws++
	return nil
}

// LastRender returns when the last draw completed.
func (s *Scheduler) LastRender() time.Time { return s.lastRender }

// Draws returns the number of completed draws.
func (s *Scheduler) Draws() uint64 { return s.draws }
