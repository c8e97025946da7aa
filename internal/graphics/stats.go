package graphics

import (
	"fmt"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/viewer"
)

const (
	statsFontSize   = 20
	statsPadding    = 12
	statsLineHeight = statsFontSize + 4
	// Text is rebuilt every statsInterval frames to limit allocations.
	statsInterval = 30
)

// StatsSource is what the stats overlay reports on.
type StatsSource interface {
	State() viewer.State
	Draws() uint64
	LastRender() time.Time
}

// Stats draws a diagnostics overlay in the top-right corner of the window:
// FPS, heap use, viewer draws and how long ago the last one happened.
type Stats struct {
	src   StatsSource
	Shown bool

	frame uint32
	text  []string
	mem   runtime.MemStats
}

func NewStats(src StatsSource, shown bool) *Stats {
	return &Stats{src: src, Shown: shown}
}

// lines formats the overlay. fps and heap are passed in so tests need no
// window.
func (s *Stats) lines(now time.Time, fps int32, heap uint64) []string {
	last := "never"
	if t := s.src.LastRender(); !t.IsZero() {
		last = fmt.Sprintf("%.1fs ago", now.Sub(t).Seconds())
	}
	return []string{
		fmt.Sprintf("FPS: %d", fps),
		fmt.Sprintf("Mem: %.2f MiB", float64(heap)/(1024*1024)),
		fmt.Sprintf("Draws: %d (last %s)", s.src.Draws(), last),
		fmt.Sprintf("State: %s", s.src.State()),
	}
}

// Draw renders the overlay when shown. Call between BeginDrawing and
// EndDrawing, after the frame is presented.
func (s *Stats) Draw() {
	if !s.Shown {
		return
	}
	s.frame++
	if s.text == nil || s.frame%statsInterval == 0 {
		runtime.ReadMemStats(&s.mem)
		s.text = s.lines(time.Now(), rl.GetFPS(), s.mem.Alloc)
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(statsPadding)
	for _, line := range s.text {
		w := rl.MeasureText(line, statsFontSize)
		rl.DrawText(line, screenW-w-statsPadding, y, statsFontSize, rl.DarkGreen)
		y += statsLineHeight
	}
}
