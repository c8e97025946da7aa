package viewer

import (
	"context"

	"floorplan-viewer/internal/scene"
)

// Exporter encodes a scene snapshot, e.g. as glTF. It runs off the event
// goroutine and must only read the snapshot it is given.
type Exporter interface {
	Export(ctx context.Context, nodes []scene.Node) ([]byte, error)
}

type exportResult struct {
	payload []byte
	err     error
}

// ExportScene snapshots the render graph and encodes it in the background.
// The result is delivered to listeners as an export-ready event from a later
// Tick, on the goroutine that calls Tick.
func (v *Viewer) ExportScene(ctx context.Context) error {
	if v.closed {
		return ErrClosed
	}
	if v.exporter == nil {
		return ErrNoExporter
	}
	snap := v.graph.Snapshot()
	exp := v.exporter
	v.pending++
	go func() {
		payload, err := exp.Export(ctx, snap)
		select {
		case v.exports <- exportResult{payload: payload, err: err}:
		case <-v.done:
		}
	}()
	return nil
}

// PendingExports returns the number of exports not yet delivered.
func (v *Viewer) PendingExports() int { return v.pending }

// drainExports delivers finished exports to listeners.
func (v *Viewer) drainExports() {
	for {
		select {
		case r := <-v.exports:
			v.pending--
			if r.err != nil {
				v.log.Logf("export: %v", r.err)
			} else {
				v.log.Logf("export: %d bytes", len(r.payload))
			}
			v.listeners.Emit(Event{Type: EventExportReady, Payload: r.payload, Err: r.err})
		default:
			return
		}
	}
}
