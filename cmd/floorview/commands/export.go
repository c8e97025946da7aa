package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/gltf"
	"floorplan-viewer/internal/graphics"
	"floorplan-viewer/internal/planfile"
	"floorplan-viewer/internal/viewer"
)

func exportCmd() *cobra.Command {
	var (
		out     string
		indent  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export <plan>",
		Short: "Write the plan's 3D scene as glTF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := planfile.Resolve(cmd.Context(), args[0], cacheDir)
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".gltf"
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			payload, err := exportPlan(ctx, path, gltf.Exporter{Indent: indent})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return err
			}
			log.Logf("export: %s -> %s (%d bytes)", path, out, len(payload))
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <plan>.gltf)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

// newHeadlessViewer builds a viewer over model that never opens a window.
func newHeadlessViewer(model *floorplan.Model, exp viewer.Exporter) (*viewer.Viewer, error) {
	h := &headless{width: 1280, height: 800}
	return viewer.New(viewer.Deps{
		Model:     model,
		Floorplan: model.Floorplan(),
		Renderer:  h,
		Factory:   graphics.NewFactory(nil),
		Drag:      headlessDrag{h},
		Orbit:     headlessOrbit{h},
		Size:      h,
		Exporter:  exp,
		Log:       log,
	}, opts)
}

// exportPlan runs a headless viewer over the plan at path and returns what
// exp produced for its scene.
func exportPlan(ctx context.Context, path string, exp viewer.Exporter) ([]byte, error) {
	model := floorplan.NewModel()
	if err := model.LoadFile(path); err != nil {
		return nil, err
	}
	v, err := newHeadlessViewer(model, exp)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	var (
		payload []byte
		done    bool
		expErr  error
	)
	v.Listen(func(e viewer.Event) {
		if e.Type == viewer.EventExportReady {
			payload, expErr, done = e.Payload, e.Err, true
		}
	})
	if err := v.Enable(); err != nil {
		return nil, err
	}
	if err := v.ExportScene(ctx); err != nil {
		return nil, err
	}
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for !done {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("export: %w", ctx.Err())
		case <-tick.C:
			if err := v.Tick(); err != nil {
				return nil, err
			}
		}
	}
	if expErr != nil {
		return nil, fmt.Errorf("export: %w", expErr)
	}
	return payload, nil
}
