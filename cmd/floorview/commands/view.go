package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"floorplan-viewer/internal/floorplan"
	"floorplan-viewer/internal/gltf"
	"floorplan-viewer/internal/graphics"
	"floorplan-viewer/internal/planfile"
	"floorplan-viewer/internal/viewer"
)

func viewCmd() *cobra.Command {
	var (
		width, height int
		panel         int
		exportPath    string
		focus         string
		stats         bool
	)
	cmd := &cobra.Command{
		Use:   "view <plan>",
		Short: "Open a plan in the 3D viewport",
		Long: "Open a plan in the 3D viewport.\n\n" +
			"Left drag orbits or moves the picked item (shift rotates, alt rotates freely, ctrl lifts),\n" +
			"right drag pans, the wheel zooms. Press X to export the scene as glTF, F3 for stats.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := planfile.Resolve(cmd.Context(), args[0], cacheDir)
			if err != nil {
				return err
			}
			model := floorplan.NewModel()
			if err := model.LoadFile(path); err != nil {
				return err
			}
			log.Logf("view: loaded %s (%d rooms, %d items)", path, len(model.Floorplan().Rooms()), len(model.Items()))

			win := graphics.OpenWindow("floorview - "+filepath.Base(path), width, height)
			defer win.Close()
			win.SetOffset(panel, 0)
			meshes := graphics.NewMeshes()
			defer meshes.Unload()
			renderer := graphics.NewRenderer(meshes, opts.GridVisible)
			defer renderer.Unload()

			cam := viewer.NewCamera(opts.Camera)
			orbit := graphics.NewOrbit(cam, opts)
			drag := graphics.NewDrag(opts.CanMoveFixedItems)
			v, err := viewer.New(viewer.Deps{
				Camera:    cam,
				Model:     model,
				Floorplan: model.Floorplan(),
				Renderer:  renderer,
				Factory:   graphics.NewFactory(meshes),
				Drag:      drag,
				Orbit:     orbit,
				Size:      win,
				Exporter:  gltf.Exporter{},
				Log:       log,
			}, opts)
			if err != nil {
				return err
			}
			defer v.Close()
			drag.Attach(v)

			v.Listen(func(e viewer.Event) {
				switch e.Type {
				case viewer.EventExportReady:
					if e.Err != nil {
						log.Logf("view: export failed: %v", e.Err)
						return
					}
					if err := os.WriteFile(exportPath, e.Payload, 0o644); err != nil {
						log.Logf("view: write export: %v", err)
						return
					}
					log.Logf("view: exported %s (%d bytes)", exportPath, len(e.Payload))
				case viewer.EventItemMove:
					// Continuous; not worth a log line per frame.
				default:
					log.Logf("view: %s", e.Type)
				}
			})
			if err := v.Enable(); err != nil {
				return err
			}
			if focus != "" {
				if err := focusByName(v, model, focus); err != nil {
					log.Logf("view: focus %q: %v", focus, err)
				}
			}

			overlay := graphics.NewStats(v, stats)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			last := time.Now()
			frame := func() error {
				now := time.Now()
				elapsed := now.Sub(last)
				last = now

				v.Pause(rl.IsWindowMinimized())
				if rl.IsKeyPressed(rl.KeyF3) {
					overlay.Shown = !overlay.Shown
				}
				if rl.IsKeyPressed(rl.KeyX) {
					if err := v.ExportScene(ctx); err != nil {
						log.Logf("view: export: %v", err)
					}
				}
				left, top := win.Offset()
				w, h := win.ClientSize()
				drag.Update(v.Camera(), left, top, w, h)
				orbit.Update(elapsed)
				return v.Tick()
			}
			present := func() {
				renderer.Present(win.Offset())
				overlay.Draw()
			}
			if err := win.Run(frame, present); err != nil {
				return fmt.Errorf("view: %w", err)
			}
			log.Log("view: window closed")
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 1280, "window width")
	cmd.Flags().IntVar(&height, "height", 800, "window height")
	cmd.Flags().IntVar(&panel, "panel", 0, "width reserved left of the viewport")
	cmd.Flags().BoolVar(&stats, "stats", false, "show the diagnostics overlay (toggle with F3)")
	cmd.Flags().StringVar(&focus, "focus", "", "room or item to frame or select at start")
	cmd.Flags().StringVar(&exportPath, "export-to", "scene.gltf", "file written when exporting with X")
	return cmd
}

// focusByName frames the room or selects the item best matching name.
func focusByName(v *viewer.Viewer, model *floorplan.Model, name string) error {
	e, ok := model.Find(name)
	if !ok {
		return fmt.Errorf("%w: no room or item named like %q", viewer.ErrUnknownEntity, name)
	}
	kind, _ := viewer.KindOf(e)
	return v.FocusOn(kind, e)
}
