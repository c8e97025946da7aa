package graphics

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/scene"
	"floorplan-viewer/internal/viewer"
)

// Grid on the XZ plane, in plan units (cm).
const (
	gridExtent     = 2000
	gridMinorStep  = 50
	gridMajorStep  = 500
	gridMinorAlpha = 50
	gridMajorAlpha = 120
)

var errNoSize = errors.New("graphics: draw before SetSize")

// Renderer draws the render graph into an offscreen texture. Drawing only
// happens when the viewer's scheduler asks for it; Present shows the last
// frame every window frame.
type Renderer struct {
	meshes *Meshes
	target rl.RenderTexture2D
	loaded bool

	width, height int

	GridVisible bool
	Background  rl.Color
}

// NewRenderer returns a renderer drawing nodes with meshes.
func NewRenderer(meshes *Meshes, gridVisible bool) *Renderer {
	return &Renderer{
		meshes:      meshes,
		GridVisible: gridVisible,
		Background:  rl.NewColor(245, 245, 242, 255),
	}
}

// SetSize resizes the offscreen target. The texture is recreated on the next
// Draw.
func (r *Renderer) SetSize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.unloadTarget()
}

// Draw renders g from cam.
func (r *Renderer) Draw(g *scene.Graph, cam *viewer.Camera) error {
	if !rl.IsWindowReady() {
		return ErrContextLost
	}
	if !r.loaded {
		if r.width <= 0 || r.height <= 0 {
			return errNoSize
		}
		r.target = rl.LoadRenderTexture(int32(r.width), int32(r.height))
		if !rl.IsRenderTextureValid(r.target) {
			return fmt.Errorf("%w: render texture %dx%d", ErrContextLost, r.width, r.height)
		}
		r.loaded = true
	}

	rl.BeginTextureMode(r.target)
	rl.ClearBackground(r.Background)
	rl.BeginMode3D(cam.Camera3D)
	// Plan scale needs the viewer's near/far, not raylib's defaults.
	rl.SetMatrixProjection(cam.ProjectionMatrix)
	if r.GridVisible {
		drawGrid()
	}
	r.meshes.SetView(cam.Position)
	g.ForEach(func(n *scene.Node) bool {
		if !n.Hidden {
			r.meshes.Draw(n)
		}
		return true
	})
	rl.EndMode3D()
	rl.EndTextureMode()
	return nil
}

// Present draws the last rendered frame with its top-left corner at (x, y).
func (r *Renderer) Present(x, y int) {
	if !r.loaded {
		return
	}
	tex := r.target.Texture
	// Render textures are stored bottom-up.
	src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
	rl.DrawTextureRec(tex, src, rl.NewVector2(float32(x), float32(y)), rl.White)
}

// Unload frees the offscreen target and every mesh.
func (r *Renderer) Unload() {
	r.unloadTarget()
	r.meshes.Unload()
}

func (r *Renderer) unloadTarget() {
	if !r.loaded {
		return
	}
	rl.UnloadRenderTexture(r.target)
	r.loaded = false
}

func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(110, 110, 110, gridMajorAlpha)

	var start, end rl.Vector3
	for v := -gridExtent; v <= gridExtent; v += gridMinorStep {
		c := major
		if v%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(v), 0, -gridExtent
		end.X, end.Y, end.Z = float32(v), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(v)
		end.X, end.Y, end.Z = gridExtent, 0, float32(v)
		rl.DrawLine3D(start, end, c)
	}
}
