package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"floorplan-viewer/internal/scene"
)

type nodeMesh struct {
	mesh rl.Mesh
	size rl.Vector3
}

// Meshes owns the GPU box mesh of every drawn node plus one shared shaded
// material. Meshes are created on first Draw, after the GL context exists,
// and unloaded when the owning proxy is disposed.
type Meshes struct {
	meshes   map[uuid.UUID]nodeMesh
	mtl      rl.Material
	mtlReady bool
	locs     shadeLocs
	eye      rl.Vector3
}

// shadeLocs are the uniform locations of the shade shader, -1 when absent.
type shadeLocs struct {
	eye, sun, sky, ground int32
}

// NewMeshes returns an empty registry.
func NewMeshes() *Meshes {
	return &Meshes{meshes: make(map[uuid.UUID]nodeMesh)}
}

// SetView sets the eye position used for the rim term this frame.
func (m *Meshes) SetView(pos rl.Vector3) { m.eye = pos }

// Len returns the number of loaded meshes.
func (m *Meshes) Len() int { return len(m.meshes) }

func (m *Meshes) ensureMaterial() {
	if m.mtlReady {
		return
	}
	m.mtl = rl.LoadMaterialDefault()
	m.locs = shadeLocs{-1, -1, -1, -1}
	if sh := rl.LoadShaderFromMemory(shadeVS, shadeFS); rl.IsShaderValid(sh) {
		m.mtl.Shader = sh
		m.locs = shadeLocs{
			eye:    rl.GetShaderLocation(sh, "eye"),
			sun:    rl.GetShaderLocation(sh, "sunDir"),
			sky:    rl.GetShaderLocation(sh, "skyColor"),
			ground: rl.GetShaderLocation(sh, "groundColor"),
		}
		setVec3(sh, m.locs.sun, sunDir)
		setVec3(sh, m.locs.sky, skyColor)
		setVec3(sh, m.locs.ground, groundColor)
	}
	m.mtlReady = true
}

// ensure returns the mesh for n, regenerating it when the node was resized.
func (m *Meshes) ensure(n *scene.Node) rl.Mesh {
	if nm, ok := m.meshes[n.ID]; ok {
		if nm.size == n.Size {
			return nm.mesh
		}
		rl.UnloadMesh(&nm.mesh)
	}
	mesh := rl.GenMeshCube(max(n.Size.X, 1), max(n.Size.Y, 1), max(n.Size.Z, 1))
	m.meshes[n.ID] = nodeMesh{mesh: mesh, size: n.Size}
	return mesh
}

// Draw draws n. Must be called between BeginMode3D and EndMode3D.
func (m *Meshes) Draw(n *scene.Node) {
	m.ensureMaterial()
	mesh := m.ensure(n)
	if albedo := m.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = n.Color
	}
	setVec3(m.mtl.Shader, m.locs.eye, m.eye)
	transform := rl.MatrixMultiply(rl.MatrixRotateY(n.Rotation), rl.MatrixTranslate(n.Position.X, n.Position.Y, n.Position.Z))
	rl.DrawMesh(mesh, m.mtl, transform)
}

// Release unloads the mesh of node id, if it was ever drawn.
func (m *Meshes) Release(id uuid.UUID) {
	nm, ok := m.meshes[id]
	if !ok {
		return
	}
	rl.UnloadMesh(&nm.mesh)
	delete(m.meshes, id)
}

// Unload releases every mesh and the shared material.
func (m *Meshes) Unload() {
	for id := range m.meshes {
		m.Release(id)
	}
	if m.mtlReady {
		rl.UnloadMaterial(m.mtl)
		m.mtlReady = false
	}
}

// Interior lighting: a soft sky/ground hemisphere plus one key light.
var (
	sunDir      = rl.NewVector3(0.35, 1, 0.25)
	skyColor    = rl.NewVector3(0.95, 0.95, 1.0)
	groundColor = rl.NewVector3(0.45, 0.42, 0.40)
)

func setVec3(sh rl.Shader, loc int32, v rl.Vector3) {
	if loc < 0 {
		return
	}
	rl.SetShaderValue(sh, loc, []float32{v.X, v.Y, v.Z}, rl.ShaderUniformVec3)
}

const (
	shadeVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 worldPos;
out vec3 worldNormal;
void main() {
  worldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
  worldNormal = normalize(mat3(matModel) * vertexNormal);
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	shadeFS = `#version 330
in vec3 worldPos;
in vec3 worldNormal;
uniform vec4 colDiffuse;
uniform vec3 eye;
uniform vec3 sunDir;
uniform vec3 skyColor;
uniform vec3 groundColor;
out vec4 finalColor;
void main() {
  vec3 n = normalize(worldNormal);
  vec3 hemi = mix(groundColor, skyColor, 0.5 + 0.5 * n.y);
  float key = 0.45 * max(dot(n, normalize(sunDir)), 0.0);
  float rim = 0.08 * pow(1.0 - max(dot(n, normalize(eye - worldPos)), 0.0), 3.0);
  vec3 c = colDiffuse.rgb * (0.6 * hemi + key) + rim;
  finalColor = vec4(c, colDiffuse.a);
}
`
)
