package gltf

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"floorplan-viewer/internal/scene"
)

// Generator is written to asset.generator.
const Generator = "floorview"

// Unit box centered at the origin. Nodes scale it to their size.
var (
	boxPositions = [8][3]float32{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	boxIndices = [36]uint16{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 7, 6, 3, 6, 2, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}
)

// Exporter encodes scene snapshots as glTF JSON with an embedded buffer.
type Exporter struct {
	// Indent pretty-prints the output when set.
	Indent bool
}

// Export encodes nodes. Hidden nodes are skipped.
func (e Exporter) Export(ctx context.Context, nodes []scene.Node) ([]byte, error) {
	doc, err := Build(ctx, nodes)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, fmt.Errorf("gltf: encode: %w", err)
	}
	if !e.Indent {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("gltf: indent: %w", err)
	}
	return out.Bytes(), nil
}

// Build returns the glTF document for nodes. Each node becomes a glTF node
// instancing the shared unit box with a material for its color.
func Build(ctx context.Context, nodes []scene.Node) (*GLTF, error) {
	doc := &GLTF{Asset: Asset{Generator: Generator, Version: "2.0"}}
	addBoxBuffer(doc)

	meshes := make(map[rl.Color]int64)
	var roots []int64
	for i := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := &nodes[i]
		if n.Hidden {
			continue
		}
		mesh, ok := meshes[n.Color]
		if !ok {
			mesh = addColoredBox(doc, n.Color)
			meshes[n.Color] = mesh
		}
		q := rl.QuaternionFromAxisAngle(rl.NewVector3(0, 1, 0), n.Rotation)
		doc.Nodes = append(doc.Nodes, Node{
			Mesh:        &mesh,
			Rotation:    &[4]float32{q.X, q.Y, q.Z, q.W},
			Scale:       &[3]float32{n.Size.X, n.Size.Y, n.Size.Z},
			Translation: &[3]float32{n.Position.X, n.Position.Y, n.Position.Z},
			Name:        n.Name,
			Extras: map[string]any{
				"id":       n.ID.String(),
				"tag":      n.Tag,
				"selected": n.Selected,
			},
		})
		roots = append(roots, int64(len(doc.Nodes)-1))
	}

	var sc int64
	doc.Scene = &sc
	doc.Scenes = []Scene{{Nodes: roots, Name: "floorplan"}}
	return doc, nil
}

func addBoxBuffer(doc *GLTF) {
	var data bytes.Buffer
	// bytes.Buffer writes do not fail.
	_ = binary.Write(&data, binary.LittleEndian, boxPositions)
	posLen := int64(data.Len())
	_ = binary.Write(&data, binary.LittleEndian, boxIndices)
	idxLen := int64(data.Len()) - posLen

	doc.Buffers = []Buffer{{
		URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(data.Bytes()),
		ByteLength: int64(data.Len()),
	}}
	doc.BufferViews = []BufferView{
		{Buffer: 0, ByteLength: posLen, Target: ARRAY_BUFFER, Name: "positions"},
		{Buffer: 0, ByteOffset: posLen, ByteLength: idxLen, Target: ELEMENT_ARRAY_BUFFER, Name: "indices"},
	}
	pos, idx := int64(0), int64(1)
	doc.Accessors = []Accessor{
		{BufferView: &pos, ComponentType: FLOAT, Count: int64(len(boxPositions)), Type: VEC3,
			Min: []float32{-0.5, -0.5, -0.5}, Max: []float32{0.5, 0.5, 0.5}},
		{BufferView: &idx, ComponentType: UNSIGNED_SHORT, Count: int64(len(boxIndices)), Type: SCALAR},
	}
}

func addColoredBox(doc *GLTF, c rl.Color) int64 {
	mat := int64(len(doc.Materials))
	rough := float32(1)
	metal := float32(0)
	m := Material{
		PBRMetallicRoughness: &PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{
				float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255,
			},
			MetallicFactor:  &metal,
			RoughnessFactor: &rough,
		},
		Name: fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A),
	}
	if c.A < 255 {
		m.AlphaMode = BLEND
	}
	doc.Materials = append(doc.Materials, m)

	indices := int64(1)
	doc.Meshes = append(doc.Meshes, Mesh{
		Primitives: []Primitive{{
			Attributes: map[string]int64{"POSITION": 0},
			Indices:    &indices,
			Material:   &mat,
		}},
		Name: "box" + m.Name,
	})
	return int64(len(doc.Meshes) - 1)
}
