// Package gltf implements the subset of glTF 2.0 serialization the viewer
// exports: nodes, box meshes, flat materials and a perspective camera.
package gltf

import (
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	Accessors   []Accessor   `json:"accessors,omitempty"`
	Asset       Asset        `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Cameras     []Camera     `json:"cameras,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Scene       *int64       `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Extras      any          `json:"extras,omitempty"`
}

// glTF.asset.
type Asset struct {
	Generator string `json:"generator,omitempty"`
	Version   string `json:"version"`
}

// glTF.accessors' element.
type Accessor struct {
	BufferView    *int64    `json:"bufferView,omitempty"`
	ByteOffset    int64     `json:"byteOffset,omitempty"`
	ComponentType int64     `json:"componentType"`
	Count         int64     `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Name          string    `json:"name,omitempty"`
}

// accessor.componentType values.
const (
	UNSIGNED_SHORT = 5123
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC3   = "VEC3"
)

// glTF.buffers' element.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64  `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Target     int64  `json:"target,omitempty"` // 0 for no hint.
	Name       string `json:"name,omitempty"`
}

// bufferView.target values.
const (
	ARRAY_BUFFER = iota + 34962
	ELEMENT_ARRAY_BUFFER
)

// glTF.cameras' element.
type Camera struct {
	Perspective *Perspective `json:"perspective,omitempty"`
	Type        string       `json:"type"`
	Name        string       `json:"name,omitempty"`
}

// camera.perspective.
type Perspective struct {
	AspectRatio float32 `json:"aspectRatio,omitempty"`
	YFOV        float32 `json:"yfov"`
	Zfar        float32 `json:"zfar,omitempty"` // 0 for infinite perspective.
	Znear       float32 `json:"znear"`
}

// camera.type values.
const Tperspective = "perspective"

// glTF.materials' element.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	AlphaMode            string                `json:"alphaMode,omitempty"` // Default is "OPAQUE".
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Name                 string                `json:"name,omitempty"`
}

// material.pbrMetallicRoughness.
type PBRMetallicRoughness struct {
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"` // Default is [1, 1, 1, 1].
	MetallicFactor  *float32    `json:"metallicFactor,omitempty"`  // Default is 1.
	RoughnessFactor *float32    `json:"roughnessFactor,omitempty"` // Default is 1.
}

// material.alphaMode values.
const (
	OPAQUE = "OPAQUE"
	BLEND  = "BLEND"
)

// glTF.meshes' element.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Name       string      `json:"name,omitempty"`
}

// mesh.primitives' element.
type Primitive struct {
	Attributes map[string]int64 `json:"attributes"`
	Indices    *int64           `json:"indices,omitempty"`
	Material   *int64           `json:"material,omitempty"`
	Mode       *int64           `json:"mode,omitempty"` // Default is 4.
}

// glTF.nodes' element.
type Node struct {
	Camera      *int64      `json:"camera,omitempty"`
	Children    []int64     `json:"children,omitempty"`
	Mesh        *int64      `json:"mesh,omitempty"`
	Rotation    *[4]float32 `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *[3]float32 `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *[3]float32 `json:"translation,omitempty"` // Default is [0, 0, 0].
	Name        string      `json:"name,omitempty"`
	Extras      any         `json:"extras,omitempty"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes []int64 `json:"nodes,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// Encode encodes gltf into w.
func Encode(w io.Writer, gltf *GLTF) error {
	enc := json.NewEncoder(w)
	err := enc.Encode(gltf)
	if err != nil {
		return err
	}
	return nil
}

// Decode decodes r into a new GLTF instance.
func Decode(r io.Reader) (*GLTF, error) {
	var gltf GLTF
	dec := json.NewDecoder(r)
	err := dec.Decode(&gltf)
	if err != nil {
		return nil, err
	}
	return &gltf, nil
}
