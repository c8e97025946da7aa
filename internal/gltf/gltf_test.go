package gltf

import (
	"bytes"
	"context"
	"encoding/base64"
	"math"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"

	"floorplan-viewer/internal/scene"
)

func testNodes() []scene.Node {
	sofa := scene.NewNode("Sofa", "item")
	sofa.Position = rl.NewVector3(100, 40, -20)
	sofa.Size = rl.NewVector3(200, 80, 90)
	sofa.Rotation = math.Pi / 2
	sofa.Selected = true

	floor := scene.NewNode("Kitchen", "floor")
	floor.Color = rl.NewColor(200, 180, 160, 255)

	hidden := scene.NewNode("Lamp", "item")
	hidden.Hidden = true

	chair := scene.NewNode("Chair", "item")
	return []scene.Node{*sofa, *floor, *hidden, *chair}
}

func TestBuild(t *testing.T) {
	nodes := testNodes()
	doc, err := Build(context.Background(), nodes)
	require.NoError(t, err)

	require.Equal(t, "2.0", doc.Asset.Version)
	require.Len(t, doc.Nodes, 3)
	require.Equal(t, []int64{0, 1, 2}, doc.Scenes[*doc.Scene].Nodes)
	// Sofa and chair share the default color.
	require.Len(t, doc.Meshes, 2)
	require.Len(t, doc.Materials, 2)
	require.Equal(t, *doc.Nodes[0].Mesh, *doc.Nodes[2].Mesh)

	sofa := doc.Nodes[0]
	require.Equal(t, "Sofa", sofa.Name)
	require.Equal(t, [3]float32{100, 40, -20}, *sofa.Translation)
	require.Equal(t, [3]float32{200, 80, 90}, *sofa.Scale)
	require.InDelta(t, math.Sqrt2/2, sofa.Rotation[1], 1e-6)
	require.InDelta(t, math.Sqrt2/2, sofa.Rotation[3], 1e-6)
	extras := sofa.Extras.(map[string]any)
	require.Equal(t, nodes[0].ID.String(), extras["id"])
	require.Equal(t, true, extras["selected"])

	floorColor := doc.Materials[*doc.Meshes[*doc.Nodes[1].Mesh].Primitives[0].Material]
	require.InDelta(t, 200.0/255, floorColor.PBRMetallicRoughness.BaseColorFactor[0], 1e-6)
}

func TestBoxBuffer(t *testing.T) {
	doc, err := Build(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, doc.Nodes)

	b := doc.Buffers[0]
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(b.URI, "data:application/octet-stream;base64,"))
	require.NoError(t, err)
	require.Len(t, data, int(b.ByteLength))
	require.Equal(t, int64(8*12), doc.BufferViews[0].ByteLength)
	require.Equal(t, int64(36*2), doc.BufferViews[1].ByteLength)
	require.Equal(t, doc.BufferViews[0].ByteLength, doc.BufferViews[1].ByteOffset)
}

func TestExportRoundTrip(t *testing.T) {
	out, err := Exporter{Indent: true}.Export(context.Background(), testNodes())
	require.NoError(t, err)
	require.Contains(t, string(out), "\n  \"accessors\"")

	doc, err := Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, Generator, doc.Asset.Generator)
	require.Len(t, doc.Nodes, 3)
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Exporter{}.Export(ctx, testNodes())
	require.ErrorIs(t, err, context.Canceled)
}
