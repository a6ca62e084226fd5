package dungeon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roomGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 2]}],
  "nodes": [
    {"name": "room", "translation": [1, 0, 0], "children": [1], "mesh": 0},
    {"name": "pillar", "translation": [0, 2, 0], "rotation": [0, 0.7071068, 0, 0.7071068], "mesh": 0},
    {"matrix": [2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 5, 6, 7, 1]}
  ],
  "meshes": [{"name": "wall", "primitives": []}]
}`

func writeGLTF(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadGLTFScene(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	assets := NewAssetServer()
	path := writeGLTF(t, roomGLTF)

	root, err := LoadGLTFScene(cmd, assets, path)
	require.NoError(t, err)
	app.FlushCommands()

	nodes := map[string]EntityId{}
	MakeQuery1[NameComponent](cmd).Map(func(eid EntityId, name *NameComponent) bool {
		nodes[name.Name] = eid
		return true
	})
	require.Len(t, nodes, 4)
	assert.Equal(t, root, nodes[path])

	assert.ElementsMatch(t, []EntityId{nodes["room"], unnamedNode(t, nodes)}, Children(cmd, root))
	assert.ElementsMatch(t, []EntityId{nodes["pillar"]}, Children(cmd, nodes["room"]))

	pos, rot := WorldPose(cmd, nodes["pillar"])
	vecNear(t, mgl32.Vec3{1, 2, 0}, pos)
	quatNear(t, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}), rot)

	scaled := mustLocal(cmd, unnamedNode(t, nodes))
	vecNear(t, mgl32.Vec3{5, 6, 7}, scaled.Position)
	vecNear(t, mgl32.Vec3{2, 2, 2}, scaled.Scale)
	quatNear(t, mgl32.QuatIdent(), scaled.Rotation)

	// one mesh asset shared by both nodes
	roomMesh, _ := GetComponent[MeshComponent](cmd, nodes["room"])
	pillarMesh, _ := GetComponent[MeshComponent](cmd, nodes["pillar"])
	assert.Equal(t, roomMesh.Mesh, pillarMesh.Mesh)
	mesh, ok := assets.Mesh(roomMesh.Mesh)
	require.True(t, ok)
	assert.Equal(t, MeshShapeImported, mesh.Shape)
	assert.Equal(t, path, mesh.Source)
}

func unnamedNode(t *testing.T, nodes map[string]EntityId) EntityId {
	t.Helper()
	for name, eid := range nodes {
		if strings.HasPrefix(name, "node-") {
			return eid
		}
	}
	require.Fail(t, "no unnamed node imported")
	return 0
}

func TestLoadGLTFScene_Errors(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	assets := NewAssetServer()

	_, err := LoadGLTFScene(cmd, assets, filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)

	_, err = LoadGLTFScene(cmd, assets, writeGLTF(t, `{"asset": {"version": "2.0"}}`))
	assert.ErrorIs(t, err, ErrEmptyScene)

	cyclic := `{
  "asset": {"version": "2.0"},
  "scenes": [{"nodes": [0]}],
  "nodes": [{"children": [1]}, {"children": [0]}]
}`
	_, err = LoadGLTFScene(cmd, assets, writeGLTF(t, cyclic))
	assert.ErrorIs(t, err, ErrHierarchyCycle)
}

func TestDecomposeMatrix_Mirror(t *testing.T) {
	m := [16]float64{-1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	local := decomposeMatrix(m)
	vecNear(t, mgl32.Vec3{-1, 1, 1}, local.Scale)
	quatNear(t, mgl32.QuatIdent(), local.Rotation)
}
