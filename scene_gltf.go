package dungeon

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
)

var ErrEmptyScene = errors.New("gltf document has no scene")

// NameComponent carries the node name of imported geometry.
type NameComponent struct {
	Name string
}

// LoadGLTFScene spawns the node tree of the default scene of a glTF file under
// a new root node and returns the root. Meshes are registered with assets by
// reference; nothing is decoded from the buffers.
func LoadGLTFScene(cmd *Commands, assets *AssetServer, path string) (EntityId, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open gltf %s: %w", path, err)
	}

	roots, err := gltfSceneRoots(doc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	imp := gltfImporter{
		cmd:     cmd,
		assets:  assets,
		doc:     doc,
		source:  path,
		meshes:  make(map[int]AssetId),
		visited: make(map[int]bool),
	}

	root := cmd.AddEntity(
		NewLocalTransform(mgl32.Vec3{}, mgl32.QuatIdent()),
		TransformComponent{},
		NameComponent{Name: path},
	)
	for _, idx := range roots {
		if err := imp.spawn(idx, root); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	cmd.Logger().Infof("scene %s: %d nodes, %d meshes", path, len(imp.visited), len(imp.meshes))
	return root, nil
}

func gltfSceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrEmptyScene
	}
	scene := 0
	if doc.Scene != nil {
		scene = *doc.Scene
	}
	if scene < 0 || scene >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", scene)
	}
	return doc.Scenes[scene].Nodes, nil
}

type gltfImporter struct {
	cmd     *Commands
	assets  *AssetServer
	doc     *gltf.Document
	source  string
	meshes  map[int]AssetId
	visited map[int]bool
}

func (imp *gltfImporter) spawn(idx int, parent EntityId) error {
	if idx < 0 || idx >= len(imp.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if imp.visited[idx] {
		return fmt.Errorf("node %d: %w", idx, ErrHierarchyCycle)
	}
	imp.visited[idx] = true

	node := imp.doc.Nodes[idx]
	name := node.Name
	if name == "" {
		name = "node-" + uuid.NewString()
	}

	comps := []any{
		gltfLocalTransform(node),
		TransformComponent{},
		Parent{Entity: parent},
		NameComponent{Name: name},
	}
	if node.Mesh != nil {
		comps = append(comps, MeshComponent{Mesh: imp.mesh(*node.Mesh)})
	}
	eid := imp.cmd.AddEntity(comps...)

	for _, child := range node.Children {
		if err := imp.spawn(child, eid); err != nil {
			return err
		}
	}
	return nil
}

func (imp *gltfImporter) mesh(idx int) AssetId {
	if id, ok := imp.meshes[idx]; ok {
		return id
	}
	id := imp.assets.ImportMesh(imp.source, idx)
	imp.meshes[idx] = id
	return id
}

var gltfIdentity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func gltfLocalTransform(node *gltf.Node) LocalTransform {
	if m := node.MatrixOrDefault(); m != gltfIdentity {
		return decomposeMatrix(m)
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	return LocalTransform{
		Position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize(),
		Scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
}

// decomposeMatrix splits a column-major TRS matrix. Shear is dropped.
func decomposeMatrix(m [16]float64) LocalTransform {
	col := func(i int) mgl32.Vec3 {
		return mgl32.Vec3{float32(m[i*4]), float32(m[i*4+1]), float32(m[i*4+2])}
	}
	x, y, z := col(0), col(1), col(2)
	scale := mgl32.Vec3{x.Len(), y.Len(), z.Len()}
	if x.Cross(y).Dot(z) < 0 {
		scale[0] = -scale[0]
	}

	unit := func(v mgl32.Vec3, s float32) mgl32.Vec3 {
		if s == 0 || math.IsNaN(float64(s)) {
			return v
		}
		return v.Mul(1 / s)
	}
	x, y, z = unit(x, scale[0]), unit(y, scale[1]), unit(z, scale[2])
	basis := mgl32.Mat4{
		x.X(), x.Y(), x.Z(), 0,
		y.X(), y.Y(), y.Z(), 0,
		z.X(), z.Y(), z.Z(), 0,
		0, 0, 0, 1,
	}
	return LocalTransform{
		Position: mgl32.Vec3{float32(m[12]), float32(m[13]), float32(m[14])},
		Rotation: mgl32.Mat4ToQuat(basis).Normalize(),
		Scale:    scale,
	}
}
