package dungeon

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

type MeshShape int

const (
	MeshShapeBox MeshShape = iota
	MeshShapePlane
	// MeshShapeImported is a mesh of a glTF document, referenced by index.
	MeshShapeImported
)

// MeshAsset describes geometry by shape; building vertex buffers is the
// renderer's business.
type MeshAsset struct {
	version uint
	Shape   MeshShape
	Size    mgl32.Vec3
	Source  string
	Index   int
}

type MaterialAsset struct {
	version uint
	Color   color.RGBA
}

// AssetServer registers meshes and materials under generated ids.
type AssetServer struct {
	meshes    map[AssetId]MeshAsset
	materials map[AssetId]MaterialAsset
}

type AssetServerModule struct{}

// MeshComponent makes a node visible with the given mesh and material.
type MeshComponent struct {
	Mesh     AssetId
	Material AssetId
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:    make(map[AssetId]MeshAsset),
		materials: make(map[AssetId]MaterialAsset),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func (server *AssetServer) CreateBoxMesh(size mgl32.Vec3) AssetId {
	return server.addMesh(MeshAsset{Shape: MeshShapeBox, Size: size})
}

func (server *AssetServer) CreateCubeMesh(size float32) AssetId {
	return server.CreateBoxMesh(mgl32.Vec3{size, size, size})
}

// CreatePlaneMesh is a horizontal square of side size.
func (server *AssetServer) CreatePlaneMesh(size float32) AssetId {
	return server.addMesh(MeshAsset{Shape: MeshShapePlane, Size: mgl32.Vec3{size, 0, size}})
}

func (server *AssetServer) ImportMesh(source string, index int) AssetId {
	return server.addMesh(MeshAsset{Shape: MeshShapeImported, Source: source, Index: index})
}

func (server *AssetServer) addMesh(mesh MeshAsset) AssetId {
	id := makeAssetId()
	server.meshes[id] = mesh
	return id
}

func (server *AssetServer) CreateMaterial(c color.RGBA) AssetId {
	id := makeAssetId()
	server.materials[id] = MaterialAsset{Color: c}
	return id
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	mesh, ok := server.meshes[id]
	return mesh, ok
}

func (server *AssetServer) Material(id AssetId) (MaterialAsset, bool) {
	mat, ok := server.materials[id]
	return mat, ok
}

// SetMaterialColor edits a material in place; renderers notice the version bump.
func (server *AssetServer) SetMaterialColor(id AssetId, c color.RGBA) bool {
	mat, ok := server.materials[id]
	if !ok {
		return false
	}
	mat.Color = c
	mat.version++
	server.materials[id] = mat
	return true
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// ColorFromHex parses "RRGGBB" or "RRGGBBAA", with or without a leading '#'.
func ColorFromHex(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", hex)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustColor(hex string) color.RGBA {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
