package dungeon

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func TestColorFromHex(t *testing.T) {
	c, err := ColorFromHex("A1C084")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xA1, G: 0xC0, B: 0x84, A: 0xFF}, c)

	c, err = ColorFromHex("#F6F74080")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xF6, G: 0xF7, B: 0x40, A: 0x80}, c)

	_, err = ColorFromHex("12345")
	assert.Error(t, err)
	_, err = ColorFromHex("GGGGGG")
	assert.Error(t, err)

	assert.Panics(t, func() { mustColor("nope") })
}

func TestAssetServer(t *testing.T) {
	server := NewAssetServer()

	box := server.CreateBoxMesh(mgl32.Vec3{1, 2, 3})
	cube := server.CreateCubeMesh(2)
	plane := server.CreatePlaneMesh(20)
	imported := server.ImportMesh("dungeon.gltf", 3)
	assert.NotEqual(t, box, cube)

	mesh, ok := server.Mesh(cube)
	require.True(t, ok)
	assert.Equal(t, MeshShapeBox, mesh.Shape)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, mesh.Size)

	mesh, _ = server.Mesh(plane)
	assert.Equal(t, MeshShapePlane, mesh.Shape)
	assert.Equal(t, mgl32.Vec3{20, 0, 20}, mesh.Size)

	mesh, _ = server.Mesh(imported)
	assert.Equal(t, MeshAsset{Shape: MeshShapeImported, Source: "dungeon.gltf", Index: 3}, mesh)

	_, ok = server.Mesh("missing")
	assert.False(t, ok)

	mat := server.CreateMaterial(colornames.Peru)
	require.True(t, server.SetMaterialColor(mat, colornames.Red))
	got, _ := server.Material(mat)
	assert.Equal(t, colornames.Red, got.Color)
	assert.Equal(t, uint(1), got.version)
	assert.False(t, server.SetMaterialColor("missing", colornames.Red))
}

func TestColorConversions(t *testing.T) {
	assert.Equal(t, [4]float32{1, 1, 1, 1}, ColorToFloat(colornames.White))
	assert.Equal(t, colornames.Skyblue, FloatToColor(ColorToFloat(colornames.Skyblue)))
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, FloatToColor([4]float32{-1, 2, 0, 1}))
}

func TestApplyPointLightSettings(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	point := cmd.AddEntity(LightComponent{Type: LightTypePoint, Intensity: 1})
	sun := cmd.AddEntity(LightComponent{Type: LightTypeDirectional, Intensity: 1})
	app.FlushCommands()

	settings := &PointLightSettings{Color: [4]float32{1, 0, 0, 1}, Intensity: 1200, Shadows: true}
	assert.Equal(t, 1, ApplyPointLightSettings(cmd, settings))

	light, _ := GetComponent[LightComponent](cmd, point)
	assert.Equal(t, LightComponent{Type: LightTypePoint, Color: settings.Color, Intensity: 1200, Shadows: true}, *light)

	other, _ := GetComponent[LightComponent](cmd, sun)
	assert.Equal(t, float32(1), other.Intensity)
}

func TestLoadScene_Default(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	assets := NewAssetServer()

	require.NoError(t, LoadScene(cmd, assets, DefaultScene()))
	app.FlushCommands()

	names := map[string]EntityId{}
	MakeQuery2[NameComponent, MeshComponent](cmd).Map(func(eid EntityId, name *NameComponent, mesh *MeshComponent) bool {
		names[name.Name] = eid
		_, ok := assets.Mesh(mesh.Mesh)
		assert.True(t, ok)
		return true
	})
	assert.Len(t, names, 2)

	pos, _ := WorldPose(cmd, names["cube"])
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, pos)

	lights := 0
	MakeQuery1[LightComponent](cmd).Map(func(EntityId, *LightComponent) bool {
		lights++
		return true
	})
	assert.Equal(t, 1, lights)

	err := LoadScene(cmd, assets, &SceneDef{Dungeon: "does-not-exist.gltf"})
	assert.Error(t, err)
}
