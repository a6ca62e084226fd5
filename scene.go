package dungeon

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Shapes []ShapeDef
	Lights []LightDef
	// Dungeon is an optional glTF file imported under its own root node.
	Dungeon string
}

// ShapeDef defines a static mesh instantiation.
type ShapeDef struct {
	Name     string
	Shape    MeshShape
	Size     mgl32.Vec3
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Color    color.RGBA
}

// LightDef defines a light instantiation.
type LightDef struct {
	Type      LightType
	Position  mgl32.Vec3
	Rotation  mgl32.Quat
	Color     [4]float32
	Intensity float32
	Range     float32
	Shadows   bool
}

// DefaultScene is the demo room: a ground plane, a cube and one point light.
func DefaultScene() *SceneDef {
	return &SceneDef{
		Shapes: []ShapeDef{
			{
				Name:  "ground",
				Shape: MeshShapePlane,
				Size:  mgl32.Vec3{20, 0, 20},
				Color: colornames.Darkseagreen,
			},
			{
				Name:     "cube",
				Shape:    MeshShapeBox,
				Size:     mgl32.Vec3{1, 1, 1},
				Position: mgl32.Vec3{0, 0.5, 0},
				Color:    colornames.Peru,
			},
		},
		Lights: []LightDef{
			{
				Type:      LightTypePoint,
				Position:  mgl32.Vec3{4, 8, 4},
				Color:     ColorToFloat(colornames.White),
				Intensity: 800,
				Range:     20,
			},
		},
	}
}

// SceneModule spawns Scene at install time. A nil Scene spawns DefaultScene.
type SceneModule struct {
	Scene *SceneDef
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	assets, ok := GetResource[AssetServer](app)
	if !ok {
		panic("SceneModule needs AssetServerModule installed first")
	}
	scene := m.Scene
	if scene == nil {
		scene = DefaultScene()
	}
	if err := LoadScene(cmd, assets, scene); err != nil {
		cmd.Logger().Errorf("%v", err)
		panic(err)
	}
}

// LoadScene iterates through the SceneDef and spawns entities.
func LoadScene(cmd *Commands, assets *AssetServer, scene *SceneDef) error {
	for _, shape := range scene.Shapes {
		spawnShape(cmd, assets, shape)
	}

	for _, light := range scene.Lights {
		spawnLight(cmd, light)
	}

	if scene.Dungeon != "" {
		if _, err := LoadGLTFScene(cmd, assets, scene.Dungeon); err != nil {
			return fmt.Errorf("load dungeon: %w", err)
		}
	}
	return nil
}

func spawnShape(cmd *Commands, assets *AssetServer, def ShapeDef) EntityId {
	var mesh AssetId
	switch def.Shape {
	case MeshShapePlane:
		mesh = assets.CreatePlaneMesh(def.Size.X())
	default:
		mesh = assets.CreateBoxMesh(def.Size)
	}

	return cmd.AddEntity(
		NewLocalTransform(def.Position, def.Rotation),
		TransformComponent{},
		NameComponent{Name: def.Name},
		MeshComponent{
			Mesh:     mesh,
			Material: assets.CreateMaterial(def.Color),
		},
	)
}

func spawnLight(cmd *Commands, def LightDef) EntityId {
	return cmd.AddEntity(
		NewLocalTransform(def.Position, def.Rotation),
		TransformComponent{},
		LightComponent{
			Type:      def.Type,
			Color:     def.Color,
			Intensity: def.Intensity,
			Range:     def.Range,
			Shadows:   def.Shadows,
		},
	)
}
