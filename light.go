package dungeon

import (
	"image/color"

	"golang.org/x/image/colornames"
)

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
)

// LightComponent is the ECS component for lights
type LightComponent struct {
	Type      LightType
	Color     [4]float32 // RGBA
	Intensity float32
	Range     float32 // For point/spot
	Shadows   bool
}

// ClearColor is the background of every view.
type ClearColor struct {
	Color [4]float32
}

type AmbientLight struct {
	Color      [4]float32
	Brightness float32
}

// PointLightSettings is the shared look of all point lights; edits are pushed
// to every LightComponent by ApplyPointLightSettings.
type PointLightSettings struct {
	Color     [4]float32
	Intensity float32
	Shadows   bool
}

type GraphicsSettings struct {
	MSAASamples   int
	ShadowMapSize int
}

const (
	MaxAmbientBrightness = 5
	MaxPointIntensity    = 4000
)

var ShadowMapSizes = []int{256, 512, 1024, 2048, 4096}

// LightsModule installs the lighting resources with the demo defaults.
type LightsModule struct{}

func (LightsModule) Install(app *App, cmd *Commands) {
	sky := ColorToFloat(colornames.Skyblue)
	cmd.AddResources(
		&ClearColor{Color: sky},
		&AmbientLight{Color: sky, Brightness: 0.9},
		&PointLightSettings{Color: ColorToFloat(colornames.White), Intensity: 800},
		&GraphicsSettings{MSAASamples: 4, ShadowMapSize: 1024},
	)
}

func ColorToFloat(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func FloatToColor(c [4]float32) color.RGBA {
	conv := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: conv(c[0]), G: conv(c[1]), B: conv(c[2]), A: conv(c[3])}
}

// ApplyPointLightSettings copies the shared settings onto every point light and
// returns how many were updated.
func ApplyPointLightSettings(cmd *Commands, settings *PointLightSettings) int {
	n := 0
	MakeQuery1[LightComponent](cmd).Map(func(eid EntityId, light *LightComponent) bool {
		if light.Type != LightTypePoint {
			return true
		}
		light.Color = settings.Color
		light.Intensity = settings.Intensity
		light.Shadows = settings.Shadows
		n++
		return true
	})
	return n
}
