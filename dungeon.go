package dungeon

import (
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
)

// NewDungeonApp assembles the demo from cfg. A headless app opens no window;
// Input is then fed by the caller.
func NewDungeonApp(cfg *Config, headless bool) (*App, error) {
	look, err := cfg.LookSettings()
	if err != nil {
		return nil, err
	}
	platform, err := cfg.CursorPlatform(runtime.GOOS)
	if err != nil {
		return nil, err
	}
	bindings, err := cfg.ResolveBindings()
	if err != nil {
		return nil, err
	}
	scene := DefaultScene()
	scene.Dungeon = cfg.Scene.Dungeon

	builder := NewAppBuilder().
		UseStates(StateStart, StateExit).
		UseModule(
			LoggingModule{Prefix: "dungeon", Debug: cfg.Debug},
			TimeModule{FixedHz: cfg.Simulation.FixedHz},
		)
	if !headless {
		builder.UseModule(NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title))
	}

	// Registration order is execution order inside a stage.
	builder.UseModule(
		InputModule{Bindings: bindings, Viewport: [2]int{cfg.Window.Width, cfg.Window.Height}},
		CaptureModule{Platform: platform},
		ControllerModule{Look: look},
		AssetServerModule{},
		LightsModule{},
		SceneModule{Scene: scene},
		CameraModeModule{},
	)
	if cfg.Spectator {
		builder.UseModule(SpectatorModule{
			Position: PlayerInitialPosition.Add(mgl32.Vec3{0, PlayerHeadAlt, 0}),
			Target:   PlayerInitialTarget,
			Speed:    cfg.Player.Speed,
		})
	} else {
		builder.UseModule(PlayerModule{Speed: cfg.Player.Speed})
	}
	builder.UseModule(
		DebugUIModule{},
		HierarchyModule{},
	)

	app := builder.Build()
	app.Logger().Infof("dungeon ready (%s, fixed %d Hz)", headlessLabel(headless), cfg.Simulation.FixedHz)
	return app, nil
}

func headlessLabel(headless bool) string {
	if headless {
		return "headless"
	}
	return fmt.Sprintf("%s window", runtime.GOOS)
}
