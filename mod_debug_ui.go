package dungeon

import (
	"fmt"
	"strings"
)

// DebugOverlay holds the widget toolkit the debug windows draw with.
type DebugOverlay struct {
	UI DebugUI
}

// DebugUIModule draws the Info window every frame and the Graphics and Camera
// windows while the menu is open. A nil UI selects a HeadlessUI.
type DebugUIModule struct {
	UI DebugUI
}

func (m DebugUIModule) Install(app *App, cmd *Commands) {
	ui := m.UI
	if ui == nil {
		ui = NewHeadlessUI()
	}
	cmd.AddResources(&DebugOverlay{UI: ui})

	app.UseSystem(System(debugUIFrameSystem).InStage(Prelude).RunAlways())
	app.UseSystem(System(InfoWindowSystem).InStage(PostUpdate).RunAlways())
	app.UseSystem(System(GraphicsWindowSystem).InStage(PostUpdate).RunAlways())
	app.UseSystem(System(CameraWindowSystem).InStage(PostUpdate).RunAlways())
}

func debugUIFrameSystem(overlay *DebugOverlay) {
	overlay.UI.NewFrame()
}

// InfoText is the help shown for a capture mode, naming the keys bound to
// each action.
func InfoText(mode State, bindings Bindings) []string {
	switch mode {
	case StateStart:
		return []string{"Click on the game screen to start"}
	case StateMenu:
		return []string{fmt.Sprintf("Press %s to close all menus", bindings.Label(ActionToggleMenu))}
	case StateInGame:
		return []string{
			"- Use the mouse to look",
			fmt.Sprintf("- Use %s to move", moveKeysLabel(bindings)),
			fmt.Sprintf("- Press %s to switch camera", bindings.Label(ActionSwitchCamera)),
			fmt.Sprintf("- Press %s for the settings menu", bindings.Label(ActionToggleMenu)),
		}
	}
	return nil
}

// moveKeysLabel lists the planar movement keys column by column, so the
// default layout reads "WASD or Up Left Down Right".
func moveKeysLabel(bindings Bindings) string {
	actions := []Action{ActionMoveForward, ActionMoveLeft, ActionMoveBack, ActionMoveRight}
	var groups []string
	for column := 0; ; column++ {
		labels := make([]string, 0, len(actions))
		compact := true
		for _, action := range actions {
			codes := bindings[action]
			if column >= len(codes) {
				break
			}
			label := KeyLabel(codes[column])
			compact = compact && len(label) == 1
			labels = append(labels, label)
		}
		if len(labels) < len(actions) {
			break
		}
		if compact {
			groups = append(groups, strings.Join(labels, ""))
		} else {
			groups = append(groups, strings.Join(labels, " "))
		}
	}
	if len(groups) == 0 {
		return "the movement keys"
	}
	return strings.Join(groups, " or ")
}

func InfoWindowSystem(overlay *DebugOverlay, capture *MouseCapture, bindings *Bindings) {
	overlay.UI.Window("Info", func() {
		for _, line := range InfoText(capture.Mode(), *bindings) {
			overlay.UI.Label(line)
		}
	})
}

func GraphicsWindowSystem(
	cmd *Commands,
	overlay *DebugOverlay,
	capture *MouseCapture,
	clear *ClearColor,
	ambient *AmbientLight,
	plight *PointLightSettings,
	graphics *GraphicsSettings,
) {
	if capture.Mode() != StateMenu {
		return
	}
	ui := overlay.UI
	ui.Window("Graphics", func() {
		ui.ColorEdit("Clear Color", &clear.Color)
		if ui.Button("Sync with Ambient") {
			ambient.Color = clear.Color
		}
		ui.Separator()

		ui.Label("Ambient Light")
		ui.ColorEdit("Ambient Color", &ambient.Color)
		ui.SliderFloat("Brightness", &ambient.Brightness, 0, MaxAmbientBrightness)
		ui.Separator()

		ui.Label("Point Lights")
		changed := ui.ColorEdit("Light Color", &plight.Color)
		changed = ui.SliderFloat("Intensity", &plight.Intensity, 0, MaxPointIntensity) || changed
		changed = ui.Checkbox("Shadows", &plight.Shadows) || changed
		if changed {
			n := ApplyPointLightSettings(cmd, plight)
			cmd.Logger().Debugf("point light settings applied to %d lights", n)
		}
		ui.Separator()

		for _, samples := range []int{1, 4} {
			if ui.RadioButton(fmt.Sprintf("MSAA x%d", samples), graphics.MSAASamples == samples) {
				graphics.MSAASamples = samples
			}
		}
		for _, size := range ShadowMapSizes {
			if ui.RadioButton(fmt.Sprintf("Shadow map %d", size), graphics.ShadowMapSize == size) {
				graphics.ShadowMapSize = size
			}
		}
	})
}

func CameraWindowSystem(cmd *Commands, overlay *DebugOverlay, capture *MouseCapture, settings *CameraSettings) {
	if capture.Mode() != StateMenu || !hasPlayerRig(cmd) {
		return
	}
	ui := overlay.UI
	ui.Window("Camera", func() {
		for _, mode := range []CameraMode{FirstPerson, ThirdPerson} {
			if ui.RadioButton(mode.String(), settings.Mode == mode) && settings.Mode != mode {
				SwitchCameraMode(cmd, settings, mode)
			}
		}
		ui.Separator()

		if settings.Mode == FirstPerson {
			offset := settings.FirstPersonOffset
			if ui.SliderFloat("Offset", &offset, -HeadSize/2, HeadSize/2) {
				SetFirstPersonOffset(cmd, settings, offset)
			}
			return
		}

		distance := settings.Distance
		if ui.DragFloat("Distance", &distance, MinCameraDistance, MaxCameraDistance) {
			SetThirdPersonDistance(cmd, settings, distance)
		}
		ui.Separator()

		ui.Label("Translation")
		t := mustLocal(cmd, FindPlayerRig(cmd).ThirdPersonCamera).Position
		changed := false
		for i, axis := range []string{"X", "Y", "Z"} {
			if ui.DragFloat(axis, &t[i], 0, 0) {
				changed = true
			}
		}
		if changed {
			SetThirdPersonTranslation(cmd, settings, t)
		}
	})
}

func hasPlayerRig(cmd *Commands) bool {
	found := false
	MakeQuery1[PlayerComponent](cmd).Map(func(eid EntityId, _ *PlayerComponent) bool {
		found = true
		return false
	})
	return found
}
