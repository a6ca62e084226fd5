package dungeon

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionToggleMenu
	ActionSwitchCamera
)

var actionNames = map[Action]string{
	ActionMoveForward:  "move_forward",
	ActionMoveBack:     "move_back",
	ActionMoveLeft:     "move_left",
	ActionMoveRight:    "move_right",
	ActionMoveUp:       "move_up",
	ActionMoveDown:     "move_down",
	ActionToggleMenu:   "toggle_menu",
	ActionSwitchCamera: "switch_camera",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Bindings maps a logical action to every physical code that triggers it.
type Bindings map[Action][]int

func DefaultBindings() Bindings {
	return Bindings{
		ActionMoveForward:  {KeyW, KeyUp},
		ActionMoveBack:     {KeyS, KeyDown},
		ActionMoveLeft:     {KeyA, KeyLeft},
		ActionMoveRight:    {KeyD, KeyRight},
		ActionMoveUp:       {KeyE, KeyRightShift},
		ActionMoveDown:     {KeyQ, KeyRightControl},
		ActionToggleMenu:   {KeyM},
		ActionSwitchCamera: {KeyC},
	}
}

// Held is true while any code bound to the action is down.
func (b Bindings) Held(input *Input, action Action) bool {
	for _, code := range b[action] {
		if input.Pressed[code] {
			return true
		}
	}
	return false
}

// JustPressed is true on the frame one of the bound codes went down.
func (b Bindings) JustPressed(input *Input, action Action) bool {
	for _, code := range b[action] {
		if input.JustPressed[code] {
			return true
		}
	}
	return false
}

// Label names the keys bound to action, alternatives joined by "or".
func (b Bindings) Label(action Action) string {
	codes := b[action]
	if len(codes) == 0 {
		return "(unbound)"
	}
	labels := make([]string, len(codes))
	for i, code := range codes {
		labels[i] = KeyLabel(code)
	}
	return strings.Join(labels, " or ")
}

// SampleMoveIntent folds held movement actions into +Z forward, +X right, +Y up.
// Opposite actions cancel to exactly zero.
func SampleMoveIntent(input *Input, b Bindings) mgl32.Vec3 {
	var intent mgl32.Vec3
	intent[2] = b.axis(input, ActionMoveForward, ActionMoveBack)
	intent[0] = b.axis(input, ActionMoveRight, ActionMoveLeft)
	intent[1] = b.axis(input, ActionMoveUp, ActionMoveDown)
	return intent
}

func (b Bindings) axis(input *Input, positive, negative Action) float32 {
	var v float32
	if b.Held(input, positive) {
		v += 1
	}
	if b.Held(input, negative) {
		v -= 1
	}
	return v
}
