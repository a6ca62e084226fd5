package dungeon

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyShift
	KeyRightShift
	KeyControl
	KeyRightControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

const inputSlots = 256

// InputModule installs Input and the action Bindings. A nil Bindings map
// selects DefaultBindings. Viewport seeds the window size of a headless app;
// with a window the size is sampled every frame.
type InputModule struct {
	Bindings Bindings
	Viewport [2]int
}

// Input is sampled once per frame. Mouse motion is queued separately: every
// cursor event between two samples is summed by DrainMouseMotion, so nothing is
// lost or counted twice regardless of how many simulation ticks a frame runs.
type Input struct {
	Pressed [inputSlots]bool

	JustPressed  [inputSlots]bool
	JustReleased [inputSlots]bool

	MouseX, MouseY float64

	WindowWidth, WindowHeight int
	CharBuffer                []rune

	motion       mgl32.Vec2
	hasCursorPos bool
	lastX, lastY float64
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{WindowWidth: mod.Viewport[0], WindowHeight: mod.Viewport[1]}
	bindings := mod.Bindings
	if bindings == nil {
		bindings = DefaultBindings()
	}
	cmd.AddResources(input, &bindings)

	win, ok := GetResource[WindowState](app)
	if !ok {
		// Headless: something else feeds Input (tests, scripted drivers).
		return
	}
	win.windowGlfw.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		input.OnCursorPos(x, y)
	})
	win.windowGlfw.SetCharCallback(func(w *glfw.Window, char rune) {
		input.CharBuffer = append(input.CharBuffer, char)
	})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// BeginFrame clears the per-frame edge flags.
func (input *Input) BeginFrame() {
	input.JustPressed = [inputSlots]bool{}
	input.JustReleased = [inputSlots]bool{}
	input.CharBuffer = nil
}

// SetButton records the held state of a key or mouse button and derives edges.
func (input *Input) SetButton(code int, down bool) {
	if down {
		if !input.Pressed[code] {
			input.JustPressed[code] = true
		}
		input.Pressed[code] = true
		return
	}
	if input.Pressed[code] {
		input.JustReleased[code] = true
	}
	input.Pressed[code] = false
}

func (input *Input) KeyHeld(code int) bool        { return input.Pressed[code] }
func (input *Input) KeyJustPressed(code int) bool { return input.JustPressed[code] }

// OnCursorPos turns absolute cursor positions into queued motion deltas.
func (input *Input) OnCursorPos(x, y float64) {
	if input.hasCursorPos {
		input.PushMouseMotion(float32(x-input.lastX), float32(y-input.lastY))
	}
	input.lastX, input.lastY = x, y
	input.hasCursorPos = true
	input.MouseX, input.MouseY = x, y
}

func (input *Input) PushMouseMotion(dx, dy float32) {
	input.motion = input.motion.Add(mgl32.Vec2{dx, dy})
}

// DrainMouseMotion returns the sum of all motion since the previous drain.
func (input *Input) DrainMouseMotion() mgl32.Vec2 {
	delta := input.motion
	input.motion = mgl32.Vec2{}
	return delta
}

// DiscardMouseMotion drops pending motion, e.g. the jump produced when the
// cursor gets locked or released.
func (input *Input) DiscardMouseMotion() {
	input.motion = mgl32.Vec2{}
	input.hasCursorPos = false
}

func inputSystem(s *WindowState, input *Input) {
	input.BeginFrame()

	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.SetButton(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range mouseButtonToGlfw {
		input.SetButton(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
	s.WindowWidth, s.WindowHeight = input.WindowWidth, input.WindowHeight
}

var mouseButtonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:            glfw.KeyA,
	KeyB:            glfw.KeyB,
	KeyC:            glfw.KeyC,
	KeyD:            glfw.KeyD,
	KeyE:            glfw.KeyE,
	KeyF:            glfw.KeyF,
	KeyG:            glfw.KeyG,
	KeyH:            glfw.KeyH,
	KeyI:            glfw.KeyI,
	KeyJ:            glfw.KeyJ,
	KeyK:            glfw.KeyK,
	KeyL:            glfw.KeyL,
	KeyM:            glfw.KeyM,
	KeyN:            glfw.KeyN,
	KeyO:            glfw.KeyO,
	KeyP:            glfw.KeyP,
	KeyQ:            glfw.KeyQ,
	KeyR:            glfw.KeyR,
	KeyS:            glfw.KeyS,
	KeyT:            glfw.KeyT,
	KeyU:            glfw.KeyU,
	KeyV:            glfw.KeyV,
	KeyW:            glfw.KeyW,
	KeyX:            glfw.KeyX,
	KeyY:            glfw.KeyY,
	KeyZ:            glfw.KeyZ,
	Key0:            glfw.Key0,
	Key1:            glfw.Key1,
	Key2:            glfw.Key2,
	Key3:            glfw.Key3,
	Key4:            glfw.Key4,
	Key5:            glfw.Key5,
	Key6:            glfw.Key6,
	Key7:            glfw.Key7,
	Key8:            glfw.Key8,
	Key9:            glfw.Key9,
	KeySpace:        glfw.KeySpace,
	KeyEnter:        glfw.KeyEnter,
	KeyEscape:       glfw.KeyEscape,
	KeyTab:          glfw.KeyTab,
	KeyBackspace:    glfw.KeyBackspace,
	KeyRight:        glfw.KeyRight,
	KeyLeft:         glfw.KeyLeft,
	KeyDown:         glfw.KeyDown,
	KeyUp:           glfw.KeyUp,
	KeyF1:           glfw.KeyF1,
	KeyF2:           glfw.KeyF2,
	KeyF3:           glfw.KeyF3,
	KeyF4:           glfw.KeyF4,
	KeyShift:        glfw.KeyLeftShift,
	KeyRightShift:   glfw.KeyRightShift,
	KeyControl:      glfw.KeyLeftControl,
	KeyRightControl: glfw.KeyRightControl,
	KeyLeftAlt:      glfw.KeyLeftAlt,
}
