package dungeon

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule creates the shared glfw window (WindowState). Install is
// idempotent: an existing WindowState resource is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	cursor Cursor
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Dungeon"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := GetResource[WindowState](app); ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title)
	if err != nil {
		panic(err)
	}
	cmd.Logger().Infof("window %q opened (%dx%d)", m.Title, m.Width, m.Height)
	app.addResources(ws)

	app.UseSystem(
		System(windowCloseSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// Rendering lives outside this module; no GL context is needed.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
		cursor:       Cursor{Visible: true, Lock: CursorLockNone},
	}, nil
}

func windowCloseSystem(cmd *Commands, s *WindowState) {
	if s.windowGlfw.ShouldClose() {
		cmd.Logger().Infof("window closed, exiting")
		cmd.Exit()
	}
}

// Close destroys the window and releases glfw.
func (s *WindowState) Close() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}

// GlfwCursorPlatform describes what glfw 3.3 can do: a hidden cursor or a
// disabled (locked, unbounded) one. There is no confined mode.
func GlfwCursorPlatform(preferred CursorLock) CursorPlatform {
	return CursorPlatform{
		Preferred: preferred,
		Supported: []CursorLock{CursorLockNone, CursorLockLocked},
	}
}

func (s *WindowState) SetCursorVisible(visible bool) {
	s.cursor.Visible = visible
	s.applyCursor()
}

func (s *WindowState) SetCursorLockMode(mode CursorLock) {
	s.cursor.Lock = mode
	s.applyCursor()
}

func (s *WindowState) applyCursor() {
	if s.windowGlfw == nil {
		return
	}
	switch {
	case s.cursor.Lock != CursorLockNone:
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			s.windowGlfw.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	case s.cursor.Visible:
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		if glfw.RawMouseMotionSupported() {
			s.windowGlfw.SetInputMode(glfw.RawMouseMotion, glfw.False)
		}
	default:
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
}
