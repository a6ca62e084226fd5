package dungeon

import (
	"slices"
)

type CursorLock int

const (
	CursorLockNone CursorLock = iota
	CursorLockConfined
	CursorLockLocked
)

func (l CursorLock) String() string {
	switch l {
	case CursorLockConfined:
		return "confined"
	case CursorLockLocked:
		return "locked"
	}
	return "none"
}

type Cursor struct {
	Visible bool
	Lock    CursorLock
}

// CursorBackend is the window side of cursor capture.
type CursorBackend interface {
	SetCursorVisible(visible bool)
	SetCursorLockMode(mode CursorLock)
}

// CursorPlatform is the lock capability of a target. An empty Supported list
// means every mode is available.
type CursorPlatform struct {
	Preferred CursorLock
	Supported []CursorLock
}

func (p CursorPlatform) supports(mode CursorLock) bool {
	return len(p.Supported) == 0 || slices.Contains(p.Supported, mode)
}

// CaptureLock picks the lock mode used while captured. An unsupported preference
// is replaced by the other grabbing mode, then by none.
func (p CursorPlatform) CaptureLock() CursorLock {
	preferred := p.Preferred
	if preferred == CursorLockNone {
		preferred = CursorLockLocked
	}
	fallback := CursorLockLocked
	if preferred == CursorLockLocked {
		fallback = CursorLockConfined
	}
	for _, mode := range []CursorLock{preferred, fallback} {
		if p.supports(mode) {
			return mode
		}
	}
	return CursorLockNone
}

// MouseCapture is the application mode together with the cursor it implies.
// Both change in one call; the backend sees the new cursor before the call returns.
type MouseCapture struct {
	mode    State
	cursor  Cursor
	lock    CursorLock
	backend CursorBackend
}

// NewMouseCapture starts released in StateStart. backend may be nil.
func NewMouseCapture(platform CursorPlatform, backend CursorBackend) *MouseCapture {
	c := &MouseCapture{
		lock:    platform.CaptureLock(),
		backend: backend,
	}
	c.set(StateStart, Cursor{Visible: true, Lock: CursorLockNone})
	return c
}

func (c *MouseCapture) Mode() State    { return c.mode }
func (c *MouseCapture) Cursor() Cursor { return c.cursor }
func (c *MouseCapture) Captured() bool { return c.mode == StateInGame }

// Capture hides and grabs the cursor and enters StateInGame.
func (c *MouseCapture) Capture() bool {
	if c.mode == StateInGame {
		return false
	}
	c.set(StateInGame, Cursor{Visible: false, Lock: c.lock})
	return true
}

// Release frees the cursor and enters StateMenu.
func (c *MouseCapture) Release() bool {
	if c.mode != StateInGame {
		return false
	}
	c.set(StateMenu, Cursor{Visible: true, Lock: CursorLockNone})
	return true
}

func (c *MouseCapture) set(mode State, cursor Cursor) {
	c.mode = mode
	c.cursor = cursor
	if c.backend != nil {
		c.backend.SetCursorVisible(cursor.Visible)
		c.backend.SetCursorLockMode(cursor.Lock)
	}
}

// HandleInput applies the edge-triggered transitions of one frame:
// a left click leaves StateStart, the menu key toggles InGame and Menu.
func (c *MouseCapture) HandleInput(input *Input, bindings Bindings) bool {
	switch c.mode {
	case StateStart:
		if input.JustPressed[MouseButtonLeft] {
			return c.Capture()
		}
	case StateInGame:
		if bindings.JustPressed(input, ActionToggleMenu) {
			return c.Release()
		}
	case StateMenu:
		if bindings.JustPressed(input, ActionToggleMenu) {
			return c.Capture()
		}
	}
	return false
}

// CaptureModule owns the MouseCapture resource. Install it after
// PlatformWindowModule so the window becomes the cursor backend.
type CaptureModule struct {
	Platform CursorPlatform
}

func (mod CaptureModule) Install(app *App, cmd *Commands) {
	platform := mod.Platform
	var backend CursorBackend
	if win, ok := GetResource[WindowState](app); ok {
		backend = win
		platform.Supported = GlfwCursorPlatform(platform.Preferred).Supported
	}

	capture := NewMouseCapture(platform, backend)
	if capture.lock != platform.Preferred && platform.Preferred != CursorLockNone {
		cmd.Logger().Warnf("cursor lock %s unsupported, using %s", platform.Preferred, capture.lock)
	}
	cmd.AddResources(capture)

	app.UseSystem(
		System(GrabMouseSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// GrabMouseSystem runs after input polling and before anything that displays
// the capture mode.
func GrabMouseSystem(cmd *Commands, input *Input, bindings *Bindings, capture *MouseCapture) {
	if !capture.HandleInput(input, *bindings) {
		return
	}
	input.DiscardMouseMotion()
	cursor := capture.Cursor()
	cmd.Logger().Debugf("capture: %s (cursor visible=%t lock=%s)", capture.Mode(), cursor.Visible, cursor.Lock)
	cmd.ChangeState(capture.Mode())
}
