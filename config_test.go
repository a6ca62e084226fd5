package dungeon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	look, err := cfg.LookSettings()
	require.NoError(t, err)
	assert.Equal(t, LookSettings{Sensitivity: 100, Mode: LookPerViewport}, look)

	bindings, err := cfg.ResolveBindings()
	require.NoError(t, err)
	assert.Equal(t, DefaultBindings(), bindings)
}

func TestLoadConfigFromBytes(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(`
window:
  width: 800
simulation:
  fixed_hz: 120
look:
  sensitivity: 0.15
  mode: per_unit
cursor:
  lock_mode: locked
bindings:
  move_forward: [z, up]
  toggle_menu: [escape]
spectator: true
`))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, 120, cfg.Simulation.FixedHz)
	assert.True(t, cfg.Spectator)

	look, err := cfg.LookSettings()
	require.NoError(t, err)
	assert.Equal(t, LookPerUnit, look.Mode)
	assert.InDelta(t, 0.15, look.Sensitivity, 1e-6)

	bindings, err := cfg.ResolveBindings()
	require.NoError(t, err)
	assert.Equal(t, []int{KeyZ, KeyUp}, bindings[ActionMoveForward])
	assert.Equal(t, []int{KeyEscape}, bindings[ActionToggleMenu])
	assert.Equal(t, []int{KeyS, KeyDown}, bindings[ActionMoveBack])
}

func TestLoadConfigFromBytes_Errors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "window: [",
		"negative size":  "window: {width: -1}",
		"zero rate":      "simulation: {fixed_hz: 0}",
		"look mode":      "look: {mode: sideways}",
		"sensitivity":    "look: {sensitivity: 0}",
		"cursor":         "cursor: {lock_mode: glued}",
		"player speed":   "player: {speed: -2}",
		"unknown key":    "bindings: {move_up: [hyperspace]}",
		"unknown action": "bindings: {jump: [space]}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfigFromBytes([]byte("bindings: {move_up: [hyperspace]}"))
	assert.ErrorIs(t, err, ErrUnknownKey)
	_, err = LoadConfigFromBytes([]byte("bindings: {jump: [space]}"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: {speed: 7.5}\ndebug: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(7.5), cfg.Player.Speed)
	assert.True(t, cfg.Debug)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_CursorPlatform(t *testing.T) {
	cfg := DefaultConfig()

	p, err := cfg.CursorPlatform("darwin")
	require.NoError(t, err)
	assert.Equal(t, CursorLockLocked, p.Preferred)

	p, err = cfg.CursorPlatform("js")
	require.NoError(t, err)
	assert.Equal(t, CursorLockLocked, p.Preferred)

	p, err = cfg.CursorPlatform("linux")
	require.NoError(t, err)
	assert.Equal(t, CursorLockConfined, p.Preferred)

	cfg.Cursor.LockMode = "locked"
	p, _ = cfg.CursorPlatform("linux")
	assert.Equal(t, CursorLockLocked, p.Preferred)
}

func TestKeyByName(t *testing.T) {
	for name, want := range map[string]int{
		"a":             KeyA,
		"W":             KeyW,
		" 7 ":           Key7,
		"right_shift":   KeyRightShift,
		"Mouse_Left":    MouseButtonLeft,
		"right_control": KeyRightControl,
	} {
		got, ok := keyByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := keyByName("ab")
	assert.False(t, ok)
}
