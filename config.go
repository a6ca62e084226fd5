package dungeon

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKey    = errors.New("unknown key name")
	ErrUnknownAction = errors.New("unknown action")
)

type Config struct {
	Window     WindowConfig        `yaml:"window"`
	Simulation SimulationConfig    `yaml:"simulation"`
	Player     PlayerConfig        `yaml:"player"`
	Look       LookConfig          `yaml:"look"`
	Cursor     CursorConfig        `yaml:"cursor"`
	Bindings   map[string][]string `yaml:"bindings"`
	Scene      SceneConfig         `yaml:"scene"`
	Spectator  bool                `yaml:"spectator"`
	Debug      bool                `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type SimulationConfig struct {
	FixedHz int `yaml:"fixed_hz"`
}

type PlayerConfig struct {
	Speed float32 `yaml:"speed"`
}

type LookConfig struct {
	Sensitivity float32 `yaml:"sensitivity"`
	// Mode is "per_unit" or "per_viewport".
	Mode string `yaml:"mode"`
}

type CursorConfig struct {
	// LockMode is "auto", "locked" or "confined".
	LockMode string `yaml:"lock_mode"`
}

type SceneConfig struct {
	Dungeon string `yaml:"dungeon"`
}

func DefaultConfig() *Config {
	return &Config{
		Window:     WindowConfig{Width: 1280, Height: 720, Title: "Dungeon"},
		Simulation: SimulationConfig{FixedHz: 60},
		Player:     PlayerConfig{Speed: PlayerSpeed},
		Look:       LookConfig{Sensitivity: 100, Mode: "per_viewport"},
		Cursor:     CursorConfig{LockMode: "auto"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := LoadConfigFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Simulation.FixedHz <= 0 {
		return fmt.Errorf("simulation.fixed_hz must be positive, got %d", c.Simulation.FixedHz)
	}
	if c.Player.Speed <= 0 {
		return fmt.Errorf("player.speed must be positive, got %v", c.Player.Speed)
	}
	if _, err := c.LookSettings(); err != nil {
		return err
	}
	if _, err := c.CursorPlatform(runtime.GOOS); err != nil {
		return err
	}
	if _, err := c.ResolveBindings(); err != nil {
		return err
	}
	return nil
}

func (c *Config) LookSettings() (LookSettings, error) {
	if c.Look.Sensitivity <= 0 {
		return LookSettings{}, fmt.Errorf("look.sensitivity must be positive, got %v", c.Look.Sensitivity)
	}
	settings := LookSettings{Sensitivity: c.Look.Sensitivity}
	switch c.Look.Mode {
	case "per_unit":
		settings.Mode = LookPerUnit
	case "per_viewport", "":
		settings.Mode = LookPerViewport
	default:
		return LookSettings{}, fmt.Errorf("invalid look.mode %q: must be per_unit or per_viewport", c.Look.Mode)
	}
	return settings, nil
}

// CursorPlatform resolves cursor.lock_mode for goos. "auto" grabs with a locked
// cursor on darwin and js, and a confined one elsewhere.
func (c *Config) CursorPlatform(goos string) (CursorPlatform, error) {
	switch c.Cursor.LockMode {
	case "locked":
		return CursorPlatform{Preferred: CursorLockLocked}, nil
	case "confined":
		return CursorPlatform{Preferred: CursorLockConfined}, nil
	case "auto", "":
		if goos == "darwin" || goos == "js" {
			return CursorPlatform{Preferred: CursorLockLocked}, nil
		}
		return CursorPlatform{Preferred: CursorLockConfined}, nil
	}
	return CursorPlatform{}, fmt.Errorf("invalid cursor.lock_mode %q: must be auto, locked or confined", c.Cursor.LockMode)
}

// ResolveBindings returns DefaultBindings with the configured actions replaced.
func (c *Config) ResolveBindings() (Bindings, error) {
	bindings := DefaultBindings()
	for name, keys := range c.Bindings {
		action, ok := actionByName(name)
		if !ok {
			return nil, fmt.Errorf("bindings.%s: %w", name, ErrUnknownAction)
		}
		codes := make([]int, 0, len(keys))
		for _, key := range keys {
			code, ok := keyByName(key)
			if !ok {
				return nil, fmt.Errorf("bindings.%s: %q: %w", name, key, ErrUnknownKey)
			}
			codes = append(codes, code)
		}
		bindings[action] = codes
	}
	return bindings, nil
}

func actionByName(name string) (Action, bool) {
	for action, n := range actionNames {
		if n == name {
			return action, true
		}
	}
	return 0, false
}

var namedKeys = map[string]int{
	"space":         KeySpace,
	"enter":         KeyEnter,
	"escape":        KeyEscape,
	"tab":           KeyTab,
	"backspace":     KeyBackspace,
	"right":         KeyRight,
	"left":          KeyLeft,
	"down":          KeyDown,
	"up":            KeyUp,
	"f1":            KeyF1,
	"f2":            KeyF2,
	"f3":            KeyF3,
	"f4":            KeyF4,
	"shift":         KeyShift,
	"right_shift":   KeyRightShift,
	"control":       KeyControl,
	"right_control": KeyRightControl,
	"alt":           KeyLeftAlt,
	"mouse_left":    MouseButtonLeft,
	"mouse_right":   MouseButtonRight,
	"mouse_middle":  MouseButtonMiddle,
}

// KeyLabel is the display name of a key or mouse button code.
func KeyLabel(code int) string {
	switch {
	case code >= KeyA && code <= KeyZ:
		return string(rune('A' + code - KeyA))
	case code >= Key0 && code <= Key9:
		return string(rune('0' + code - Key0))
	}
	for name, c := range namedKeys {
		if c == code {
			label := strings.ReplaceAll(name, "_", " ")
			return strings.ToUpper(label[:1]) + label[1:]
		}
	}
	return fmt.Sprintf("#%d", code)
}

func keyByName(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 1 {
		switch ch := name[0]; {
		case ch >= 'a' && ch <= 'z':
			return KeyA + int(ch-'a'), true
		case ch >= '0' && ch <= '9':
			return Key0 + int(ch-'0'), true
		}
	}
	code, ok := namedKeys[name]
	return code, ok
}
