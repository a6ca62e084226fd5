// Command dungeon runs the first/third-person camera demo.
package main

import (
	"fmt"
	"os"

	"github.com/gekko3d/dungeon"
	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	configPath string
	debug      bool
	width      int
	height     int
	dungeon    string
	spectator  bool
	frames     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:     "dungeon",
		Short:   "First/third-person camera rig demo",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd, cfg, opts.frames)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.IntVar(&opts.width, "width", 0, "window width")
	flags.IntVar(&opts.height, "height", 0, "window height")
	flags.StringVar(&opts.dungeon, "dungeon", "", "glTF file with the dungeon geometry")
	flags.BoolVar(&opts.spectator, "spectator", false, "fly a free camera instead of the player rig")
	flags.IntVar(&opts.frames, "headless-frames", 0, "run this many frames without a window, then print the debug UI")

	return rootCmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*dungeon.Config, error) {
	cfg := dungeon.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := dungeon.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if flags.Changed("dungeon") {
		cfg.Scene.Dungeon = opts.dungeon
	}
	if flags.Changed("spectator") {
		cfg.Spectator = opts.spectator
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg *dungeon.Config, frames int) error {
	headless := frames > 0
	app, err := dungeon.NewDungeonApp(cfg, headless)
	if err != nil {
		return err
	}

	if !headless {
		if win, ok := dungeon.GetResource[dungeon.WindowState](app); ok {
			defer win.Close()
		}
		app.Run()
		return nil
	}

	for i := 0; i < frames && !app.Finished(); i++ {
		app.Step()
	}
	if overlay, ok := dungeon.GetResource[dungeon.DebugOverlay](app); ok {
		if ui, ok := overlay.UI.(*dungeon.HeadlessUI); ok {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Text())
		}
	}
	return nil
}
