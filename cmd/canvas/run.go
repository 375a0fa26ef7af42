package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-canvas/internal/platform/tui"
)

var runCmd = &cobra.Command{
	Use:   "run <scene>",
	Short: "Run a scene",
	Long: `Start the specified scene.

Mouse:
  Click      - Tap a sprite (or empty space)
  Drag       - Drag sprites under the pointer
  Flick      - Fling sprites by releasing while moving

Keys:
  P/Space    - Pause
  N          - Single tick while paused
  R          - Reset the scene
  S          - Toggle status bar
  Ctrl+S     - Save a text screenshot
  Q/Esc      - Quit

Examples:
  canvas run bounce
  canvas run drag --fps 60
  canvas run shapes --seed 42 --config ./my-canvas.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScene,
}

func runScene(_ *cobra.Command, args []string) error {
	sceneID := args[0]
	reg := catalogue()

	if !reg.Exists(sceneID) {
		fmt.Fprintln(os.Stderr, "Run 'canvas list' to see available scenes.")
		return fmt.Errorf("unknown scene %q", sceneID)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scene, err := reg.Create(sceneID)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger()
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	return tui.Run(scene, tui.CanvasOptions{
		Config: cfg,
		Store:  store,
		Logger: logger,
		Seed:   flagSeed,
		User:   os.Getenv("USER"),
		Width:  width,
		Height: height,
	})
}
