package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-canvas/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the canvas with a scene picker menu",
	Long: `Start the canvas in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a scene.
After a scene is closed, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select scene
  Tab          - Session statistics
  Q            - Quit

Examples:
  canvas menu
  canvas menu --fps 60
  canvas menu --db ./sessions.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger()
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	reg := catalogue()
	seed := flagSeed

	// Menu loop
	for {
		width, height := terminalSize()

		menuResult, err := tui.RunMenu(reg.List(), width, height)
		if err != nil {
			return err
		}
		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsBoard {
			goBack, err := tui.RunBoard(reg.List(), store, width, height)
			if err != nil {
				return err
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from the board
		}

		scene, err := reg.Create(menuResult.SceneID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
			continue
		}

		err = tui.Run(scene, tui.CanvasOptions{
			Config: cfg,
			Store:  store,
			Logger: logger,
			Seed:   seed,
			User:   os.Getenv("USER"),
			Width:  width,
			Height: height,
		})
		if err != nil {
			return err
		}

		// A fixed seed still varies between runs of the same session
		if seed != 0 {
			seed++
		}
	}
}
