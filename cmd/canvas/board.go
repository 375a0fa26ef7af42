package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-canvas/internal/platform/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse session statistics",
	Long: `Open an interactive table of recorded sessions per scene.

Controls:
  Tab/Left/Right  - Switch scene
  Up/Down         - Scroll
  Q/Esc           - Quit`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func runBoard(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	_, err := tui.RunBoard(catalogue().List(), store, width, height)
	return err
}
