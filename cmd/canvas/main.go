// canvas is a terminal sprite canvas: scenes of moving shapes that bounce,
// collide and respond to mouse taps, drags and flings.
//
// Usage:
//
//	canvas list              - List available scenes
//	canvas run <scene>       - Run a scene
//	canvas menu              - Pick scenes interactively
//	canvas serve             - Start SSH server for remote sessions
//	canvas stats [scene]     - Show recorded session statistics
//	canvas board             - Browse session statistics interactively
//
// Global flags:
//
//	--fps <rate>     - Override the tick rate from the config
//	--seed <value>   - Set RNG seed for reproducible scenes
//	--db <path>      - Set database path (default: ~/.canvas/sessions.db)
//	--config <path>  - Load canvas config from a YAML file
//	--log <path>     - Write debug logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/scenes"
	"github.com/vovakirdan/tui-canvas/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "TUI Canvas - Bouncing, colliding, draggable sprites in your terminal",
	Long: `TUI Canvas hosts interactive sprite scenes in the terminal. Sprites move
every tick, bounce off the edges, notice collisions and respond to mouse
taps, drags and flings.

Available commands:
  list     - Show all available scenes
  run      - Run a specific scene directly
  menu     - Interactive scene picker
  serve    - Start SSH server for remote sessions
  stats    - Show recorded session statistics
  board    - Browse session statistics

Examples:
  canvas list
  canvas run bounce
  canvas menu
  canvas serve --ssh :2222
  canvas stats drag`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.canvas/sessions.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to canvas config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write debug logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(boardCmd)
}

// catalogue returns the registry of built-in scenes.
func catalogue() *registry.Registry {
	return scenes.Default()
}

// loadConfig loads the canvas config and applies flag overrides.
func loadConfig() (config.CanvasConfig, error) {
	cfg, err := config.LoadCanvas(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Display.TickRate = flagFPS
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// openStore opens the session database. Scenes still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		return nil
	}
	return store
}

// newLogger returns a file logger when --log is set and a silent one otherwise.
// The terminal belongs to the canvas, so nothing is logged to it.
func newLogger() (*log.Logger, func()) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "canvas",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
