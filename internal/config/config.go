// Package config provides YAML-based canvas configuration loading and
// validation.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-canvas/internal/gesture"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid value")

// CanvasConfig contains all configuration for a canvas session.
type CanvasConfig struct {
	Display DisplayConfig `yaml:"display"`
	Gesture GestureConfig `yaml:"gesture"`
	Scene   SceneConfig   `yaml:"scene"`
}

// DisplayConfig maps terminal cells onto surface pixels.
type DisplayConfig struct {
	CellWidth  int  `yaml:"cell_width"`
	CellHeight int  `yaml:"cell_height"`
	TickRate   int  `yaml:"tick_rate"` // ticks per second
	ShowStatus bool `yaml:"show_status"`
}

// GestureConfig defines how pointer motion is classified.
type GestureConfig struct {
	TapThreshold       float64 `yaml:"tap_threshold"`
	FingerHalfWidth    float64 `yaml:"finger_half_width"`
	FingerHalfHeight   float64 `yaml:"finger_half_height"`
	ExtendMovesOutside bool    `yaml:"extend_moves_outside"`
	MinFlingSpeed      float64 `yaml:"min_fling_speed"`
	MaxFlingSpeed      float64 `yaml:"max_fling_speed"`
	VelocityWindowMs   int     `yaml:"velocity_window_ms"`
}

// SceneConfig tunes how built-in scenes populate the surface.
type SceneConfig struct {
	Sprites  int     `yaml:"sprites"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
	MinSize  float64 `yaml:"min_size"`
	MaxSize  float64 `yaml:"max_size"`
}

// Classifier converts the YAML gesture section into classifier tuning.
func (g GestureConfig) Classifier() gesture.Config {
	return gesture.Config{
		TapThreshold:       g.TapThreshold,
		FingerHalfWidth:    g.FingerHalfWidth,
		FingerHalfHeight:   g.FingerHalfHeight,
		ExtendMovesOutside: g.ExtendMovesOutside,
		MinFlingSpeed:      g.MinFlingSpeed,
		MaxFlingSpeed:      g.MaxFlingSpeed,
		VelocityWindow:     time.Duration(g.VelocityWindowMs) * time.Millisecond,
	}
}

// Validate reports the first unusable setting.
func (c CanvasConfig) Validate() error {
	d := c.Display
	if d.CellWidth <= 0 || d.CellHeight <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %dx%d", ErrInvalid, d.CellWidth, d.CellHeight)
	}
	if d.TickRate <= 0 || d.TickRate > 240 {
		return fmt.Errorf("%w: tick_rate must be within 1..240, got %d", ErrInvalid, d.TickRate)
	}

	if err := c.Gesture.Classifier().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s := c.Scene
	if s.Sprites < 0 {
		return fmt.Errorf("%w: scene sprites must not be negative, got %d", ErrInvalid, s.Sprites)
	}
	if s.MinSpeed < 0 || s.MaxSpeed < s.MinSpeed {
		return fmt.Errorf("%w: scene speed range %v..%v", ErrInvalid, s.MinSpeed, s.MaxSpeed)
	}
	if s.MinSize <= 0 || s.MaxSize < s.MinSize {
		return fmt.Errorf("%w: scene size range %v..%v", ErrInvalid, s.MinSize, s.MaxSize)
	}
	return nil
}
