package config

import (
	_ "embed"
)

//go:embed defaults/canvas.yaml
var defaultCanvasYAML []byte

// DefaultCanvasConfig returns the default canvas configuration.
func DefaultCanvasConfig() CanvasConfig {
	return CanvasConfig{
		Display: DisplayConfig{
			CellWidth:  8,
			CellHeight: 16,
			TickRate:   30,
			ShowStatus: true,
		},
		Gesture: GestureConfig{
			TapThreshold:     15,
			FingerHalfWidth:  12,
			FingerHalfHeight: 12,
			MinFlingSpeed:    0.05,
			MaxFlingSpeed:    8,
			VelocityWindowMs: 100,
		},
		Scene: SceneConfig{
			Sprites:  6,
			MinSpeed: 2,
			MaxSpeed: 8,
			MinSize:  24,
			MaxSize:  64,
		},
	}
}
