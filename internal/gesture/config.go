package gesture

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("gesture: invalid config")

// Config tunes how pointer motion is classified. Distances are surface
// pixels, speeds are pixels per millisecond.
type Config struct {
	// TapThreshold is how far the pointer may wander from the touch-down
	// point on either axis before the sequence becomes a drag.
	TapThreshold float64
	// FingerHalfWidth and FingerHalfHeight size the hit box around a touch.
	FingerHalfWidth  float64
	FingerHalfHeight float64
	// ExtendMovesOutside reports drag coordinates beyond the surface edges
	// instead of clamping them.
	ExtendMovesOutside bool

	MinFlingSpeed  float64
	MaxFlingSpeed  float64
	VelocityWindow time.Duration
}

// DefaultConfig returns the standard gesture tuning.
func DefaultConfig() Config {
	return Config{
		TapThreshold:     15,
		FingerHalfWidth:  12,
		FingerHalfHeight: 12,
		MinFlingSpeed:    0.05,
		MaxFlingSpeed:    8,
		VelocityWindow:   100 * time.Millisecond,
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	switch {
	case c.TapThreshold <= 0:
		return fmt.Errorf("%w: tap threshold must be positive, got %v", ErrInvalidConfig, c.TapThreshold)
	case c.FingerHalfWidth <= 0 || c.FingerHalfHeight <= 0:
		return fmt.Errorf("%w: finger box must be positive, got %vx%v", ErrInvalidConfig, c.FingerHalfWidth, c.FingerHalfHeight)
	case c.MinFlingSpeed < 0:
		return fmt.Errorf("%w: min fling speed must not be negative, got %v", ErrInvalidConfig, c.MinFlingSpeed)
	case c.MaxFlingSpeed < c.MinFlingSpeed:
		return fmt.Errorf("%w: max fling speed %v below min %v", ErrInvalidConfig, c.MaxFlingSpeed, c.MinFlingSpeed)
	case c.VelocityWindow <= 0:
		return fmt.Errorf("%w: velocity window must be positive, got %v", ErrInvalidConfig, c.VelocityWindow)
	}
	return nil
}
