package gesture

import "time"

type sample struct {
	x, y float64
	at   time.Time
}

// velocityTracker estimates pointer velocity from the samples that fall
// inside a sliding time window ending at the newest sample.
type velocityTracker struct {
	window  time.Duration
	samples []sample
}

func (v *velocityTracker) reset() {
	v.samples = v.samples[:0]
}

func (v *velocityTracker) add(x, y float64, at time.Time) {
	v.samples = append(v.samples, sample{x: x, y: y, at: at})
	cutoff := at.Add(-v.window)
	drop := 0
	for drop < len(v.samples)-1 && v.samples[drop].at.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		v.samples = append(v.samples[:0], v.samples[drop:]...)
	}
}

// velocity returns pixels per millisecond along each axis.
func (v *velocityTracker) velocity() (vx, vy float64) {
	if len(v.samples) < 2 {
		return 0, 0
	}
	first := v.samples[0]
	last := v.samples[len(v.samples)-1]
	ms := float64(last.at.Sub(first.at)) / float64(time.Millisecond)
	if ms <= 0 {
		return 0, 0
	}
	return (last.x - first.x) / ms, (last.y - first.y) / ms
}
