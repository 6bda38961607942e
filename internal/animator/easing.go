package animator

import "time"

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(k float64) float64

// Linear is the identity easing.
func Linear(k float64) float64 { return k }

// QuadraticInOut accelerates through the first half and decelerates
// through the second.
func QuadraticInOut(k float64) float64 {
	k *= 2
	if k < 1 {
		return 0.5 * k * k
	}
	k--
	return -0.5 * (k*(k-2) - 1)
}

// Progress returns elapsed/duration clamped to [0, 1]. A non-positive
// duration is always complete.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(duration)
}

// Interpolate returns the value between from and to after elapsed out of
// duration, shaped by ease.
func Interpolate(from, to float64, elapsed, duration time.Duration, ease Easing) float64 {
	if ease == nil {
		ease = Linear
	}
	k := ease(Progress(elapsed, duration))
	return from + (to-from)*k
}
