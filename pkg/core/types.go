// pkg/core/types.go
package core

import (
	"errors"
	"math"
)

// Pitch dimensions in metres. The pitch is centred on the origin with the
// long axis on x.
const (
	FieldWidth  = 105.0
	FieldHeight = 68.0

	// LineHeight lifts annotation geometry above the pitch texture.
	LineHeight = 0.15
)

// ErrNotFound is returned when an operation references an entity that is not
// on the board.
var ErrNotFound = errors.New("entity not found")

// ErrInvalidState is returned when an operation is not allowed in the current
// state (e.g. playing an animation with no start keyframe).
var ErrInvalidState = errors.New("invalid state")

// Vec3 is a point in scene space. Y is the height above the pitch.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Position2D is a planar pitch coordinate.
type Position2D struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Planar drops the height component.
func (v Vec3) Planar() Position2D {
	return Position2D{X: v.X, Z: v.Z}
}

// Distance2D returns the planar distance between two points.
func Distance2D(a, b Position2D) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

// ClampToPitch limits a position to the pitch rectangle.
func ClampToPitch(p Position2D) Position2D {
	return Position2D{
		X: clamp(p.X, -FieldWidth/2, FieldWidth/2),
		Z: clamp(p.Z, -FieldHeight/2, FieldHeight/2),
	}
}

// OnPitch reports whether p lies inside the pitch rectangle.
func OnPitch(p Position2D) bool {
	return p.X >= -FieldWidth/2 && p.X <= FieldWidth/2 &&
		p.Z >= -FieldHeight/2 && p.Z <= FieldHeight/2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ViewMode selects full or half pitch presentation.
type ViewMode string

const (
	ViewFull ViewMode = "full"
	ViewHalf ViewMode = "half"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewFull || m == ViewHalf
}

// Color is a CSS hex colour string such as "#ff0000".
type Color string

// Valid reports whether c is a #rgb or #rrggbb hex colour.
func (c Color) Valid() bool {
	s := string(c)
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
