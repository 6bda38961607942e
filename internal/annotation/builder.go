// Package annotation captures freehand strokes drawn on the pitch and turns
// them into render geometry.
package annotation

import (
	"github.com/OCAP2/tacticboard/pkg/core"
)

// MinSpacing is the minimum planar distance between consecutive control
// points of a stroke.
const MinSpacing = 0.5

// Builder accumulates the control points of one stroke at a time.
type Builder struct {
	kind   core.LineKind
	color  core.Color
	points []core.Vec3
	active bool
}

// Begin starts a new stroke at p, discarding any unfinished one.
func (b *Builder) Begin(kind core.LineKind, color core.Color, p core.Vec3) {
	b.kind = kind
	b.color = color
	b.points = []core.Vec3{flatten(p)}
	b.active = true
}

// Active reports whether a stroke is in progress.
func (b *Builder) Active() bool {
	return b.active
}

// Extend appends p if it lies at least MinSpacing away from the last
// control point on the pitch plane. It reports whether p was kept.
func (b *Builder) Extend(p core.Vec3) bool {
	if !b.active {
		return false
	}
	last := b.points[len(b.points)-1]
	if core.Distance2D(last.Planar(), p.Planar()) < MinSpacing {
		return false
	}
	b.points = append(b.points, flatten(p))
	return true
}

// Current returns the stroke in progress as a line, for live preview.
func (b *Builder) Current() (core.Line, bool) {
	if !b.active {
		return core.Line{}, false
	}
	return core.Line{Kind: b.kind, Points: b.points, Color: b.color}.Clone(), true
}

// Finish ends the stroke and returns it. The builder is reset.
func (b *Builder) Finish() (core.Line, bool) {
	line, ok := b.Current()
	b.Reset()
	return line, ok
}

// Reset drops the stroke in progress.
func (b *Builder) Reset() {
	b.points = nil
	b.active = false
}

func flatten(p core.Vec3) core.Vec3 {
	p.Y = core.LineHeight
	return p
}
