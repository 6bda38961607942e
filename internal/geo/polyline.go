// Package geo holds planar geometry helpers for annotation lines.
// Lines are projected onto the pitch plane: scene x maps to geometry X and
// scene z maps to geometry Y. Height is ignored.
package geo

import (
	"fmt"
	"math"

	"github.com/OCAP2/tacticboard/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ToLineString projects control points onto the pitch plane.
// Fewer than two points yield an empty line string. Points that do not form
// a valid line string, such as repeats of a single position, are rejected.
func ToLineString(points []core.Vec3) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, nil
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Z)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("line string from %d points: %w", len(points), err)
	}
	return ls, nil
}

// toPoint converts a pitch position to a geometry point.
func toPoint(p core.Position2D) (geom.Point, error) {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Z}, Type: geom.DimXY})
}

// collapsed reports whether every point shares one pitch position.
func collapsed(points []core.Vec3) bool {
	first := points[0].Planar()
	for _, p := range points[1:] {
		if p.Planar() != first {
			return false
		}
	}
	return true
}

// Length returns the planar length of the polyline through points.
func Length(points []core.Vec3) float64 {
	if len(points) < 2 {
		return 0
	}
	ls, err := ToLineString(points)
	if err != nil {
		return 0
	}
	return ls.Length()
}

// DistanceTo returns the planar distance from p to the polyline through
// points. A single point, or points that all share one position, is
// treated as a dot. An empty polyline or invalid geometry is infinitely far
// away.
func DistanceTo(p core.Position2D, points []core.Vec3) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if collapsed(points) {
		return core.Distance2D(p, points[0].Planar())
	}
	pt, err := toPoint(p)
	if err != nil {
		return math.Inf(1)
	}
	ls, err := ToLineString(points)
	if err != nil {
		return math.Inf(1)
	}
	d, ok := geom.Distance(pt.AsGeometry(), ls.AsGeometry())
	if !ok {
		return math.Inf(1)
	}
	return d
}
