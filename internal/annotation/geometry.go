package annotation

import (
	"math"

	"github.com/OCAP2/tacticboard/internal/geo"
	"github.com/OCAP2/tacticboard/pkg/core"
)

const (
	// wavy ripple parameters
	wavyDensity   = 4
	wavyFrequency = 0.8
	wavyAmplitude = 1.2

	ArrowRadius = 0.6
	ArrowLength = 2.0
)

// Arrowhead is the terminal decoration of every non-wavy line: a cone at Tip
// pointing along Direction.
type Arrowhead struct {
	Tip       core.Vec3
	Direction core.Vec3 // unit length
	Heading   float64   // yaw of Direction, same convention as entity headings
	Radius    float64
	Length    float64
}

// Geometry is what the renderer draws for a line.
type Geometry struct {
	Kind   core.LineKind
	Color  core.Color
	Dashed bool
	Points []core.Vec3
	Arrow  *Arrowhead
	// Length is the planar length of Points, used to scale dash patterns.
	Length float64
}

// Finalize derives render geometry from the control points of a line.
// It is pure: the same line always yields the same geometry.
func Finalize(line core.Line) Geometry {
	pts := make([]core.Vec3, len(line.Points))
	for i, p := range line.Points {
		pts[i] = flatten(p)
	}

	g := Geometry{
		Kind:   line.Kind,
		Color:  line.Color,
		Dashed: line.Kind == core.LineDashed,
		Points: pts,
	}

	switch line.Kind {
	case core.LineWavy:
		if len(pts) > 1 {
			g.Points = Wavy(pts)
		}
	default:
		g.Arrow = arrowhead(pts)
	}
	g.Length = geo.Length(g.Points)
	return g
}

// Wavy fits a curve through points, resamples it at four times the point
// density and offsets every sample sideways by a fixed sine ripple.
func Wavy(points []core.Vec3) []core.Vec3 {
	curved := NewCatmullRom(points).Points(len(points) * wavyDensity)
	up := core.Vec3{Y: 1}

	out := make([]core.Vec3, len(curved))
	for i, p := range curved {
		var d core.Vec3
		if i < len(curved)-1 {
			d = sub(curved[i+1], p)
		} else {
			d = sub(p, curved[i-1])
		}
		out[i] = p

		tangent, ok := normalize(d)
		if !ok {
			continue
		}
		normal, ok := normalize(cross(tangent, up))
		if !ok {
			continue
		}
		offset := math.Sin(float64(i)*wavyFrequency) * wavyAmplitude
		out[i] = core.Vec3{
			X: p.X + normal.X*offset,
			Y: p.Y + normal.Y*offset,
			Z: p.Z + normal.Z*offset,
		}
	}
	return out
}

func arrowhead(pts []core.Vec3) *Arrowhead {
	if len(pts) < 2 {
		return nil
	}
	end := pts[len(pts)-1]
	dir, ok := normalize(sub(end, pts[len(pts)-2]))
	if !ok {
		return nil
	}
	return &Arrowhead{
		Tip:       end,
		Direction: dir,
		Heading:   math.Atan2(dir.X, dir.Z),
		Radius:    ArrowRadius,
		Length:    ArrowLength,
	}
}

func cross(a, b core.Vec3) core.Vec3 {
	return core.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
