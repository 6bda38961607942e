package annotation

import (
	"math"

	"github.com/OCAP2/tacticboard/pkg/core"
)

// CatmullRom is an open centripetal Catmull-Rom spline through a fixed set
// of control points.
type CatmullRom struct {
	points []core.Vec3
}

// NewCatmullRom builds a spline through points. At least two points are
// needed for a meaningful curve.
func NewCatmullRom(points []core.Vec3) *CatmullRom {
	pts := make([]core.Vec3, len(points))
	copy(pts, points)
	return &CatmullRom{points: pts}
}

// Point evaluates the curve at t in [0, 1].
func (c *CatmullRom) Point(t float64) core.Vec3 {
	pts := c.points
	l := len(pts)
	switch l {
	case 0:
		return core.Vec3{}
	case 1:
		return pts[0]
	}

	p := float64(l-1) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if w == 0 && i == l-1 {
		i = l - 2
		w = 1
	}

	var p0, p3 core.Vec3
	if i > 0 {
		p0 = pts[i-1]
	} else {
		p0 = sub(scale(pts[0], 2), pts[1])
	}
	p1, p2 := pts[i], pts[i+1]
	if i+2 < l {
		p3 = pts[i+2]
	} else {
		p3 = sub(scale(pts[l-1], 2), pts[l-2])
	}

	dt0 := math.Pow(distSq(p0, p1), 0.25)
	dt1 := math.Pow(distSq(p1, p2), 0.25)
	dt2 := math.Pow(distSq(p2, p3), 0.25)

	// repeated points
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return core.Vec3{
		X: cubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, w),
		Y: cubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, w),
		Z: cubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, w),
	}
}

// Points samples the curve at divisions+1 evenly spaced parameter values,
// endpoints included.
func (c *CatmullRom) Points(divisions int) []core.Vec3 {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]core.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		out = append(out, c.Point(float64(d)/float64(divisions)))
	}
	return out
}

// cubic evaluates one axis of a non-uniform Catmull-Rom segment between
// x1 and x2.
func cubic(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	return c0 + c1*t + c2*t*t + c3*t*t*t
}

func sub(a, b core.Vec3) core.Vec3 {
	return core.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scale(a core.Vec3, s float64) core.Vec3 {
	return core.Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

func distSq(a, b core.Vec3) float64 {
	d := sub(a, b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func normalize(a core.Vec3) (core.Vec3, bool) {
	n := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	if n == 0 {
		return core.Vec3{}, false
	}
	return scale(a, 1/n), true
}
