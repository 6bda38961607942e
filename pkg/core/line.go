// pkg/core/line.go
package core

// LineKind selects how an annotation line is finished.
type LineKind string

const (
	LineSolid  LineKind = "solid"
	LineDashed LineKind = "dashed"
	LineWavy   LineKind = "wavy"
	LineArrow  LineKind = "arrow"
)

// Valid reports whether k is a known line kind.
func (k LineKind) Valid() bool {
	switch k {
	case LineSolid, LineDashed, LineWavy, LineArrow:
		return true
	}
	return false
}

// Line is an annotation stroke. Points holds the captured control points,
// which are the replayable source of truth; render geometry is derived
// from them.
type Line struct {
	Kind   LineKind `json:"type"`
	Points []Vec3   `json:"points"`
	Color  Color    `json:"color"`
}

// Clone returns a deep copy of l.
func (l Line) Clone() Line {
	pts := make([]Vec3, len(l.Points))
	copy(pts, l.Points)
	return Line{Kind: l.Kind, Points: pts, Color: l.Color}
}

// Equal reports whether two lines have the same kind, colour and points.
func (l Line) Equal(o Line) bool {
	if l.Kind != o.Kind || l.Color != o.Color || len(l.Points) != len(o.Points) {
		return false
	}
	for i := range l.Points {
		if l.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}
