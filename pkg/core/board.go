// pkg/core/board.go
package core

// Pose is the per-entity part of a snapshot.
type Pose struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Heading float64 `json:"rotY"`
}

// Snapshot is an immutable capture of entity poses and lines used by the
// undo/redo history. It deliberately leaves out team configuration, view
// mode and display labels.
type Snapshot struct {
	Entities []Pose `json:"entities"`
	Lines    []Line `json:"lines"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Entities: make([]Pose, len(s.Entities)),
		Lines:    make([]Line, len(s.Lines)),
	}
	copy(out.Entities, s.Entities)
	for i, l := range s.Lines {
		out.Lines[i] = l.Clone()
	}
	return out
}

// Equal reports whether two snapshots describe the same board.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.Entities) != len(o.Entities) || len(s.Lines) != len(o.Lines) {
		return false
	}
	for i := range s.Entities {
		if s.Entities[i] != o.Entities[i] {
			return false
		}
	}
	for i := range s.Lines {
		if !s.Lines[i].Equal(o.Lines[i]) {
			return false
		}
	}
	return true
}

// PlayerRecord is a player as stored in the persisted board state.
type PlayerRecord struct {
	Team   Team    `json:"team"`
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	RotY   float64 `json:"rotY"`
	Number string  `json:"number"`
	Name   string  `json:"name"`
}

// BoardState is the durable record of a board: a superset of Snapshot that
// also carries team configuration, presentation flags and labels.
type BoardState struct {
	TeamAColor     Color          `json:"teamAColor"`
	TeamBColor     Color          `json:"teamBColor"`
	TeamAFormation string         `json:"teamAFormation"`
	TeamBFormation string         `json:"teamBFormation"`
	ShowOpponent   bool           `json:"showOpponent"`
	ViewMode       ViewMode       `json:"viewMode"`
	IsDarkMode     bool           `json:"isDarkMode"`
	Language       string         `json:"language"`
	Ball           Position2D     `json:"ball"`
	Players        []PlayerRecord `json:"players"`
	Lines          []Line         `json:"lines"`
}
