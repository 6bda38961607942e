// Package scene holds the authoritative logical state of a board: entity
// poses, labels and annotation lines. It knows nothing about rendering.
//
// A Scene is owned by a single board session and is not safe for
// concurrent use.
package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ErikKalkoken/go-set"

	"github.com/OCAP2/tacticboard/internal/geo"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// Scene is the spatial model of a board.
type Scene struct {
	entities []core.Entity
	index    map[string]int
	lines    []core.Line
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{index: make(map[string]int)}
}

// Len returns the number of entities, ball included.
func (s *Scene) Len() int {
	return len(s.entities)
}

// Entities returns a copy of all entities in scene order.
func (s *Scene) Entities() []core.Entity {
	return slices.Clone(s.entities)
}

// Entity returns the entity with the given id.
func (s *Scene) Entity(id string) (core.Entity, bool) {
	i, ok := s.index[id]
	if !ok {
		return core.Entity{}, false
	}
	return s.entities[i], true
}

// Team returns the players of one team in scene order.
func (s *Scene) Team(team core.Team) []core.Entity {
	var out []core.Entity
	for _, e := range s.entities {
		if e.Kind == core.KindPlayer && e.Team == team {
			out = append(out, e)
		}
	}
	return out
}

func (s *Scene) lookup(id string) (*core.Entity, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return &s.entities[i], nil
}

// SetEntityPosition moves an entity, clamping the target to the pitch.
// It returns the position actually applied.
func (s *Scene) SetEntityPosition(id string, x, z float64) (core.Position2D, error) {
	e, err := s.lookup(id)
	if err != nil {
		return core.Position2D{}, err
	}
	e.Position = core.ClampToPitch(core.Position2D{X: x, Z: z})
	return e.Position, nil
}

// SetEntityHeading turns an entity to face point on the pitch plane and
// returns the resulting heading. A point equal to the entity position
// leaves the heading unchanged.
func (s *Scene) SetEntityHeading(id string, point core.Position2D) (float64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	if point == e.Position {
		return e.Heading, nil
	}
	e.Heading = core.HeadingTowards(e.Position, point)
	return e.Heading, nil
}

// Place sets position and heading verbatim, without clamping. It is used
// for programmatic moves such as history restore and animation.
func (s *Scene) Place(id string, p core.Position2D, heading float64) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.Position = p
	e.Heading = heading
	return nil
}

// SetLabel updates the display number and name of a player.
func (s *Scene) SetLabel(id, number, name string) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	if e.IsBall() {
		return fmt.Errorf("%w: the ball has no label", core.ErrInvalidState)
	}
	e.Number = number
	e.Name = name
	return nil
}

// ReplaceEntities swaps the whole entity list. Ids must be unique.
func (s *Scene) ReplaceEntities(list []core.Entity) error {
	seen := set.Of[string]()
	for _, e := range list {
		if seen.Contains(e.ID) {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		seen.Add(e.ID)
	}
	s.entities = slices.Clone(list)
	s.reindex()
	return nil
}

// ReplaceTeam drops every player of team and appends players in their place
// at the end of the entity list. Other entities keep their order.
func (s *Scene) ReplaceTeam(team core.Team, players []core.Entity) error {
	kept := make([]core.Entity, 0, len(s.entities)+len(players))
	for _, e := range s.entities {
		if e.Kind == core.KindPlayer && e.Team == team {
			continue
		}
		kept = append(kept, e)
	}
	return s.ReplaceEntities(append(kept, players...))
}

func (s *Scene) reindex() {
	s.index = make(map[string]int, len(s.entities))
	for i, e := range s.entities {
		s.index[e.ID] = i
	}
}

// Lines returns copies of all annotation lines in drawing order.
func (s *Scene) Lines() []core.Line {
	out := make([]core.Line, len(s.lines))
	for i, l := range s.lines {
		out[i] = l.Clone()
	}
	return out
}

// LineCount returns the number of annotation lines.
func (s *Scene) LineCount() int {
	return len(s.lines)
}

// AddLine appends a line and returns its index.
func (s *Scene) AddLine(l core.Line) int {
	s.lines = append(s.lines, l.Clone())
	return len(s.lines) - 1
}

// RemoveAllLines clears every annotation line.
func (s *Scene) RemoveAllLines() {
	s.lines = nil
}

// RemoveLine deletes the line at index i.
func (s *Scene) RemoveLine(i int) error {
	if i < 0 || i >= len(s.lines) {
		return fmt.Errorf("%w: line %d", core.ErrNotFound, i)
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	return nil
}

// LineAt returns the index of the topmost line within tolerance of p.
func (s *Scene) LineAt(p core.Position2D, tolerance float64) (int, bool) {
	for i := len(s.lines) - 1; i >= 0; i-- {
		if geo.DistanceTo(p, s.lines[i].Points) <= tolerance {
			return i, true
		}
	}
	return -1, false
}

// Snapshot captures entity poses and lines.
func (s *Scene) Snapshot() core.Snapshot {
	snap := core.Snapshot{
		Entities: make([]core.Pose, len(s.entities)),
		Lines:    s.Lines(),
	}
	for i, e := range s.entities {
		snap.Entities[i] = e.Pose()
	}
	return snap
}

// ApplySnapshot restores poses of entities present in both the scene and
// the snapshot and replaces all lines. Snapshot entities missing from the
// scene are skipped and reported with an error wrapping core.ErrNotFound;
// the rest of the snapshot is still applied.
func (s *Scene) ApplySnapshot(snap core.Snapshot) error {
	missing := set.Of[string]()
	for _, p := range snap.Entities {
		i, ok := s.index[p.ID]
		if !ok {
			missing.Add(p.ID)
			continue
		}
		s.entities[i].Position = core.Position2D{X: p.X, Z: p.Z}
		s.entities[i].Heading = p.Heading
	}

	s.lines = make([]core.Line, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		s.lines = append(s.lines, l.Clone())
	}

	if missing.Size() > 0 {
		ids := slices.Sorted(missing.All())
		return fmt.Errorf("%w: %s", core.ErrNotFound, strings.Join(ids, ", "))
	}
	return nil
}
