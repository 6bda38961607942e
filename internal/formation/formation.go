// Package formation projects named formation templates onto the pitch.
//
// Projection always starts from the static template, so calling Project
// twice with the same arguments yields the same players no matter what
// happened to the board in between.
package formation

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/OCAP2/tacticboard/pkg/core"
)

// Default is the formation used for a fresh board.
const Default = "4-3-3"

// Keys returns the known formation keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Valid reports whether key names a known formation.
func Valid(key string) bool {
	_, ok := templates[key]
	return ok
}

// HalfPitchX maps a full-pitch x coordinate into the left half of the
// pitch. The mapping is affine and strictly increasing, so teammates keep
// their ordering along x.
func HalfPitchX(x float64) float64 {
	return (x - core.FieldWidth/2) / 2
}

// Project returns the players of team for the formation key in the given
// view. A hidden opponent (team B with showOpponent false) yields no
// players. Display names are left empty for the caller to fill in.
func Project(team core.Team, key string, view core.ViewMode, showOpponent bool) ([]core.Entity, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("unknown team %q", team)
	}
	tpl, ok := templates[key]
	if !ok {
		return nil, fmt.Errorf("unknown formation %q", key)
	}
	if !view.Valid() {
		return nil, fmt.Errorf("unknown view mode %q", view)
	}
	if team == core.TeamB && !showOpponent {
		return []core.Entity{}, nil
	}

	slots := tpl.side(team)
	players := make([]core.Entity, 0, len(slots))
	for _, s := range slots {
		x := s.X
		if view == core.ViewHalf {
			x = HalfPitchX(x)
		}
		players = append(players, core.Entity{
			ID:       core.PlayerID(team, s.Number),
			Kind:     core.KindPlayer,
			Team:     team,
			Position: core.Position2D{X: x, Z: s.Z},
			Heading:  team.DefaultHeading(),
			Number:   strconv.Itoa(s.Number),
		})
	}
	return players, nil
}
