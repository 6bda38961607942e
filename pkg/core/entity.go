// pkg/core/entity.go
package core

import (
	"fmt"
	"math"
)

// Team identifies which side a player belongs to. The ball has no team.
type Team string

const (
	TeamNone Team = ""
	TeamA    Team = "teamA"
	TeamB    Team = "teamB"
)

// Valid reports whether t is one of the two playing sides.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// DefaultHeading is the facing of a freshly placed player: team A looks
// towards +x, team B towards -x.
func (t Team) DefaultHeading() float64 {
	switch t {
	case TeamA:
		return math.Pi / 2
	case TeamB:
		return -math.Pi / 2
	default:
		return 0
	}
}

// EntityKind distinguishes players from the ball.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindBall
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindBall:
		return "ball"
	default:
		return "unknown"
	}
}

// BallID is the id of the singleton ball entity.
const BallID = "ball"

// PlayerID builds the stable id of a player, e.g. "teamA-9".
func PlayerID(team Team, shirtNumber int) string {
	return fmt.Sprintf("%s-%d", team, shirtNumber)
}

// Entity is a draggable object on the pitch: a player or the ball.
// Number and Name are display labels and only meaningful for players.
type Entity struct {
	ID       string
	Kind     EntityKind
	Team     Team
	Position Position2D
	Heading  float64 // radians about the vertical axis
	Number   string
	Name     string
}

// NewBall returns the ball at the given position.
func NewBall(p Position2D) Entity {
	return Entity{ID: BallID, Kind: KindBall, Position: p}
}

// IsBall reports whether e is the ball.
func (e Entity) IsBall() bool {
	return e.Kind == KindBall
}

// Pose extracts the snapshot tuple for e.
func (e Entity) Pose() Pose {
	return Pose{ID: e.ID, X: e.Position.X, Z: e.Position.Z, Heading: e.Heading}
}

// HeadingTowards returns the yaw that makes an entity at from face to.
// The angle follows the scene convention where heading 0 looks down +z and
// +π/2 looks down +x.
func HeadingTowards(from, to Position2D) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z)
}
