package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampToPitch(t *testing.T) {
	tests := []struct {
		name string
		in   Position2D
		want Position2D
	}{
		{"inside", Position2D{X: 10, Z: -5}, Position2D{X: 10, Z: -5}},
		{"far right", Position2D{X: 500, Z: 0}, Position2D{X: 52.5, Z: 0}},
		{"far left", Position2D{X: -53, Z: 0}, Position2D{X: -52.5, Z: 0}},
		{"top", Position2D{X: 0, Z: 40}, Position2D{X: 0, Z: 34}},
		{"corner", Position2D{X: -1e9, Z: -1e9}, Position2D{X: -52.5, Z: -34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToPitch(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, OnPitch(got))
		})
	}
}

func TestPlayerID(t *testing.T) {
	assert.Equal(t, "teamA-9", PlayerID(TeamA, 9))
	assert.Equal(t, "teamB-12", PlayerID(TeamB, 12))
}

func TestDefaultHeading(t *testing.T) {
	assert.Equal(t, math.Pi/2, TeamA.DefaultHeading())
	assert.Equal(t, -math.Pi/2, TeamB.DefaultHeading())
	assert.Equal(t, 0.0, TeamNone.DefaultHeading())
}

func TestHeadingTowards(t *testing.T) {
	origin := Position2D{}
	assert.InDelta(t, math.Pi/2, HeadingTowards(origin, Position2D{X: 10}), 1e-9)
	assert.InDelta(t, -math.Pi/2, HeadingTowards(origin, Position2D{X: -10}), 1e-9)
	assert.InDelta(t, 0, HeadingTowards(origin, Position2D{Z: 3}), 1e-9)
}

func TestColorValid(t *testing.T) {
	assert.True(t, Color("#fff").Valid())
	assert.True(t, Color("#3B82F6").Valid())
	assert.False(t, Color("red").Valid())
	assert.False(t, Color("#12345").Valid())
	assert.False(t, Color("#gggggg").Valid())
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := Snapshot{
		Entities: []Pose{{ID: BallID, X: 1, Z: 2}},
		Lines:    []Line{{Kind: LineSolid, Points: []Vec3{{X: 1}, {X: 2}}, Color: "#fff"}},
	}
	c := s.Clone()
	assert.True(t, s.Equal(c))

	c.Lines[0].Points[0].X = 99
	c.Entities[0].X = 99
	assert.Equal(t, 1.0, s.Lines[0].Points[0].X)
	assert.Equal(t, 1.0, s.Entities[0].X)
	assert.False(t, s.Equal(c))
}

func TestLineKindValid(t *testing.T) {
	for _, k := range []LineKind{LineSolid, LineDashed, LineWavy, LineArrow} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, LineKind("zigzag").Valid())
}
