package animator

import (
	"math"
	"testing"
	"time"

	"github.com/OCAP2/tacticboard/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestQuadraticInOut(t *testing.T) {
	tests := []struct {
		k, want float64
	}{
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, QuadraticInOut(tt.k), 1e-12, "k=%v", tt.k)
	}
}

func TestInterpolate(t *testing.T) {
	d := 2 * time.Second
	assert.Equal(t, 10.0, Interpolate(10, 20, 0, d, QuadraticInOut))
	assert.InDelta(t, 15.0, Interpolate(10, 20, time.Second, d, QuadraticInOut), 1e-12)
	assert.InDelta(t, 12.5, Interpolate(10, 20, 500*time.Millisecond, d, nil), 1e-12)
	assert.Equal(t, 20.0, Interpolate(10, 20, 3*time.Second, d, QuadraticInOut))
	assert.Equal(t, 20.0, Interpolate(10, 20, 0, 0, Linear))
	assert.Equal(t, 10.0, Interpolate(10, 20, -time.Second, d, Linear))
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})
	assert.Equal(t, DefaultDuration, a.cfg.Duration)
	assert.Equal(t, DefaultSettle, a.cfg.Settle)

	a = New(Config{Duration: 5 * time.Second, Settle: time.Second})
	assert.Equal(t, 5*time.Second, a.cfg.Settle)
}

func TestPlay_RequiresStart(t *testing.T) {
	a := New(Config{})
	_, err := a.Play(nil, t0)
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.False(t, a.Playing())
}

func TestPlay_RejectsConcurrent(t *testing.T) {
	a := New(Config{})
	a.SetStart([]core.Pose{{ID: "teamA-1"}})
	_, err := a.Play([]core.Pose{{ID: "teamA-1", X: 10}}, t0)
	require.NoError(t, err)

	_, err = a.Play([]core.Pose{{ID: "teamA-1", X: 20}}, t0.Add(time.Second))
	assert.ErrorIs(t, err, core.ErrInvalidState)

	frame, _ := a.Advance(t0.Add(DefaultDuration))
	assert.Equal(t, 10.0, frame[0].X, "end keyframe unchanged by rejected play")
}

func TestPlayback(t *testing.T) {
	a := New(Config{})
	start := []core.Pose{
		{ID: "teamA-1", X: -50, Z: 0, Heading: 0},
		{ID: core.BallID, X: 0, Z: 0},
	}
	end := []core.Pose{
		{ID: "teamA-1", X: -40, Z: 0, Heading: math.Pi},
		{ID: core.BallID, X: 10, Z: 4, Heading: 1},
	}
	a.SetStart(start)
	require.True(t, a.Armed())

	first, err := a.Play(end, t0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, -50.0, first[0].X)
	assert.Equal(t, 0.0, first[0].Heading)
	assert.True(t, a.Playing())

	mid, settled := a.Advance(t0.Add(time.Second))
	assert.False(t, settled)
	assert.InDelta(t, -45.0, mid[0].X, 1e-9)
	assert.InDelta(t, math.Pi/2, mid[0].Heading, 1e-9)
	assert.InDelta(t, 5.0, mid[1].X, 1e-9)
	assert.Equal(t, 1.0, mid[1].Heading, "ball does not turn")

	quarter, _ := a.Advance(t0.Add(500 * time.Millisecond))
	assert.InDelta(t, -48.75, quarter[0].X, 1e-9, "eased position")
	assert.InDelta(t, math.Pi/4, quarter[0].Heading, 1e-9, "linear heading")

	done, settled := a.Advance(t0.Add(DefaultDuration))
	assert.False(t, settled)
	assert.Equal(t, -40.0, done[0].X)
	assert.True(t, a.Playing())

	final, settled := a.Advance(t0.Add(DefaultSettle))
	assert.True(t, settled)
	assert.Equal(t, -40.0, final[0].X)
	assert.False(t, a.Playing())
	assert.True(t, a.Armed(), "start keyframe survives playback")

	frame, settled := a.Advance(t0.Add(time.Hour))
	assert.Nil(t, frame)
	assert.False(t, settled)
}

func TestPlay_SkipsEntitiesMissingFromStart(t *testing.T) {
	a := New(Config{})
	a.SetStart([]core.Pose{{ID: "teamA-1"}})

	frame, err := a.Play([]core.Pose{{ID: "teamA-1", X: 1}, {ID: "teamB-1", X: 2}}, t0)
	require.NoError(t, err)
	require.Len(t, frame, 1)
	assert.Equal(t, "teamA-1", frame[0].ID)
}

func TestReset(t *testing.T) {
	a := New(Config{})
	a.SetStart([]core.Pose{{ID: "teamA-1"}})
	_, err := a.Play([]core.Pose{{ID: "teamA-1"}}, t0)
	require.NoError(t, err)

	a.Reset()
	assert.False(t, a.Armed())
	assert.False(t, a.Playing())
}
