// Package animator plays a two-keyframe transition of entity poses.
//
// The animator owns no timer. The caller pumps it with Advance on every
// frame and applies the returned poses to the scene.
package animator

import (
	"fmt"
	"time"

	"github.com/OCAP2/tacticboard/pkg/core"
)

const (
	DefaultDuration = 2000 * time.Millisecond
	DefaultSettle   = 2100 * time.Millisecond
)

// Config controls playback timing.
type Config struct {
	// Duration of the position and heading transition.
	Duration time.Duration
	// Settle is when the playing flag clears, measured from Play.
	Settle time.Duration
	// Easing for positions. Headings always interpolate linearly.
	Easing Easing
}

type track struct {
	from, to  core.Pose
	fixedTurn bool // ball: position only
}

// Animator interpolates every entity from the start keyframe to the end
// keyframe captured at Play.
type Animator struct {
	cfg Config

	start     []core.Pose
	armed     bool
	playing   bool
	startedAt time.Time
	tracks    []track
}

// New creates an animator. Zero config values fall back to the defaults.
func New(cfg Config) *Animator {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.Settle <= 0 {
		cfg.Settle = cfg.Duration + DefaultSettle - DefaultDuration
	}
	if cfg.Settle < cfg.Duration {
		cfg.Settle = cfg.Duration
	}
	if cfg.Easing == nil {
		cfg.Easing = QuadraticInOut
	}
	return &Animator{cfg: cfg}
}

// SetStart captures the start keyframe and arms playback.
func (a *Animator) SetStart(poses []core.Pose) {
	a.start = append([]core.Pose(nil), poses...)
	a.armed = true
}

// Armed reports whether a start keyframe has been captured.
func (a *Animator) Armed() bool { return a.armed }

// Playing reports whether a transition is in flight.
func (a *Animator) Playing() bool { return a.playing }

// Play captures current as the end keyframe and starts the transition.
// It returns the first frame, which places every animated entity back on
// its start pose. Entities missing from either keyframe are not animated.
func (a *Animator) Play(current []core.Pose, now time.Time) ([]core.Pose, error) {
	if !a.armed {
		return nil, fmt.Errorf("%w: no start keyframe", core.ErrInvalidState)
	}
	if a.playing {
		return nil, fmt.Errorf("%w: already playing", core.ErrInvalidState)
	}

	from := make(map[string]core.Pose, len(a.start))
	for _, p := range a.start {
		from[p.ID] = p
	}

	a.tracks = a.tracks[:0]
	for _, to := range current {
		f, ok := from[to.ID]
		if !ok {
			continue
		}
		a.tracks = append(a.tracks, track{from: f, to: to, fixedTurn: to.ID == core.BallID})
	}

	a.playing = true
	a.startedAt = now
	return a.frame(0), nil
}

// Advance returns the poses for now and reports whether playback has
// settled. Once settled the animator is idle again and keeps its start
// keyframe.
func (a *Animator) Advance(now time.Time) (frame []core.Pose, settled bool) {
	if !a.playing {
		return nil, false
	}
	elapsed := now.Sub(a.startedAt)
	frame = a.frame(elapsed)
	if elapsed >= a.cfg.Settle {
		a.playing = false
		return frame, true
	}
	return frame, false
}

// Stop abandons playback without touching the scene.
func (a *Animator) Stop() {
	a.playing = false
	a.tracks = a.tracks[:0]
}

// Reset drops the start keyframe and stops playback.
func (a *Animator) Reset() {
	a.Stop()
	a.start = nil
	a.armed = false
}

func (a *Animator) frame(elapsed time.Duration) []core.Pose {
	out := make([]core.Pose, len(a.tracks))
	for i, tr := range a.tracks {
		out[i] = core.Pose{
			ID: tr.to.ID,
			X:  Interpolate(tr.from.X, tr.to.X, elapsed, a.cfg.Duration, a.cfg.Easing),
			Z:  Interpolate(tr.from.Z, tr.to.Z, elapsed, a.cfg.Duration, a.cfg.Easing),
		}
		if tr.fixedTurn {
			out[i].Heading = tr.to.Heading
		} else {
			out[i].Heading = Interpolate(tr.from.Heading, tr.to.Heading, elapsed, a.cfg.Duration, Linear)
		}
	}
	return out
}
