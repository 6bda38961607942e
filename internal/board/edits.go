package board

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/OCAP2/tacticboard/internal/annotation"
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/internal/interaction"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// EraseTolerance is how far from a line, in metres, the erase tool still
// hits it.
const EraseTolerance = 1.0

// HandlePointer feeds a pointer event to the interaction controller.
// Down and move events are ignored while an animation is playing; up and
// cancel always reach the controller so it can return to idle.
func (s *Session) HandlePointer(ev interaction.PointerEvent) error {
	if s.animator.Playing() && (ev.Kind == interaction.PointerDown || ev.Kind == interaction.PointerMove) {
		return nil
	}
	if err := s.controller.Handle(ev); err != nil {
		s.log.Debug("Pointer update skipped", "error", err)
		return err
	}
	return nil
}

func (s *Session) commitGesture(g interaction.Gesture) {
	s.metrics.gestures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tool", string(g.Tool))))
	if g.Tool == interaction.ToolDraw {
		if g.Line == nil {
			return
		}
		s.scene.AddLine(*g.Line)
	}
	s.commit(string(g.Tool))
}

// SetTool selects the tool used by the next gesture.
func (s *Session) SetTool(t interaction.Tool) error {
	return s.controller.SetTool(t)
}

// SetLineKind selects the stroke kind of the draw tool.
func (s *Session) SetLineKind(k core.LineKind) error {
	return s.controller.SetLineKind(k)
}

// SetDrawColor selects the stroke colour of the draw tool.
func (s *Session) SetDrawColor(c core.Color) error {
	return s.controller.SetColor(c)
}

// InteractionState returns the pointer controller state.
func (s *Session) InteractionState() interaction.State {
	return s.controller.State()
}

// Undo steps back one history entry. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	s.metrics.undo.Add(context.Background(), 1)
	return true
}

// Redo steps forward one history entry. It reports false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	s.metrics.redo.Add(context.Background(), 1)
	return true
}

func (s *Session) restore(snap core.Snapshot) {
	s.animator.Stop()
	if err := s.scene.ApplySnapshot(snap); err != nil {
		s.log.Debug("Snapshot entities missing from the board", "error", err)
	}
	s.persist()
	s.emitHistory()
}

// SetFormation changes the formation of a team and re-places its players.
func (s *Session) SetFormation(team core.Team, key string) error {
	if !team.Valid() {
		return fmt.Errorf("unknown team %q", team)
	}
	if !formation.Valid(key) {
		return fmt.Errorf("unknown formation %q", key)
	}
	s.settings.setFormation(team, key)
	return s.refresh("formation")
}

// SetShowOpponent shows or hides team B.
func (s *Session) SetShowOpponent(show bool) error {
	s.settings.showOpponent = show
	return s.refresh("opponent")
}

// SetViewMode switches between full and half pitch.
func (s *Session) SetViewMode(mode core.ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	s.settings.view = mode
	return s.refresh("view")
}

// ResetPositions puts the ball on the centre spot and both teams back on
// their formation templates.
func (s *Session) ResetPositions() error {
	if err := s.scene.Place(core.BallID, core.Position2D{}, 0); err != nil {
		return err
	}
	return s.refresh("reset")
}

func (s *Session) refresh(reason string) error {
	s.animator.Stop()
	if err := s.regenerate(); err != nil {
		return err
	}
	s.log.Debug("Formations regenerated", "reason", reason)
	s.commit(reason)
	return nil
}

// ClearLines removes every annotation line.
func (s *Session) ClearLines() {
	s.scene.RemoveAllLines()
	s.commit("clear")
}

// EraseLineAt removes the topmost line within EraseTolerance of p. It
// reports false when no line is hit.
func (s *Session) EraseLineAt(p core.Position2D) bool {
	i, ok := s.scene.LineAt(p, EraseTolerance)
	if !ok {
		return false
	}
	if err := s.scene.RemoveLine(i); err != nil {
		return false
	}
	s.commit("erase")
	return true
}

// SetPlayerNumber changes a shirt number. Labels are persisted but not
// part of the undo history.
func (s *Session) SetPlayerNumber(id, number string) error {
	e, ok := s.scene.Entity(id)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err := s.scene.SetLabel(id, number, e.Name); err != nil {
		return err
	}
	s.persist()
	return nil
}

// SetPlayerName changes a display name.
func (s *Session) SetPlayerName(id, name string) error {
	e, ok := s.scene.Entity(id)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err := s.scene.SetLabel(id, e.Number, name); err != nil {
		return err
	}
	s.persist()
	return nil
}

// SetTeamColor changes a kit colour.
func (s *Session) SetTeamColor(team core.Team, c core.Color) error {
	if !c.Valid() {
		return fmt.Errorf("invalid colour %q", c)
	}
	switch team {
	case core.TeamA:
		s.settings.teamAColor = c
	case core.TeamB:
		s.settings.teamBColor = c
	default:
		return fmt.Errorf("unknown team %q", team)
	}
	s.persist()
	return nil
}

// TeamColor returns the kit colour of team.
func (s *Session) TeamColor(team core.Team) core.Color {
	return s.settings.color(team)
}

// SetDarkMode toggles the dark theme flag.
func (s *Session) SetDarkMode(dark bool) {
	s.settings.dark = dark
	s.persist()
}

// SetLanguage changes the language. Existing names are kept; only players
// created afterwards get the new default name.
func (s *Session) SetLanguage(lang string) error {
	if !ValidLanguage(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.settings.language = lang
	s.persist()
	return nil
}

// SetAnimationStart captures the current poses as the start keyframe.
func (s *Session) SetAnimationStart() {
	s.animator.SetStart(s.scene.Snapshot().Entities)
	s.log.Debug("Animation start captured")
}

// AnimationArmed reports whether a start keyframe exists.
func (s *Session) AnimationArmed() bool {
	return s.animator.Armed()
}

// Playing reports whether an animation is in flight.
func (s *Session) Playing() bool {
	return s.animator.Playing()
}

// Play animates from the start keyframe to the current poses. It returns
// core.ErrInvalidState when no start was captured, playback is already
// running or a pointer gesture is in progress; the board is left unchanged
// in that case.
func (s *Session) Play() error {
	if st := s.controller.State(); st != interaction.Idle {
		s.log.Debug("Play rejected", "state", st.String())
		return fmt.Errorf("play during %s gesture: %w", st, core.ErrInvalidState)
	}
	frame, err := s.animator.Play(s.scene.Snapshot().Entities, s.now())
	if err != nil {
		s.log.Debug("Play rejected", "error", err)
		return err
	}
	s.applyFrame(frame)
	return nil
}

// Tick advances playback to now. It reports whether playback settled on
// this tick; the board is persisted when it does.
func (s *Session) Tick() bool {
	frame, settled := s.animator.Advance(s.now())
	if frame == nil {
		return false
	}
	s.applyFrame(frame)
	if settled {
		s.log.Debug("Animation settled")
		s.persist()
	}
	return settled
}

func (s *Session) applyFrame(frame []core.Pose) {
	for _, p := range frame {
		if err := s.scene.Place(p.ID, core.Position2D{X: p.X, Z: p.Z}, p.Heading); err != nil && !errors.Is(err, core.ErrNotFound) {
			s.log.Warn("Failed to apply animation frame", "id", p.ID, "error", err)
		}
	}
}

// Entities returns a copy of every entity on the board.
func (s *Session) Entities() []core.Entity {
	return s.scene.Entities()
}

// Entity returns one entity.
func (s *Session) Entity(id string) (core.Entity, bool) {
	return s.scene.Entity(id)
}

// Lines returns copies of the stored annotation lines.
func (s *Session) Lines() []core.Line {
	return s.scene.Lines()
}

// RenderLines returns the finalized geometry of every line, followed by
// the stroke being drawn, if any.
func (s *Session) RenderLines() []annotation.Geometry {
	lines := s.scene.Lines()
	out := make([]annotation.Geometry, 0, len(lines)+1)
	for _, l := range lines {
		out = append(out, annotation.Finalize(l))
	}
	if preview, ok := s.controller.Preview(); ok {
		out = append(out, annotation.Finalize(preview))
	}
	return out
}

// Formation returns the formation key of team.
func (s *Session) Formation(team core.Team) string {
	return s.settings.formation(team)
}

// ShowOpponent reports whether team B is on the board.
func (s *Session) ShowOpponent() bool {
	return s.settings.showOpponent
}

// ViewMode returns the current view mode.
func (s *Session) ViewMode() core.ViewMode {
	return s.settings.view
}

// Language returns the current language.
func (s *Session) Language() string {
	return s.settings.language
}
