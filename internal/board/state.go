package board

import (
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// Languages with a default player name.
var defaultNames = map[string]string{
	"zh-TW": "名字",
	"en":    "Name",
}

// DefaultName returns the name given to new players for lang.
func DefaultName(lang string) string {
	if n, ok := defaultNames[lang]; ok {
		return n
	}
	return defaultNames["en"]
}

// ValidLanguage reports whether lang is supported.
func ValidLanguage(lang string) bool {
	_, ok := defaultNames[lang]
	return ok
}

// settings is the persisted configuration that snapshots leave out.
type settings struct {
	teamAColor     core.Color
	teamBColor     core.Color
	teamAFormation string
	teamBFormation string
	showOpponent   bool
	view           core.ViewMode
	dark           bool
	language       string
}

func (s *settings) formation(team core.Team) string {
	if team == core.TeamB {
		return s.teamBFormation
	}
	return s.teamAFormation
}

func (s *settings) setFormation(team core.Team, key string) {
	if team == core.TeamB {
		s.teamBFormation = key
	} else {
		s.teamAFormation = key
	}
}

func (s *settings) color(team core.Team) core.Color {
	if team == core.TeamB {
		return s.teamBColor
	}
	return s.teamAColor
}

// State builds the persisted record of the board.
func (s *Session) State() *core.BoardState {
	state := &core.BoardState{
		TeamAColor:     s.settings.teamAColor,
		TeamBColor:     s.settings.teamBColor,
		TeamAFormation: s.settings.teamAFormation,
		TeamBFormation: s.settings.teamBFormation,
		ShowOpponent:   s.settings.showOpponent,
		ViewMode:       s.settings.view,
		IsDarkMode:     s.settings.dark,
		Language:       s.settings.language,
		Players:        []core.PlayerRecord{},
		Lines:          s.scene.Lines(),
	}
	for _, e := range s.scene.Entities() {
		if e.IsBall() {
			state.Ball = e.Position
			continue
		}
		state.Players = append(state.Players, core.PlayerRecord{
			Team:   e.Team,
			ID:     e.ID,
			X:      e.Position.X,
			Z:      e.Position.Z,
			RotY:   e.Heading,
			Number: e.Number,
			Name:   e.Name,
		})
	}
	return state
}

// applyState replaces settings, entities and lines with a stored state.
// Unknown values fall back to the configured defaults and an empty player
// list is regenerated from the formations.
func (s *Session) applyState(state *core.BoardState) error {
	def := s.defaults()
	st := settings{
		teamAColor:     pick(state.TeamAColor.Valid(), state.TeamAColor, def.teamAColor),
		teamBColor:     pick(state.TeamBColor.Valid(), state.TeamBColor, def.teamBColor),
		teamAFormation: pick(formation.Valid(state.TeamAFormation), state.TeamAFormation, def.teamAFormation),
		teamBFormation: pick(formation.Valid(state.TeamBFormation), state.TeamBFormation, def.teamBFormation),
		showOpponent:   state.ShowOpponent,
		view:           pick(state.ViewMode.Valid(), state.ViewMode, core.ViewFull),
		dark:           state.IsDarkMode,
		language:       pick(ValidLanguage(state.Language), state.Language, def.language),
	}
	s.settings = st

	entities := []core.Entity{core.NewBall(state.Ball)}
	for _, p := range state.Players {
		if !p.Team.Valid() {
			s.log.Debug("Skipping stored player with unknown team", "id", p.ID, "team", string(p.Team))
			continue
		}
		if p.Team == core.TeamB && !st.showOpponent {
			continue
		}
		entities = append(entities, core.Entity{
			ID:       p.ID,
			Kind:     core.KindPlayer,
			Team:     p.Team,
			Position: core.Position2D{X: p.X, Z: p.Z},
			Heading:  p.RotY,
			Number:   p.Number,
			Name:     p.Name,
		})
	}
	if len(entities) == 1 {
		if err := s.scene.ReplaceEntities(entities); err != nil {
			return err
		}
		if err := s.regenerate(); err != nil {
			return err
		}
	} else if err := s.scene.ReplaceEntities(entities); err != nil {
		return err
	}

	s.scene.RemoveAllLines()
	for _, l := range state.Lines {
		if !l.Kind.Valid() || len(l.Points) == 0 {
			s.log.Debug("Skipping invalid stored line", "type", string(l.Kind), "points", len(l.Points))
			continue
		}
		s.scene.AddLine(l)
	}
	return nil
}

// defaultState is the board shown when nothing is stored.
func (s *Session) defaultState() *core.BoardState {
	def := s.defaults()
	return &core.BoardState{
		TeamAColor:     def.teamAColor,
		TeamBColor:     def.teamBColor,
		TeamAFormation: def.teamAFormation,
		TeamBFormation: def.teamBFormation,
		ShowOpponent:   def.showOpponent,
		ViewMode:       def.view,
		Language:       def.language,
	}
}

func (s *Session) defaults() settings {
	key := s.cfg.Formation
	if !formation.Valid(key) {
		key = formation.Default
	}
	lang := s.cfg.Language
	if !ValidLanguage(lang) {
		lang = "zh-TW"
	}
	return settings{
		teamAColor:     pick(core.Color(s.cfg.TeamAColor).Valid(), core.Color(s.cfg.TeamAColor), "#ef4444"),
		teamBColor:     pick(core.Color(s.cfg.TeamBColor).Valid(), core.Color(s.cfg.TeamBColor), "#3b82f6"),
		teamAFormation: key,
		teamBFormation: key,
		showOpponent:   true,
		view:           core.ViewFull,
		language:       lang,
	}
}

func pick[T any](ok bool, v, fallback T) T {
	if ok {
		return v
	}
	return fallback
}
