// Package convert maps board states to and from their gorm models.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/OCAP2/tacticboard/internal/model"
	"github.com/OCAP2/tacticboard/pkg/core"
	"gorm.io/datatypes"
)

// toJSON encodes v, writing an empty array for nil slices.
func toJSON[T any](v []T) (datatypes.JSON, error) {
	if len(v) == 0 {
		return datatypes.JSON("[]"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func fromJSON[T any](raw datatypes.JSON) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// BoardToRecord converts a board state to the row stored under key.
func BoardToRecord(key string, s *core.BoardState) (model.BoardRecord, error) {
	players, err := toJSON(s.Players)
	if err != nil {
		return model.BoardRecord{}, fmt.Errorf("encode players: %w", err)
	}
	lines, err := toJSON(s.Lines)
	if err != nil {
		return model.BoardRecord{}, fmt.Errorf("encode lines: %w", err)
	}

	return model.BoardRecord{
		Key:            key,
		TeamAColor:     string(s.TeamAColor),
		TeamBColor:     string(s.TeamBColor),
		TeamAFormation: s.TeamAFormation,
		TeamBFormation: s.TeamBFormation,
		ShowOpponent:   s.ShowOpponent,
		ViewMode:       string(s.ViewMode),
		IsDarkMode:     s.IsDarkMode,
		Language:       s.Language,
		BallX:          s.Ball.X,
		BallZ:          s.Ball.Z,
		Players:        players,
		Lines:          lines,
	}, nil
}

// RecordToBoard converts a stored row back to a board state.
func RecordToBoard(r model.BoardRecord) (*core.BoardState, error) {
	players, err := fromJSON[core.PlayerRecord](r.Players)
	if err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	lines, err := fromJSON[core.Line](r.Lines)
	if err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}

	return &core.BoardState{
		TeamAColor:     core.Color(r.TeamAColor),
		TeamBColor:     core.Color(r.TeamBColor),
		TeamAFormation: r.TeamAFormation,
		TeamBFormation: r.TeamBFormation,
		ShowOpponent:   r.ShowOpponent,
		ViewMode:       core.ViewMode(r.ViewMode),
		IsDarkMode:     r.IsDarkMode,
		Language:       r.Language,
		Ball:           core.Position2D{X: r.BallX, Z: r.BallZ},
		Players:        players,
		Lines:          lines,
	}, nil
}
