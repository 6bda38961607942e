// Package model holds the gorm models of persisted boards.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels lists every table of the schema.
var DatabaseModels = []any{
	&BoardRecord{},
}

// BoardRecord is one stored board, addressed by Key. Players and lines are
// stored as JSON documents.
type BoardRecord struct {
	ID        uint      `gorm:"primarykey"`
	Key       string    `gorm:"size:127;uniqueIndex;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	TeamAColor     string `gorm:"size:16"`
	TeamBColor     string `gorm:"size:16"`
	TeamAFormation string `gorm:"size:16"`
	TeamBFormation string `gorm:"size:16"`
	ShowOpponent   bool
	ViewMode       string `gorm:"size:8"`
	IsDarkMode     bool
	Language       string `gorm:"size:16"`

	BallX float64
	BallZ float64

	Players datatypes.JSON
	Lines   datatypes.JSON
}

func (*BoardRecord) TableName() string {
	return "board_states"
}
