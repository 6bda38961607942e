// Package gormstore stores the board state as a single row through GORM.
// The sqlite and postgres stores are thin wrappers that open the
// connection and delegate here.
package gormstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OCAP2/tacticboard/internal/database"
	"github.com/OCAP2/tacticboard/internal/model"
	"github.com/OCAP2/tacticboard/internal/model/convert"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// Dependencies holds all dependencies for the GORM store.
type Dependencies struct {
	DB     *gorm.DB
	Key    string
	Logger *slog.Logger
	// Timeout bounds each query. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// Store implements storage.Store on top of a gorm.DB.
type Store struct {
	db      *gorm.DB
	key     string
	timeout time.Duration
	log     *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// New creates a store. Call Init before use.
func New(deps Dependencies) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: deps.DB, key: deps.Key, timeout: deps.Timeout, log: logger}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := database.Migrate(s.db); err != nil {
		return storage.Unavailable("migrate", err)
	}
	s.log.Debug("Board schema migrated", "key", s.key)
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Load reads the row stored under the configured key.
func (s *Store) Load(ctx context.Context) (*core.BoardState, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rec model.BoardRecord
	err := s.db.WithContext(ctx).Where("key = ?", s.key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNoState
	}
	if err != nil {
		return nil, storage.Unavailable("load board", err)
	}
	return convert.RecordToBoard(rec)
}

// Save inserts or overwrites the row stored under the configured key.
func (s *Store) Save(ctx context.Context, state *core.BoardState) error {
	rec, err := convert.BoardToRecord(s.key, state)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return storage.Unavailable("save board", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return database.Close(s.db)
}
