// Package sqlite stores the board state in a SQLite file.
package sqlite

import (
	"log/slog"
	"time"

	"github.com/OCAP2/tacticboard/internal/database"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/internal/storage/gormstore"
)

// Config holds configuration for the SQLite store.
type Config struct {
	// Path of the database file. Empty opens an in-memory database.
	Path    string
	Key     string
	Timeout time.Duration
}

// Store wraps the GORM store with a SQLite connection.
type Store struct {
	*gormstore.Store
	path string
}

var _ storage.Store = (*Store)(nil)

// Open opens the database and migrates the schema.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	db, err := database.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, storage.Unavailable("open sqlite", err)
	}

	inner := gormstore.New(gormstore.Dependencies{
		DB:      db,
		Key:     cfg.Key,
		Logger:  logger,
		Timeout: cfg.Timeout,
	})
	if err := inner.Init(); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &Store{Store: inner, path: cfg.Path}, nil
}

// Path returns the database file, empty for in-memory databases.
func (s *Store) Path() string {
	return s.path
}
