// Package postgres stores the board state in PostgreSQL.
package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/database"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/internal/storage/gormstore"
)

// Config holds configuration for the Postgres store.
type Config struct {
	Connection config.PostgresConfig
	Key        string
	Timeout    time.Duration
}

// Store wraps the GORM store with a Postgres connection.
type Store struct {
	*gormstore.Store
}

var _ storage.Store = (*Store)(nil)

// Open connects, pings and migrates. The connection attempt is bounded by
// cfg.Timeout when set.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	db, err := database.OpenPostgres(ctx, database.PostgresDSN(cfg.Connection))
	if err != nil {
		return nil, storage.Unavailable("open postgres", err)
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
	return &Store{Store: inner}, nil
}
