// Package factory builds the configured board state store.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/internal/storage/memory"
	"github.com/OCAP2/tacticboard/internal/storage/postgres"
	"github.com/OCAP2/tacticboard/internal/storage/sqlite"
	"github.com/OCAP2/tacticboard/internal/storage/websocket"
)

// Store types accepted in storage.type.
const (
	TypeMemory    = "memory"
	TypeSQLite    = "sqlite"
	TypePostgres  = "postgres"
	TypeWebSocket = "websocket"
)

// New opens the store selected by cfg.Type. The websocket type keeps the
// state in a memory store and mirrors every save to the viewer.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case TypeMemory, "":
		logger.Info("Memory storage initialized", "path", cfg.Memory.Path, "compress", cfg.Memory.Compress)
		return memory.New(memory.Config{Path: cfg.Memory.Path, Compress: cfg.Memory.Compress}), nil

	case TypeSQLite:
		s, err := sqlite.Open(sqlite.Config{Path: cfg.SQLite.Path, Key: cfg.Key, Timeout: cfg.Timeout}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		logger.Info("SQLite storage initialized", "path", cfg.SQLite.Path)
		return s, nil

	case TypePostgres:
		s, err := postgres.Open(ctx, postgres.Config{Connection: cfg.Postgres, Key: cfg.Key, Timeout: cfg.Timeout}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres store: %w", err)
		}
		logger.Info("Postgres storage initialized", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
		return s, nil

	case TypeWebSocket:
		mirror := websocket.New(websocket.Config{
			URL:    cfg.WebSocket.URL,
			Secret: cfg.WebSocket.Secret,
			Key:    cfg.Key,
		}, logger)
		if err := mirror.Init(); err != nil {
			return nil, fmt.Errorf("failed to connect WebSocket mirror: %w", err)
		}
		logger.Info("WebSocket mirror initialized", "url", cfg.WebSocket.URL)
		return &storage.Mirrored{
			Primary: memory.New(memory.Config{Path: cfg.Memory.Path, Compress: cfg.Memory.Compress}),
			Mirrors: []storage.Store{mirror},
			Logger:  logger,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
