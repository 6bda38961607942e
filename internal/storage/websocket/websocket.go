// Package websocket mirrors every saved board state to a remote viewer.
// It is write-only: Load always reports storage.ErrNoState, so it is used
// as a mirror behind a store that can read.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/pkg/core"
	"github.com/OCAP2/tacticboard/pkg/streaming"
)

// Config holds WebSocket store configuration.
type Config struct {
	URL    string
	Secret string
	Key    string
	// AckTimeout bounds the board_open and board_close handshakes.
	AckTimeout time.Duration
}

// Store streams board states to the viewer.
type Store struct {
	conn *connection
	cfg  Config
}

var _ storage.Store = (*Store)(nil)

// New creates a WebSocket store. Call Init to connect.
func New(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = ackTimeout
	}
	return &Store{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects and announces the board, waiting for the viewer's ack.
func (s *Store) Init() error {
	if err := s.conn.dial(s.cfg.URL, s.cfg.Secret); err != nil {
		return storage.Unavailable("connect viewer", err)
	}

	data, err := marshalEnvelope(streaming.TypeBoardOpen, streaming.BoardOpenPayload{Key: s.cfg.Key})
	if err != nil {
		return err
	}
	s.conn.remember(data, nil)

	if err := s.conn.sendAndWait(data, streaming.TypeBoardOpen, s.cfg.AckTimeout); err != nil {
		return storage.Unavailable("open board", err)
	}
	return nil
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// Load is not supported by a mirror.
func (s *Store) Load(context.Context) (*core.BoardState, error) {
	return nil, storage.ErrNoState
}

// Save queues a board_state message without waiting for delivery. The
// latest state is replayed after a reconnect.
func (s *Store) Save(_ context.Context, state *core.BoardState) error {
	data, err := marshalEnvelope(streaming.TypeBoardState, streaming.BoardStatePayload{Key: s.cfg.Key, State: state})
	if err != nil {
		return err
	}
	s.conn.remember(nil, data)
	s.conn.send(data)
	return nil
}

// Close sends board_close, waits briefly for the ack and disconnects.
func (s *Store) Close() error {
	data, err := marshalEnvelope(streaming.TypeBoardClose, streaming.BoardOpenPayload{Key: s.cfg.Key})
	if err == nil {
		if werr := s.conn.sendAndWait(data, streaming.TypeBoardClose, s.cfg.AckTimeout); werr != nil {
			s.conn.logger.Warn("Viewer did not acknowledge board_close", "error", werr)
		}
	}
	s.conn.forget()
	return s.conn.close()
}
