// Package memory keeps the board state in memory and optionally mirrors
// it to a JSON file on disk, gzipped when compression is enabled.
package memory

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// Config holds memory store configuration.
type Config struct {
	// Path of the JSON file. Empty keeps the state in memory only.
	Path     string
	Compress bool
}

// Store implements storage.Store.
type Store struct {
	mu    sync.RWMutex
	cfg   Config
	state []byte
}

var _ storage.Store = (*Store)(nil)

// New creates a memory store. When a compressed file is requested the
// path gains a .gz suffix.
func New(cfg Config) *Store {
	if cfg.Path != "" && cfg.Compress && !strings.HasSuffix(cfg.Path, ".gz") {
		cfg.Path += ".gz"
	}
	return &Store{cfg: cfg}
}

// Path returns the file the store writes to.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Load returns the last saved state. On first use it reads the file.
func (s *Store) Load(_ context.Context) (*core.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil && s.cfg.Path != "" {
		data, err := s.readFile()
		if err != nil {
			return nil, err
		}
		s.state = data
	}
	if s.state == nil {
		return nil, storage.ErrNoState
	}

	var state core.BoardState
	if err := json.Unmarshal(s.state, &state); err != nil {
		return nil, fmt.Errorf("decode board state: %w", err)
	}
	return &state, nil
}

// Save replaces the stored state and rewrites the file.
func (s *Store) Save(_ context.Context, state *core.BoardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode board state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = data
	if s.cfg.Path == "" {
		return nil
	}
	return s.writeFile(data)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) readFile() ([]byte, error) {
	f, err := os.Open(s.cfg.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Unavailable("open state file", err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.cfg.Compress {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, storage.Unavailable("open gzip reader", err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, storage.Unavailable("read state file", err)
	}
	return data, nil
}

// writeFile writes to a temp file in the same directory and renames it
// over the target.
func (s *Store) writeFile(data []byte) error {
	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return storage.Unavailable("create state directory", err)
	}

	var buf bytes.Buffer
	if s.cfg.Compress {
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return storage.Unavailable("compress state", err)
		}
		if err := gz.Close(); err != nil {
			return storage.Unavailable("compress state", err)
		}
	} else {
		buf.Write(data)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.cfg.Path)+".*.tmp")
	if err != nil {
		return storage.Unavailable("create temp file", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return storage.Unavailable("write state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return storage.Unavailable("write state file", err)
	}
	if err := os.Rename(tmp.Name(), s.cfg.Path); err != nil {
		os.Remove(tmp.Name())
		return storage.Unavailable("replace state file", err)
	}
	return nil
}
