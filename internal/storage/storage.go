// Package storage persists board states.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/OCAP2/tacticboard/pkg/core"
)

var (
	// ErrUnavailable wraps every failure to reach the backing store.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrNoState is returned by Load when nothing has been saved yet.
	ErrNoState = errors.New("no stored board state")
)

// Store is the interface all board state stores satisfy. A store keeps a
// single record that every Save overwrites.
type Store interface {
	Load(ctx context.Context) (*core.BoardState, error)
	Save(ctx context.Context, state *core.BoardState) error
	Close() error
}

// Unavailable wraps err with ErrUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// Mirrored saves to a primary store and then to every mirror. Loads only
// consult the primary. Mirror failures are logged and never fail a Save.
type Mirrored struct {
	Primary Store
	Mirrors []Store
	Logger  *slog.Logger
}

var _ Store = (*Mirrored)(nil)

func (m *Mirrored) Load(ctx context.Context) (*core.BoardState, error) {
	return m.Primary.Load(ctx)
}

func (m *Mirrored) Save(ctx context.Context, state *core.BoardState) error {
	err := m.Primary.Save(ctx, state)
	for _, mirror := range m.Mirrors {
		if merr := mirror.Save(ctx, state); merr != nil && m.Logger != nil {
			m.Logger.Warn("Mirror save failed", "error", merr)
		}
	}
	return err
}

func (m *Mirrored) Close() error {
	errs := []error{m.Primary.Close()}
	for _, mirror := range m.Mirrors {
		errs = append(errs, mirror.Close())
	}
	return errors.Join(errs...)
}
