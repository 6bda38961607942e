// Package board wires the engine components into one board session.
//
// A Session owns the scene, the pointer controller, the undo history and
// the animator. It is the only place that decides when a change is pushed
// to history and when the board is persisted. A Session is not safe for
// concurrent use; drive it from a single goroutine.
package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/maniartech/signals"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/OCAP2/tacticboard/internal/animator"
	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/internal/history"
	"github.com/OCAP2/tacticboard/internal/interaction"
	"github.com/OCAP2/tacticboard/internal/logging"
	"github.com/OCAP2/tacticboard/internal/scene"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// HistoryState is emitted on HistoryChanged.
type HistoryState struct {
	CanUndo bool
	CanRedo bool
	Step    int
	Len     int
}

// Dependencies holds the collaborators of a Session.
type Dependencies struct {
	// Store persists the board. Nil keeps the board in memory only.
	Store  storage.Store
	Camera interaction.CameraLock
	Logger *slog.Logger
	Config config.BoardConfig
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is one open board.
type Session struct {
	store storage.Store
	cfg   config.BoardConfig
	log   *slog.Logger
	now   func() time.Time

	scene      *scene.Scene
	controller *interaction.Controller
	history    *history.Manager
	animator   *animator.Animator
	settings   settings

	// HistoryChanged fires after every history push, undo and redo.
	HistoryChanged signals.Signal[HistoryState]

	metrics metrics
}

// New creates a session with an empty scene. Call Load before use.
func New(deps Dependencies) (*Session, error) {
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	s := &Session{
		store:          deps.Store,
		cfg:            deps.Config,
		now:            deps.Now,
		scene:          scene.New(),
		history:        history.New(deps.Config.HistoryMax),
		HistoryChanged: signals.NewSync[HistoryState](),
		metrics:        m,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = logging.WithBoardContext(deps.Logger, s.logContext)
	s.animator = animator.New(animator.Config{Duration: deps.Config.Duration, Settle: deps.Config.Settle})
	s.controller = interaction.New(interaction.Dependencies{
		Model:  s.scene,
		Camera: deps.Camera,
		Commit: s.commitGesture,
		Logger: s.log,
	})
	if c := core.Color(deps.Config.DrawColor); c.Valid() {
		_ = s.controller.SetColor(c)
	}
	s.settings = s.defaults()
	return s, nil
}

func (s *Session) logContext() []slog.Attr {
	attrs := []slog.Attr{slog.String("view", string(s.settings.view))}
	if s.controller != nil {
		attrs = append(attrs,
			slog.String("tool", string(s.controller.Tool())),
			slog.String("state", s.controller.State().String()),
		)
	}
	return attrs
}

// Load restores the stored board, or sets up the default board when
// nothing is stored or the store fails. History restarts with the loaded
// board as its only entry.
func (s *Session) Load(ctx context.Context) error {
	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if err := s.applyState(state); err != nil {
		s.log.Warn("Stored board is inconsistent, using defaults", "error", err)
		if err := s.applyState(s.defaultState()); err != nil {
			return err
		}
	}

	s.animator.Reset()
	s.history.Clear()
	s.pushHistory()
	s.log.Info("Board loaded",
		"players", s.scene.Len()-1,
		"lines", s.scene.LineCount(),
		"teamA", s.settings.teamAFormation,
		"teamB", s.settings.teamBFormation)
	return nil
}

func (s *Session) loadState(ctx context.Context) (*core.BoardState, error) {
	if s.store == nil {
		return s.defaultState(), nil
	}
	state, err := s.store.Load(ctx)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, storage.ErrNoState):
		s.log.Debug("No stored board, using defaults")
	default:
		s.metrics.storageFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "load")))
		s.log.Warn("Failed to load board, using defaults", "error", err)
	}
	return s.defaultState(), nil
}

// persist saves the board. Failures are logged and counted; the board
// keeps working in memory.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	ctx := context.Background()
	if err := s.store.Save(ctx, s.State()); err != nil {
		s.metrics.storageFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "save")))
		s.log.Warn("Failed to save board", "error", err)
	}
}

func (s *Session) pushHistory() {
	if s.history.Push(s.scene.Snapshot()) {
		s.emitHistory()
	}
}

func (s *Session) emitHistory() {
	s.HistoryChanged.Emit(context.Background(), s.HistoryState())
}

// commit records a finished edit: push to history, then persist.
func (s *Session) commit(reason string) {
	s.pushHistory()
	s.persist()
	s.metrics.commits.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// HistoryState reports the undo/redo availability.
func (s *Session) HistoryState() HistoryState {
	return HistoryState{
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Step:    s.history.Step(),
		Len:     s.history.Len(),
	}
}

// regenerate re-projects both teams from their formation templates.
// Players get the default name of the current language.
func (s *Session) regenerate() error {
	for _, team := range []core.Team{core.TeamA, core.TeamB} {
		players, err := formation.Project(team, s.settings.formation(team), s.settings.view, s.settings.showOpponent)
		if err != nil {
			return err
		}
		name := DefaultName(s.settings.language)
		for i := range players {
			players[i].Name = name
		}
		if err := s.scene.ReplaceTeam(team, players); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
