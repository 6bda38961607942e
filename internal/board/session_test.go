package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/internal/interaction"
	"github.com/OCAP2/tacticboard/internal/storage"
	"github.com/OCAP2/tacticboard/internal/storage/memory"
	"github.com/OCAP2/tacticboard/pkg/core"
)

type fakeCamera struct{ enabled []bool }

func (c *fakeCamera) SetEnabled(e bool) { c.enabled = append(c.enabled, e) }

type failingStore struct {
	loadErr error
	saves   int
}

func (f *failingStore) Load(context.Context) (*core.BoardState, error) {
	return nil, f.loadErr
}

func (f *failingStore) Save(context.Context, *core.BoardState) error {
	f.saves++
	return storage.Unavailable("save", errors.New("quota exceeded"))
}

func (f *failingStore) Close() error { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, store storage.Store) (*Session, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New(Dependencies{
		Store:  store,
		Camera: &fakeCamera{},
		Config: config.BoardConfig{Language: "en", HistoryMax: 20},
		Now:    clk.now,
	})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	return s, clk
}

func ground(x, z float64) *core.Vec3 {
	return &core.Vec3{X: x, Z: z}
}

func drag(t *testing.T, s *Session, id string, x, z float64) {
	t.Helper()
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{EntityID: id, Ground: ground(0, 0), Surface: true}}))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerMove, Primary: true, Pick: interaction.Pick{Ground: ground(x, z), Surface: true}}))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerUp, Primary: true}))
}

func draw(t *testing.T, s *Session, points ...core.Vec3) {
	t.Helper()
	require.NoError(t, s.SetTool(interaction.ToolDraw))
	for i, p := range points {
		kind := interaction.PointerMove
		if i == 0 {
			kind = interaction.PointerDown
		}
		require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: kind, Primary: true, Pick: interaction.Pick{Ground: &p, Surface: true}}))
	}
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerUp, Primary: true}))
	require.NoError(t, s.SetTool(interaction.ToolMove))
}

func TestLoad_Defaults(t *testing.T) {
	s, _ := newTestSession(t, memory.New(memory.Config{}))

	assert.Equal(t, formation.Default, s.Formation(core.TeamA))
	assert.Equal(t, formation.Default, s.Formation(core.TeamB))
	assert.True(t, s.ShowOpponent())
	assert.Equal(t, core.ViewFull, s.ViewMode())
	assert.Len(t, s.Entities(), 23)
	assert.Empty(t, s.Lines())

	ball, ok := s.Entity(core.BallID)
	require.True(t, ok)
	assert.Equal(t, core.Position2D{}, ball.Position)

	for _, e := range s.Entities() {
		if !e.IsBall() {
			assert.Equal(t, "Name", e.Name)
		}
	}
	assert.Equal(t, HistoryState{Step: 0, Len: 1}, s.HistoryState())
}

func TestLoad_DefaultNameFollowsLanguage(t *testing.T) {
	s, err := New(Dependencies{Config: config.BoardConfig{Language: "zh-TW"}})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	players := s.Entities()
	assert.Equal(t, "名字", players[len(players)-1].Name)
}

func TestDragAndUndo(t *testing.T) {
	s, _ := newTestSession(t, memory.New(memory.Config{}))
	before, _ := s.Entity("teamA-9")

	drag(t, s, "teamA-9", 80, 10)

	after, _ := s.Entity("teamA-9")
	assert.Equal(t, core.Position2D{X: core.FieldWidth / 2, Z: 10}, after.Position, "drag target is clamped")
	assert.Equal(t, interaction.Idle, s.InteractionState())
	assert.Equal(t, HistoryState{CanUndo: true, Step: 1, Len: 2}, s.HistoryState())

	require.True(t, s.Undo())
	undone, _ := s.Entity("teamA-9")
	assert.Equal(t, before.Position, undone.Position)
	assert.False(t, s.Undo(), "nothing left to undo")

	require.True(t, s.Redo())
	redone, _ := s.Entity("teamA-9")
	assert.Equal(t, after.Position, redone.Position)
	assert.False(t, s.Redo())
}

func TestClickWithoutMoveDoesNotGrowHistory(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{EntityID: "teamA-1"}}))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerUp, Primary: true}))
	assert.Equal(t, 1, s.HistoryState().Len)
}

func TestDrawEraseAndClear(t *testing.T) {
	s, _ := newTestSession(t, nil)

	draw(t, s, core.Vec3{X: 0, Z: 0}, core.Vec3{X: 0.2, Z: 0}, core.Vec3{X: 10, Z: 0})
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Points, 2, "points closer than the minimum spacing are dropped")
	assert.Equal(t, core.LineHeight, lines[0].Points[0].Y)

	draw(t, s, core.Vec3{X: 0, Z: 20}, core.Vec3{X: 10, Z: 20})
	require.Len(t, s.RenderLines(), 2)

	assert.False(t, s.EraseLineAt(core.Position2D{X: 5, Z: 10}))
	require.True(t, s.EraseLineAt(core.Position2D{X: 5, Z: 20.5}))
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 0.0, s.Lines()[0].Points[0].Z)

	s.ClearLines()
	assert.Empty(t, s.Lines())
	assert.Equal(t, 5, s.HistoryState().Len)

	// undo walks back through clear, erase and both strokes
	require.True(t, s.Undo())
	assert.Len(t, s.Lines(), 1)
	require.True(t, s.Undo())
	assert.Len(t, s.Lines(), 2)
}

func TestDrawWithoutSurfaceAddsNothing(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.NoError(t, s.SetTool(interaction.ToolDraw))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{Ground: ground(1, 1)}}))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerUp, Primary: true}))
	assert.Empty(t, s.Lines())
	assert.Equal(t, 1, s.HistoryState().Len)
}

func TestOpponentToggle(t *testing.T) {
	s, _ := newTestSession(t, nil)

	require.NoError(t, s.SetShowOpponent(false))
	for _, e := range s.Entities() {
		assert.NotEqual(t, core.TeamB, e.Team)
	}

	require.NoError(t, s.SetShowOpponent(true))
	want, err := formation.Project(core.TeamB, s.Formation(core.TeamB), core.ViewFull, true)
	require.NoError(t, err)
	for _, w := range want {
		got, ok := s.Entity(w.ID)
		require.True(t, ok, w.ID)
		assert.Equal(t, w.Position, got.Position)
	}
}

func TestUndoAcrossOpponentToggle(t *testing.T) {
	s, _ := newTestSession(t, nil)
	drag(t, s, "teamB-9", 0, 0)
	require.NoError(t, s.SetShowOpponent(false))

	// the snapshot before hiding still lists team B, which is gone now
	require.True(t, s.Undo())
	_, ok := s.Entity("teamB-9")
	assert.False(t, ok)
	assert.Len(t, s.Entities(), 12)
}

func TestViewModeRoundTrip(t *testing.T) {
	s, _ := newTestSession(t, nil)
	full, _ := s.Entity("teamA-1")

	require.NoError(t, s.SetViewMode(core.ViewHalf))
	half, _ := s.Entity("teamA-1")
	assert.Equal(t, formation.HalfPitchX(full.Position.X), half.Position.X)

	require.NoError(t, s.SetViewMode(core.ViewFull))
	back, _ := s.Entity("teamA-1")
	assert.Equal(t, full.Position, back.Position)

	assert.Error(t, s.SetViewMode("quarter"))
}

func TestSetFormation(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.NoError(t, s.SetFormation(core.TeamA, "4-4-2"))
	assert.Equal(t, "4-4-2", s.Formation(core.TeamA))
	assert.Equal(t, 2, s.HistoryState().Len)

	assert.Error(t, s.SetFormation(core.TeamA, "2-2-6"))
	assert.Error(t, s.SetFormation(core.TeamNone, "4-4-2"))
	assert.Equal(t, "4-4-2", s.Formation(core.TeamA))
}

func TestResetPositions(t *testing.T) {
	s, _ := newTestSession(t, nil)
	start := s.Entities()
	drag(t, s, core.BallID, 20, 5)
	drag(t, s, "teamA-5", -10, 5)

	require.NoError(t, s.ResetPositions())
	for _, want := range start {
		got, _ := s.Entity(want.ID)
		assert.Equal(t, want.Position, got.Position, want.ID)
	}
}

func TestLabelsAndSettingsPersist(t *testing.T) {
	store := memory.New(memory.Config{})
	s, _ := newTestSession(t, store)

	require.NoError(t, s.SetPlayerNumber("teamA-9", "99"))
	require.NoError(t, s.SetPlayerName("teamA-9", "Striker"))
	require.NoError(t, s.SetTeamColor(core.TeamB, "#000000"))
	require.NoError(t, s.SetLanguage("zh-TW"))
	s.SetDarkMode(true)

	assert.ErrorIs(t, s.SetPlayerName("nobody", "x"), core.ErrNotFound)
	assert.ErrorIs(t, s.SetPlayerNumber(core.BallID, "1"), core.ErrInvalidState)
	assert.Error(t, s.SetTeamColor(core.TeamA, "blue"))
	assert.Error(t, s.SetLanguage("fr"))
	assert.Equal(t, 1, s.HistoryState().Len, "labels and settings are not undoable")

	reloaded, _ := newTestSession(t, store)
	e, _ := reloaded.Entity("teamA-9")
	assert.Equal(t, "99", e.Number)
	assert.Equal(t, "Striker", e.Name)
	assert.Equal(t, core.Color("#000000"), reloaded.TeamColor(core.TeamB))
	assert.Equal(t, "zh-TW", reloaded.Language())

	state := reloaded.State()
	assert.True(t, state.IsDarkMode)
	assert.Len(t, state.Players, 22)
}

func TestReloadRestoresBoard(t *testing.T) {
	store := memory.New(memory.Config{})
	s, _ := newTestSession(t, store)
	drag(t, s, "teamA-9", 30, -5)
	draw(t, s, core.Vec3{X: 0, Z: 0}, core.Vec3{X: 5, Z: 5})
	require.NoError(t, s.SetShowOpponent(false))
	drag(t, s, core.BallID, 3, 3)

	reloaded, _ := newTestSession(t, store)
	assert.False(t, reloaded.ShowOpponent())
	assert.Len(t, reloaded.Entities(), 12)
	assert.Len(t, reloaded.Lines(), 1)
	ball, _ := reloaded.Entity(core.BallID)
	assert.Equal(t, core.Position2D{X: 3, Z: 3}, ball.Position)
	assert.Equal(t, HistoryState{Len: 1}, reloaded.HistoryState())
}

func TestLoad_StoredStateWithoutPlayers(t *testing.T) {
	store := memory.New(memory.Config{})
	require.NoError(t, store.Save(context.Background(), &core.BoardState{
		TeamAFormation: "3-5-2",
		TeamBFormation: "bogus",
		ShowOpponent:   true,
		ViewMode:       core.ViewHalf,
		Language:       "en",
		Ball:           core.Position2D{X: 1, Z: 1},
		Lines: []core.Line{
			{Kind: core.LineSolid, Points: []core.Vec3{{X: 1}, {X: 2}}, Color: "#fff"},
			{Kind: "zigzag", Points: []core.Vec3{{X: 1}}},
		},
	}))

	s, _ := newTestSession(t, store)
	assert.Equal(t, "3-5-2", s.Formation(core.TeamA))
	assert.Equal(t, formation.Default, s.Formation(core.TeamB))
	assert.Equal(t, core.ViewHalf, s.ViewMode())
	assert.Len(t, s.Entities(), 23)
	assert.Len(t, s.Lines(), 1)
}

func TestStorageFailuresAreNonFatal(t *testing.T) {
	store := &failingStore{loadErr: storage.Unavailable("load", errors.New("locked"))}
	s, _ := newTestSession(t, store)
	assert.Len(t, s.Entities(), 23, "falls back to defaults")

	drag(t, s, "teamA-9", 1, 1)
	s.ClearLines()
	assert.Equal(t, 2, store.saves)

	e, _ := s.Entity("teamA-9")
	assert.Equal(t, core.Position2D{X: 1, Z: 1}, e.Position)
	assert.True(t, s.Undo())
}

func TestAnimate(t *testing.T) {
	s, clk := newTestSession(t, nil)

	assert.ErrorIs(t, s.Play(), core.ErrInvalidState)

	s.SetAnimationStart()
	start, _ := s.Entity("teamA-9")
	drag(t, s, "teamA-9", start.Position.X+20, start.Position.Z)
	end, _ := s.Entity("teamA-9")

	require.NoError(t, s.Play())
	assert.True(t, s.Playing())
	first, _ := s.Entity("teamA-9")
	assert.Equal(t, start.Position, first.Position, "playback starts from the start keyframe")
	assert.ErrorIs(t, s.Play(), core.ErrInvalidState)

	// pointer input is ignored during playback
	drag(t, s, "teamA-9", 0, 0)
	clk.advance(time.Second)
	assert.False(t, s.Tick())
	mid, _ := s.Entity("teamA-9")
	assert.InDelta(t, start.Position.X+10, mid.Position.X, 1e-9)

	clk.advance(time.Second)
	assert.False(t, s.Tick())
	done, _ := s.Entity("teamA-9")
	assert.Equal(t, end.Position, done.Position)
	assert.True(t, s.Playing(), "still playing until the settle deadline")

	clk.advance(100 * time.Millisecond)
	assert.True(t, s.Tick())
	assert.False(t, s.Playing())
	assert.False(t, s.Tick())
	assert.True(t, s.AnimationArmed())
}

func TestUndoStopsPlayback(t *testing.T) {
	s, clk := newTestSession(t, nil)

	s.SetAnimationStart()
	start, _ := s.Entity("teamA-9")
	drag(t, s, "teamA-9", start.Position.X+20, start.Position.Z)
	require.NoError(t, s.Play())

	require.True(t, s.Undo())
	assert.False(t, s.Playing())

	clk.advance(2100 * time.Millisecond)
	assert.False(t, s.Tick())

	got, _ := s.Entity("teamA-9")
	assert.Equal(t, start.Position, got.Position)
	assert.Equal(t, 0, s.HistoryState().Step)
	for _, p := range s.State().Players {
		if p.ID == "teamA-9" {
			assert.Equal(t, start.Position.X, p.X, "persisted pose follows the restored snapshot")
		}
	}
}

func TestPlayRejectedDuringGesture(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.SetAnimationStart()

	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{EntityID: "teamA-9", Ground: ground(0, 0), Surface: true}}))
	require.Equal(t, interaction.Dragging, s.InteractionState())

	assert.ErrorIs(t, s.Play(), core.ErrInvalidState)
	assert.False(t, s.Playing())

	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerUp, Primary: true}))
	assert.Equal(t, interaction.Idle, s.InteractionState())
	assert.NoError(t, s.Play())
}

func TestPointerDuringPlayback(t *testing.T) {
	s, clk := newTestSession(t, nil)
	s.SetAnimationStart()
	drag(t, s, "teamA-9", 0, 10)
	require.NoError(t, s.Play())

	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{EntityID: "teamA-1", Ground: ground(0, 0), Surface: true}}))
	assert.Equal(t, interaction.Idle, s.InteractionState())
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerCancel, Primary: true}))
	assert.Equal(t, interaction.Idle, s.InteractionState())

	clk.advance(2200 * time.Millisecond)
	require.True(t, s.Tick())

	drag(t, s, "teamA-1", -10, 5)
	keeper, _ := s.Entity("teamA-1")
	nine, _ := s.Entity("teamA-9")
	assert.Equal(t, core.Position2D{X: -10, Z: 5}, keeper.Position)
	assert.Equal(t, core.Position2D{X: 0, Z: 10}, nine.Position)
}

func TestHistoryChangedSignal(t *testing.T) {
	s, _ := newTestSession(t, nil)

	var got []HistoryState
	s.HistoryChanged.AddListener(func(_ context.Context, st HistoryState) {
		got = append(got, st)
	})

	drag(t, s, "teamA-9", 1, 1)
	s.Undo()
	s.Redo()

	require.Len(t, got, 3)
	assert.Equal(t, HistoryState{CanUndo: true, Step: 1, Len: 2}, got[0])
	assert.Equal(t, HistoryState{CanRedo: true, Step: 0, Len: 2}, got[1])
	assert.Equal(t, HistoryState{CanUndo: true, Step: 1, Len: 2}, got[2])
}

func TestCameraLockedDuringGesture(t *testing.T) {
	cam := &fakeCamera{}
	s, err := New(Dependencies{Camera: cam})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	drag(t, s, "teamA-9", 1, 1)
	assert.Equal(t, []bool{false, true}, cam.enabled)
}

func TestRenderLinesIncludesPreview(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.NoError(t, s.SetTool(interaction.ToolDraw))
	require.NoError(t, s.SetLineKind(core.LineArrow))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerDown, Primary: true, Pick: interaction.Pick{Ground: ground(0, 0), Surface: true}}))
	require.NoError(t, s.HandlePointer(interaction.PointerEvent{Kind: interaction.PointerMove, Primary: true, Pick: interaction.Pick{Ground: ground(5, 0), Surface: true}}))

	geo := s.RenderLines()
	require.Len(t, geo, 1)
	assert.NotNil(t, geo[0].Arrow)
	assert.Empty(t, s.Lines())
}
