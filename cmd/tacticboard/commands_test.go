package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/tacticboard/internal/board"
	"github.com/OCAP2/tacticboard/internal/config"
	"github.com/OCAP2/tacticboard/internal/dispatcher"
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/pkg/core"
)

func newTestDriver(t *testing.T) (*dispatcher.Dispatcher, *board.Session, *virtualClock) {
	t.Helper()
	clk := &virtualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := board.New(board.Dependencies{Config: config.BoardConfig{Language: "en"}, Now: clk.now})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)
	registerCommands(d, s, clk)
	return d, s, clk
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func decodeReplies(t *testing.T, out string) []reply {
	t.Helper()
	var replies []reply
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var r reply
		require.NoError(t, json.Unmarshal([]byte(line), &r), line)
		replies = append(replies, r)
	}
	return replies
}

func TestRunCommands_DragAndUndo(t *testing.T) {
	d, s, clk := newTestDriver(t)

	in := strings.Join([]string{
		`{"cmd":"down","args":["teamA-9",25,0]}`,
		`{"cmd":"move","args":[30,5]}`,
		`{"cmd":"up"}`,
		``,
		`# comments are skipped`,
		`{"cmd":"undo"}`,
		`{"cmd":"undo"}`,
	}, "\n")

	var out bytes.Buffer
	failed, err := runCommands(d, strings.NewReader(in), &out, clk.now)
	require.NoError(t, err)
	assert.Zero(t, failed)

	replies := decodeReplies(t, out.String())
	require.Len(t, replies, 5)
	assert.Equal(t, "dragging", replies[0].Result)
	assert.Equal(t, "idle", replies[2].Result)
	assert.Equal(t, true, replies[3].Result)
	assert.Equal(t, false, replies[4].Result)

	e, _ := s.Entity("teamA-9")
	assert.Equal(t, core.Position2D{X: 25, Z: 0}, e.Position)
}

func TestRunCommands_Errors(t *testing.T) {
	d, _, clk := newTestDriver(t)

	in := strings.Join([]string{
		`not json`,
		`{"cmd":"explode"}`,
		`{"cmd":"formation","args":["teamA"]}`,
		`{"cmd":"formation","args":["teamA","1-1-8"]}`,
		`{"cmd":"play"}`,
		`{"cmd":"move","args":["left",1]}`,
		`{"cmd":"formation","args":["teamA","4-4-2"]}`,
	}, "\n")

	var out bytes.Buffer
	failed, err := runCommands(d, strings.NewReader(in), &out, clk.now)
	require.NoError(t, err)
	assert.Equal(t, 6, failed)

	replies := decodeReplies(t, out.String())
	require.Len(t, replies, 7)
	assert.Contains(t, replies[0].Error, "invalid command")
	assert.Contains(t, replies[1].Error, "unknown command: explode")
	assert.Contains(t, replies[2].Error, "want at least 2 args")
	assert.Contains(t, replies[3].Error, "unknown formation")
	assert.Contains(t, replies[4].Error, "invalid state")
	assert.Contains(t, replies[5].Error, "move: arg 0")
	assert.True(t, replies[6].OK)
}

func TestRunCommands_DrawAndAnimate(t *testing.T) {
	d, s, clk := newTestDriver(t)

	in := strings.Join([]string{
		`{"cmd":"tool","args":["draw"]}`,
		`{"cmd":"lineKind","args":["arrow"]}`,
		`{"cmd":"down","args":["-",0,0]}`,
		`{"cmd":"move","args":[10,0]}`,
		`{"cmd":"up"}`,
		`{"cmd":"tool","args":["move"]}`,
		`{"cmd":"setStart"}`,
		`{"cmd":"down","args":["ball",0,0]}`,
		`{"cmd":"move","args":[10,10]}`,
		`{"cmd":"up"}`,
		`{"cmd":"play"}`,
		`{"cmd":"tick","args":[1000]}`,
		`{"cmd":"tick","args":[1100]}`,
		`{"cmd":"render"}`,
	}, "\n")

	var out bytes.Buffer
	failed, err := runCommands(d, strings.NewReader(in), &out, clk.now)
	require.NoError(t, err)
	assert.Zero(t, failed)

	replies := decodeReplies(t, out.String())
	assert.Equal(t, false, replies[11].Result)
	assert.Equal(t, true, replies[12].Result)

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, core.LineArrow, s.Lines()[0].Kind)
	ball, _ := s.Entity(core.BallID)
	assert.Equal(t, core.Position2D{X: 10, Z: 10}, ball.Position)
	assert.False(t, s.Playing())
}

func TestRunCommands_Settings(t *testing.T) {
	d, s, clk := newTestDriver(t)

	in := strings.Join([]string{
		`{"cmd":"name","args":["teamA-9","Big","Nine"]}`,
		`{"cmd":"number","args":["teamA-9","99"]}`,
		`{"cmd":"teamColor","args":["teamA","#000"]}`,
		`{"cmd":"darkMode","args":[true]}`,
		`{"cmd":"language","args":["zh-TW"]}`,
		`{"cmd":"opponent","args":[false]}`,
		`{"cmd":"view","args":["half"]}`,
		`{"cmd":"history"}`,
	}, "\n")

	var out bytes.Buffer
	failed, err := runCommands(d, strings.NewReader(in), &out, clk.now)
	require.NoError(t, err)
	assert.Zero(t, failed)

	state := s.State()
	assert.True(t, state.IsDarkMode)
	assert.Equal(t, "zh-TW", state.Language)
	assert.Equal(t, core.Color("#000"), state.TeamAColor)
	assert.False(t, state.ShowOpponent)
	assert.Equal(t, core.ViewHalf, state.ViewMode)
	assert.Len(t, state.Players, 11)
}

func TestRunCommands_Formations(t *testing.T) {
	d, s, clk := newTestDriver(t)

	var out bytes.Buffer
	in := `{"cmd":"formations"}` + "\n" + `{"cmd":"formation","args":["teamA","4-4-2"]}`
	failed, err := runCommands(d, strings.NewReader(in), &out, clk.now)
	require.NoError(t, err)
	assert.Zero(t, failed)

	replies := decodeReplies(t, out.String())
	require.Len(t, replies, 2)
	var keys []string
	for _, k := range replies[0].Result.([]any) {
		keys = append(keys, k.(string))
	}
	assert.Equal(t, formation.Keys(), keys)
	assert.Contains(t, keys, "4-4-2")
	assert.Equal(t, "4-4-2", s.Formation(core.TeamA))
}

func TestRun_Replay(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	cfg := map[string]any{
		"logLevel": "debug",
		"logsDir":  filepath.Join(dir, "logs"),
		"storage": map[string]any{
			"type":   "memory",
			"memory": map[string]any{"path": filepath.Join(dir, "board.json")},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), data, 0644))

	replay := filepath.Join(dir, "commands.jsonl")
	require.NoError(t, os.WriteFile(replay, []byte(`{"cmd":"formation","args":["teamB","3-5-2"]}`+"\n"), 0644))

	var out bytes.Buffer
	code := run(dir, replay, strings.NewReader(""), &out)
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var final core.BoardState
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &final))
	assert.Equal(t, "3-5-2", final.TeamBFormation)

	_, err = os.Stat(filepath.Join(dir, "board.json"))
	assert.NoError(t, err, "board state persisted")
}
