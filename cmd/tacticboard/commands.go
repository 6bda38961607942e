package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/tacticboard/internal/board"
	"github.com/OCAP2/tacticboard/internal/dispatcher"
	"github.com/OCAP2/tacticboard/internal/formation"
	"github.com/OCAP2/tacticboard/internal/interaction"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// command is one line of the command stream, e.g.
// {"cmd":"down","args":["teamA-9",0,0]}.
type command struct {
	Cmd  string `json:"cmd"`
	Args []any  `json:"args"`
}

// reply is printed for every command.
type reply struct {
	Cmd    string `json:"cmd"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// virtualClock drives animation time from tick commands so command logs
// replay identically.
type virtualClock struct {
	t time.Time
}

func (c *virtualClock) now() time.Time { return c.t }

func (c *virtualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func floatArg(e dispatcher.Event, i int) (float64, error) {
	v, err := strconv.ParseFloat(e.Args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: arg %d: %w", e.Command, i, err)
	}
	return v, nil
}

func boolArg(e dispatcher.Event, i int) (bool, error) {
	v, err := strconv.ParseBool(e.Args[i])
	if err != nil {
		return false, fmt.Errorf("%s: arg %d: %w", e.Command, i, err)
	}
	return v, nil
}

// pick reads "x z [surface]" starting at arg i. Surface defaults to true.
func pick(e dispatcher.Event, i int) (interaction.Pick, error) {
	x, err := floatArg(e, i)
	if err != nil {
		return interaction.Pick{}, err
	}
	z, err := floatArg(e, i+1)
	if err != nil {
		return interaction.Pick{}, err
	}
	surface := true
	if len(e.Args) > i+2 {
		if surface, err = boolArg(e, i+2); err != nil {
			return interaction.Pick{}, err
		}
	}
	return interaction.Pick{Ground: &core.Vec3{X: x, Z: z}, Surface: surface}, nil
}

func pointer(s *board.Session, kind interaction.EventKind, p interaction.Pick) (any, error) {
	err := s.HandlePointer(interaction.PointerEvent{Kind: kind, Primary: true, Pick: p})
	return s.InteractionState().String(), err
}

func registerCommands(d *dispatcher.Dispatcher, s *board.Session, clk *virtualClock) {
	// down <entity|-> <x> <z> [surface]
	d.Register("down", func(e dispatcher.Event) (any, error) {
		p, err := pick(e, 1)
		if err != nil {
			return nil, err
		}
		if e.Args[0] != "-" {
			p.EntityID = e.Args[0]
		}
		return pointer(s, interaction.PointerDown, p)
	}, dispatcher.MinArgs(3), dispatcher.Logged())

	d.Register("move", func(e dispatcher.Event) (any, error) {
		p, err := pick(e, 0)
		if err != nil {
			return nil, err
		}
		return pointer(s, interaction.PointerMove, p)
	}, dispatcher.MinArgs(2))

	d.Register("up", func(dispatcher.Event) (any, error) {
		return pointer(s, interaction.PointerUp, interaction.Pick{})
	}, dispatcher.Logged())

	d.Register("cancel", func(dispatcher.Event) (any, error) {
		return pointer(s, interaction.PointerCancel, interaction.Pick{})
	}, dispatcher.Logged())

	d.Register("tool", func(e dispatcher.Event) (any, error) {
		return nil, s.SetTool(interaction.Tool(e.Args[0]))
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("lineKind", func(e dispatcher.Event) (any, error) {
		return nil, s.SetLineKind(core.LineKind(e.Args[0]))
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("drawColor", func(e dispatcher.Event) (any, error) {
		return nil, s.SetDrawColor(core.Color(e.Args[0]))
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("undo", func(dispatcher.Event) (any, error) {
		return s.Undo(), nil
	}, dispatcher.Logged())

	d.Register("redo", func(dispatcher.Event) (any, error) {
		return s.Redo(), nil
	}, dispatcher.Logged())

	d.Register("formation", func(e dispatcher.Event) (any, error) {
		return nil, s.SetFormation(core.Team(e.Args[0]), e.Args[1])
	}, dispatcher.MinArgs(2), dispatcher.Logged())

	d.Register("opponent", func(e dispatcher.Event) (any, error) {
		show, err := boolArg(e, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetShowOpponent(show)
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("view", func(e dispatcher.Event) (any, error) {
		return nil, s.SetViewMode(core.ViewMode(e.Args[0]))
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("reset", func(dispatcher.Event) (any, error) {
		return nil, s.ResetPositions()
	}, dispatcher.Logged())

	d.Register("clearLines", func(dispatcher.Event) (any, error) {
		s.ClearLines()
		return nil, nil
	}, dispatcher.Logged())

	d.Register("erase", func(e dispatcher.Event) (any, error) {
		p, err := pick(e, 0)
		if err != nil {
			return nil, err
		}
		return s.EraseLineAt(p.Ground.Planar()), nil
	}, dispatcher.MinArgs(2), dispatcher.Logged())

	d.Register("number", func(e dispatcher.Event) (any, error) {
		return nil, s.SetPlayerNumber(e.Args[0], e.Args[1])
	}, dispatcher.MinArgs(2), dispatcher.Logged())

	d.Register("name", func(e dispatcher.Event) (any, error) {
		return nil, s.SetPlayerName(e.Args[0], strings.Join(e.Args[1:], " "))
	}, dispatcher.MinArgs(2), dispatcher.Logged())

	d.Register("teamColor", func(e dispatcher.Event) (any, error) {
		return nil, s.SetTeamColor(core.Team(e.Args[0]), core.Color(e.Args[1]))
	}, dispatcher.MinArgs(2), dispatcher.Logged())

	d.Register("darkMode", func(e dispatcher.Event) (any, error) {
		dark, err := boolArg(e, 0)
		if err != nil {
			return nil, err
		}
		s.SetDarkMode(dark)
		return nil, nil
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("language", func(e dispatcher.Event) (any, error) {
		return nil, s.SetLanguage(e.Args[0])
	}, dispatcher.MinArgs(1), dispatcher.Logged())

	d.Register("setStart", func(dispatcher.Event) (any, error) {
		s.SetAnimationStart()
		return nil, nil
	}, dispatcher.Logged())

	d.Register("play", func(dispatcher.Event) (any, error) {
		return nil, s.Play()
	}, dispatcher.Logged())

	// tick <ms> advances the virtual clock and reports whether playback settled
	d.Register("tick", func(e dispatcher.Event) (any, error) {
		ms, err := floatArg(e, 0)
		if err != nil {
			return nil, err
		}
		clk.advance(time.Duration(ms * float64(time.Millisecond)))
		return s.Tick(), nil
	}, dispatcher.MinArgs(1))

	d.Register("formations", func(dispatcher.Event) (any, error) {
		return formation.Keys(), nil
	})

	d.Register("history", func(dispatcher.Event) (any, error) {
		return s.HistoryState(), nil
	})

	d.Register("state", func(dispatcher.Event) (any, error) {
		return s.State(), nil
	})

	d.Register("render", func(dispatcher.Event) (any, error) {
		return s.RenderLines(), nil
	})
}

func argString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// runCommands executes every JSON line of in and writes one reply per
// command to out. Blank lines are skipped; malformed lines produce an
// error reply and processing continues.
func runCommands(d *dispatcher.Dispatcher, in io.Reader, out io.Writer, now func() time.Time) (failed int, err error) {
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var cmd command
		r := reply{}
		if jerr := json.Unmarshal([]byte(line), &cmd); jerr != nil {
			r.Error = fmt.Sprintf("invalid command: %v", jerr)
		} else {
			r.Cmd = cmd.Cmd
			args := make([]string, len(cmd.Args))
			for i, a := range cmd.Args {
				args[i] = argString(a)
			}
			result, derr := d.Dispatch(dispatcher.Event{Command: cmd.Cmd, Args: args, Timestamp: now()})
			if derr != nil {
				r.Error = derr.Error()
			} else {
				r.OK = true
				r.Result = result
			}
		}
		if !r.OK {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return failed, err
		}
	}
	return failed, scanner.Err()
}
