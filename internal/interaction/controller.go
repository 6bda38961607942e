// Package interaction turns pointer events into board edits.
//
// The Controller is a small state machine: a pointer-down picks a gesture
// based on the selected tool, moves feed that gesture, and a pointer-up or
// pointer-cancel commits it. The camera is locked for the whole gesture.
package interaction

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/tacticboard/internal/annotation"
	"github.com/OCAP2/tacticboard/pkg/core"
)

// State is the controller state.
type State uint8

const (
	Idle State = iota
	Dragging
	Rotating
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Rotating:
		return "rotating"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Tool selects what a pointer-down does.
type Tool string

const (
	ToolMove   Tool = "move"
	ToolRotate Tool = "rotate"
	ToolDraw   Tool = "draw"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolMove || t == ToolRotate || t == ToolDraw
}

// EventKind is the pointer event type.
type EventKind uint8

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

// Pick is what the renderer found under the pointer. EntityID is the
// nearest draggable entity hit by the ray, if any. Ground is the ray's
// intersection with the pitch plane and Surface reports whether that
// intersection lies on the pitch mesh.
type Pick struct {
	EntityID string
	Ground   *core.Vec3
	Surface  bool
}

// PointerEvent is a normalized pointer event. Secondary pointers of a
// multi-touch gesture are ignored.
type PointerEvent struct {
	Kind    EventKind
	Primary bool
	Pick    Pick
}

// Model is the part of the scene the controller edits.
type Model interface {
	SetEntityPosition(id string, x, z float64) (core.Position2D, error)
	SetEntityHeading(id string, point core.Position2D) (float64, error)
}

// CameraLock enables or disables camera orbiting.
type CameraLock interface {
	SetEnabled(enabled bool)
}

// Gesture describes a finished interaction.
type Gesture struct {
	Tool     Tool
	EntityID string     // dragged or rotated entity
	Line     *core.Line // finished stroke when drawing
}

// Dependencies holds the collaborators of a Controller.
type Dependencies struct {
	Model  Model
	Camera CameraLock
	// Commit is called when a gesture ends.
	Commit func(Gesture)
	Logger *slog.Logger
}

// Controller is the pointer state machine.
type Controller struct {
	deps Dependencies
	log  *slog.Logger

	tool     Tool
	lineKind core.LineKind
	color    core.Color

	state   State
	target  string
	builder annotation.Builder
}

// New creates a controller in the Idle state with the move tool selected.
func New(deps Dependencies) *Controller {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		deps:     deps,
		log:      log,
		tool:     ToolMove,
		lineKind: core.LineSolid,
		color:    "#ffff00",
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Tool returns the selected tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool selects the tool for the next gesture. A gesture in progress
// keeps the tool it started with.
func (c *Controller) SetTool(t Tool) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tool %q", t)
	}
	c.tool = t
	return nil
}

// LineKind returns the stroke kind used by the draw tool.
func (c *Controller) LineKind() core.LineKind { return c.lineKind }

// SetLineKind sets the stroke kind used by the draw tool.
func (c *Controller) SetLineKind(k core.LineKind) error {
	if !k.Valid() {
		return fmt.Errorf("unknown line kind %q", k)
	}
	c.lineKind = k
	return nil
}

// Color returns the stroke colour used by the draw tool.
func (c *Controller) Color() core.Color { return c.color }

// SetColor sets the stroke colour used by the draw tool.
func (c *Controller) SetColor(col core.Color) error {
	if !col.Valid() {
		return fmt.Errorf("invalid colour %q", col)
	}
	c.color = col
	return nil
}

// Preview returns the stroke being drawn, if any.
func (c *Controller) Preview() (core.Line, bool) {
	return c.builder.Current()
}

// Handle feeds one pointer event through the state machine. Errors from
// the model are returned after the controller has skipped the update; the
// gesture itself stays alive.
func (c *Controller) Handle(ev PointerEvent) error {
	if !ev.Primary {
		return nil
	}
	switch ev.Kind {
	case PointerDown:
		c.down(ev.Pick)
		return nil
	case PointerMove:
		return c.move(ev.Pick)
	case PointerUp, PointerCancel:
		c.up()
		return nil
	default:
		return fmt.Errorf("unknown pointer event %d", ev.Kind)
	}
}

func (c *Controller) down(p Pick) {
	if c.state != Idle {
		return
	}
	switch c.tool {
	case ToolMove, ToolRotate:
		if p.EntityID == "" {
			return
		}
		c.target = p.EntityID
		if c.tool == ToolMove {
			c.enter(Dragging)
		} else {
			c.enter(Rotating)
		}
	case ToolDraw:
		if p.Ground == nil || !p.Surface {
			return
		}
		c.builder.Begin(c.lineKind, c.color, *p.Ground)
		c.enter(Drawing)
	}
}

func (c *Controller) move(p Pick) error {
	if p.Ground == nil {
		return nil
	}
	switch c.state {
	case Dragging:
		if _, err := c.deps.Model.SetEntityPosition(c.target, p.Ground.X, p.Ground.Z); err != nil {
			return fmt.Errorf("drag %s: %w", c.target, err)
		}
	case Rotating:
		if !p.Surface {
			return nil
		}
		if _, err := c.deps.Model.SetEntityHeading(c.target, p.Ground.Planar()); err != nil {
			return fmt.Errorf("rotate %s: %w", c.target, err)
		}
	case Drawing:
		if p.Surface {
			c.builder.Extend(*p.Ground)
		}
	}
	return nil
}

func (c *Controller) up() {
	if c.state == Idle {
		return
	}

	g := Gesture{EntityID: c.target}
	switch c.state {
	case Dragging:
		g.Tool = ToolMove
	case Rotating:
		g.Tool = ToolRotate
	case Drawing:
		g.Tool = ToolDraw
		g.EntityID = ""
		if line, ok := c.builder.Finish(); ok {
			g.Line = &line
		}
	}

	c.target = ""
	c.enter(Idle)

	if c.deps.Commit != nil {
		c.deps.Commit(g)
	}
}

func (c *Controller) enter(s State) {
	if s == c.state {
		return
	}
	c.log.Debug("Interaction state changed", "from", c.state.String(), "to", s.String(), "tool", string(c.tool))
	c.state = s
	if c.deps.Camera != nil {
		c.deps.Camera.SetEnabled(s == Idle)
	}
}
