package interact

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScenario is returned when a scenario file is malformed.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrUnexpectedSnapshot is returned when a replayed frame does not
	// match the expectations written in the scenario.
	ErrUnexpectedSnapshot = errors.New("unexpected snapshot")
)

// Scenario is a recorded sequence of frames: the widgets laid out on every
// frame and the raw pointer events received before it.
type Scenario struct {
	Name   string          `yaml:"name"`
	Frames []ScenarioFrame `yaml:"frames"`

	names map[ID]string
}

// ScenarioFrame is a single frame of a Scenario.
type ScenarioFrame struct {
	Time time.Duration `yaml:"time"`
	// Widgets of the frame. When omitted the widgets of the previous frame are reused.
	Widgets []ScenarioWidget `yaml:"widgets"`
	Events  []ScenarioEvent  `yaml:"events"`
	Expect  *ScenarioExpect  `yaml:"expect"`
}

// ScenarioWidget describes a widget rectangle.
type ScenarioWidget struct {
	ID       string    `yaml:"id"`
	Rect     []float32 `yaml:"rect"`
	Layer    int       `yaml:"layer"`
	Sense    string    `yaml:"sense"`
	Disabled bool      `yaml:"disabled"`
}

// ScenarioEvent describes a raw pointer event.
type ScenarioEvent struct {
	Type    string        `yaml:"type"`
	Pos     []float32     `yaml:"pos"`
	Buttons string        `yaml:"buttons"`
	Source  string        `yaml:"source"`
	Time    time.Duration `yaml:"time"`
}

// ScenarioExpect lists the widget names expected in a frame's snapshot.
// A nil field is not checked; an empty string expects no widget.
type ScenarioExpect struct {
	Clicked     *string   `yaml:"clicked"`
	DragStarted *string   `yaml:"drag_started"`
	Dragged     *string   `yaml:"dragged"`
	DragEnded   *string   `yaml:"drag_ended"`
	Hovered     *[]string `yaml:"hovered"`
}

// FrameResult is reported for every replayed frame.
type FrameResult struct {
	Index    int
	Widgets  *WidgetRects
	Snapshot *Snapshot
	Pointer  f32.Point
	InWindow bool
}

// LoadScenario decodes and validates a YAML scenario.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario for malformed frames.
func (s *Scenario) Validate() error {
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidScenario)
	}
	s.names = make(map[ID]string)

	for i, f := range s.Frames {
		seen := make(map[string]bool, len(f.Widgets))
		for _, w := range f.Widgets {
			if w.ID == "" {
				return fmt.Errorf("%w: frame %d: widget without id", ErrInvalidScenario, i)
			}
			if seen[w.ID] {
				return fmt.Errorf("%w: frame %d: duplicate widget %q", ErrInvalidScenario, i, w.ID)
			}
			seen[w.ID] = true
			if len(w.Rect) != 4 {
				return fmt.Errorf("%w: frame %d: widget %q: rect needs 4 values, got %d", ErrInvalidScenario, i, w.ID, len(w.Rect))
			}
			if _, err := parseSense(w.Sense); err != nil {
				return fmt.Errorf("%w: frame %d: widget %q: %v", ErrInvalidScenario, i, w.ID, err)
			}
			s.names[IDFrom(w.ID)] = w.ID
		}
		for j, e := range f.Events {
			if _, err := e.event(f.Time); err != nil {
				return fmt.Errorf("%w: frame %d: event %d: %v", ErrInvalidScenario, i, j, err)
			}
		}
	}
	return nil
}

// WidgetName returns the scenario name of a widget ID.
func (s *Scenario) WidgetName(id ID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id.Short()
}

// Replay runs every frame of the scenario through c and calls fn with the
// result. Replay stops at the first error returned by fn or at the first
// frame not matching its expectations.
func (s *Scenario) Replay(c *Context, fn func(FrameResult) error) error {
	if s.names == nil {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	widgets := NewWidgetRects()

	for i, f := range s.Frames {
		if f.Widgets != nil || i == 0 {
			widgets = NewWidgetRects()
			for _, w := range f.Widgets {
				sense, _ := parseSense(w.Sense)
				widgets.Insert(WidgetRect{
					ID:      IDFrom(w.ID),
					Layer:   w.Layer,
					Rect:    R(w.Rect[0], w.Rect[1], w.Rect[2], w.Rect[3]),
					Sense:   sense,
					Enabled: !w.Disabled,
				})
			}
		}

		raw := make([]pointer.Event, 0, len(f.Events))
		for _, e := range f.Events {
			pe, err := e.event(f.Time)
			if err != nil {
				return fmt.Errorf("%w: frame %d: %v", ErrInvalidScenario, i, err)
			}
			raw = append(raw, pe)
		}

		snap := c.Frame(f.Time, widgets, raw)
		if f.Expect != nil {
			if err := s.check(f.Expect, snap); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if fn != nil {
			pos, ok := c.Pointer().Pos()
			res := FrameResult{
				Index:    i,
				Widgets:  widgets,
				Snapshot: snap,
				Pointer:  pos,
				InWindow: ok,
			}
			if err := fn(res); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scenario) check(exp *ScenarioExpect, snap *Snapshot) error {
	single := func(field string, want *string, got *WidgetRect) error {
		if want == nil {
			return nil
		}
		name := ""
		if got != nil {
			name = s.WidgetName(got.ID)
		}
		if name != *want {
			return fmt.Errorf("%w: %s is %q, expected %q", ErrUnexpectedSnapshot, field, name, *want)
		}
		return nil
	}
	if err := single("clicked", exp.Clicked, snap.Clicked); err != nil {
		return err
	}
	if err := single("drag_started", exp.DragStarted, snap.DragStarted); err != nil {
		return err
	}
	if err := single("dragged", exp.Dragged, snap.Dragged); err != nil {
		return err
	}
	if err := single("drag_ended", exp.DragEnded, snap.DragEnded); err != nil {
		return err
	}
	if exp.Hovered != nil {
		want := make(map[string]bool, len(*exp.Hovered))
		for _, name := range *exp.Hovered {
			want[name] = true
		}
		got := make([]string, 0, len(snap.Hovered))
		match := len(want) == len(snap.Hovered)
		for id := range snap.Hovered {
			name := s.WidgetName(id)
			got = append(got, name)
			if !want[name] {
				match = false
			}
		}
		if !match {
			return fmt.Errorf("%w: hovered is %v, expected %v", ErrUnexpectedSnapshot, got, *exp.Hovered)
		}
	}
	return nil
}

// event converts the scenario event to a gio pointer event.
func (e ScenarioEvent) event(frameTime time.Duration) (pointer.Event, error) {
	var pe pointer.Event

	switch strings.ToLower(e.Type) {
	case "press":
		pe.Type = pointer.Press
	case "release":
		pe.Type = pointer.Release
	case "move":
		pe.Type = pointer.Move
	case "drag":
		pe.Type = pointer.Drag
	case "cancel":
		pe.Type = pointer.Cancel
	case "leave":
		pe.Type = pointer.Leave
	default:
		return pe, fmt.Errorf("unknown event type %q", e.Type)
	}

	switch strings.ToLower(e.Source) {
	case "", "mouse":
		pe.Source = pointer.Mouse
	case "touch":
		pe.Source = pointer.Touch
	default:
		return pe, fmt.Errorf("unknown event source %q", e.Source)
	}

	for _, b := range strings.FieldsFunc(strings.ToLower(e.Buttons), func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(b) {
		case "primary", "left":
			pe.Buttons |= pointer.ButtonPrimary
		case "secondary", "right":
			pe.Buttons |= pointer.ButtonSecondary
		case "tertiary", "middle":
			pe.Buttons |= pointer.ButtonTertiary
		default:
			return pe, fmt.Errorf("unknown button %q", b)
		}
	}
	if pe.Type == pointer.Press && pe.Buttons == 0 {
		pe.Buttons = pointer.ButtonPrimary
	}

	switch len(e.Pos) {
	case 0:
		if pe.Type != pointer.Cancel && pe.Type != pointer.Leave {
			return pe, fmt.Errorf("%s event without position", e.Type)
		}
	case 2:
		pe.Position = f32.Pt(e.Pos[0], e.Pos[1])
	default:
		return pe, fmt.Errorf("pos needs 2 values, got %d", len(e.Pos))
	}

	pe.Time = e.Time
	if pe.Time == 0 {
		pe.Time = frameTime
	}
	return pe, nil
}

func parseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hover", "none":
		return SenseHover(), nil
	case "click":
		return SenseClick(), nil
	case "drag":
		return SenseDrag(), nil
	case "click+drag", "click|drag", "both":
		return SenseClickAndDrag(), nil
	}
	return Sense{}, fmt.Errorf("unknown sense %q", s)
}
