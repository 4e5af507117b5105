package interact

import (
	"fmt"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/esimov/interact/utils"
)

// EventKind is the type of a PointerEvent.
type EventKind uint8

const (
	// Moved is reported when the pointer changed position.
	Moved EventKind = iota
	// Pressed is reported when a button was pressed or a touch began.
	Pressed
	// Released is reported when a button was released, a touch ended
	// or the gesture got cancelled by the system.
	Released
)

func (k EventKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Click describes a release that qualifies as a click.
type Click struct {
	// Count is 1 for a single click, 2 for a double click and so on.
	Count int
}

// PointerEvent is a discrete pointer event accumulated since the previous frame.
type PointerEvent struct {
	Kind   EventKind
	Pos    f32.Point
	Button pointer.Buttons
	// Click is only set on a Released event that qualifies as a click,
	// i.e. the pointer was neither dragged away nor held down for too long.
	Click *Click
}

func (e PointerEvent) String() string {
	switch e.Kind {
	case Moved:
		return fmt.Sprintf("moved %v", e.Pos)
	case Released:
		if e.Click != nil {
			return fmt.Sprintf("released %v at %v (click x%d)", e.Button, e.Pos, e.Click.Count)
		}
		return fmt.Sprintf("released %v at %v", e.Button, e.Pos)
	default:
		return fmt.Sprintf("%v %v at %v", e.Kind, e.Button, e.Pos)
	}
}

// PointerState turns raw gio pointer events into the frame's PointerEvents
// and decides whether a press has turned into a drag.
type PointerState struct {
	cfg Config

	now    time.Duration
	pos    f32.Point
	hasPos bool
	down   pointer.Buttons

	pressOrigin  f32.Point
	pressTime    time.Duration
	couldBeClick bool

	lastClick  time.Duration
	clickCount int

	// per frame
	events   []PointerEvent
	released bool
	clicked  bool
}

// NewPointerState creates a pointer tracker using the click thresholds of cfg.
func NewPointerState(cfg Config) *PointerState {
	return &PointerState{cfg: cfg}
}

// Update replaces the frame's events with the translation of raw.
// now is the frame time, on the same time base as the raw event timestamps.
func (ps *PointerState) Update(now time.Duration, raw []pointer.Event) {
	ps.events = ps.events[:0]
	ps.released = false
	ps.clicked = false

	for _, e := range raw {
		if e.Time > ps.now {
			ps.now = e.Time
		}
		switch e.Type {
		case pointer.Move, pointer.Drag, pointer.Enter:
			ps.move(e.Position)
		case pointer.Leave:
			if ps.down == 0 {
				ps.hasPos = false
			}
		case pointer.Press:
			ps.press(e)
		case pointer.Release:
			ps.release(e)
		case pointer.Cancel:
			ps.cancel()
		}
	}
	if now > ps.now {
		ps.now = now
	}
	if ps.down != 0 && ps.now-ps.pressTime > ps.cfg.MaxClickDuration.Duration {
		ps.couldBeClick = false
	}
}

func (ps *PointerState) move(pos f32.Point) {
	if ps.hasPos && pos == ps.pos {
		return
	}
	ps.pos, ps.hasPos = pos, true
	if ps.down != 0 && ps.couldBeClick && distance(ps.pressOrigin, pos) > ps.cfg.MaxClickDist {
		ps.couldBeClick = false
	}
	ps.events = append(ps.events, PointerEvent{Kind: Moved, Pos: pos})
}

func (ps *PointerState) press(e pointer.Event) {
	ps.move(e.Position)

	buttons := buttonsOf(e)
	pressed := buttons &^ ps.down
	if pressed == 0 {
		return
	}
	if ps.down == 0 {
		ps.pressOrigin = ps.pos
		ps.pressTime = ps.now
		ps.couldBeClick = true
	}
	ps.down |= pressed
	ps.events = append(ps.events, PointerEvent{Kind: Pressed, Pos: ps.pos, Button: pressed})
}

func (ps *PointerState) release(e pointer.Event) {
	ps.move(e.Position)

	var remaining pointer.Buttons
	if e.Source == pointer.Mouse {
		remaining = e.Buttons
	}
	released := ps.down &^ remaining
	if released == 0 {
		return
	}
	ps.down &= remaining

	if ps.now-ps.pressTime > ps.cfg.MaxClickDuration.Duration {
		ps.couldBeClick = false
	}

	var click *Click
	if ps.couldBeClick {
		if ps.clickCount > 0 && ps.now-ps.lastClick <= ps.cfg.MultiClickInterval.Duration {
			ps.clickCount++
		} else {
			ps.clickCount = 1
		}
		ps.lastClick = ps.now
		ps.clicked = true
		click = &Click{Count: ps.clickCount}
	}
	ps.released = true
	ps.events = append(ps.events, PointerEvent{Kind: Released, Pos: ps.pos, Button: released, Click: click})
}

// cancel ends the current gesture without a click.
func (ps *PointerState) cancel() {
	if ps.down == 0 {
		return
	}
	released := ps.down
	ps.down = 0
	ps.couldBeClick = false
	ps.released = true
	ps.events = append(ps.events, PointerEvent{Kind: Released, Pos: ps.pos, Button: released})
}

// Events returns the pointer events of the current frame in chronological order.
func (ps *PointerState) Events() []PointerEvent {
	return ps.events
}

// Pos returns the latest known pointer position. The second return value
// is false when the pointer is outside of the window.
func (ps *PointerState) Pos() (f32.Point, bool) {
	return ps.pos, ps.hasPos
}

// Down returns the set of buttons currently held.
func (ps *PointerState) Down() pointer.Buttons {
	return ps.down
}

// PressOrigin returns where the current (or latest) press started.
func (ps *PointerState) PressOrigin() f32.Point {
	return ps.pressOrigin
}

// CouldBeClick reports whether the current press may still turn into a click.
func (ps *PointerState) CouldBeClick() bool {
	return ps.couldBeClick
}

// IsDecidedlyDragging reports whether the current gesture has moved or lasted
// too much to be a click. It stays true on the frame the drag is released.
func (ps *PointerState) IsDecidedlyDragging() bool {
	return (ps.down != 0 || ps.released) && !ps.couldBeClick && !ps.clicked
}

// buttonsOf returns the buttons held by a press. Touches carry
// no button information and are treated as primary presses.
func buttonsOf(e pointer.Event) pointer.Buttons {
	if e.Source == pointer.Touch || e.Buttons == 0 {
		return pointer.ButtonPrimary
	}
	return e.Buttons
}

func distance(a, b f32.Point) float32 {
	d := b.Sub(a)
	return utils.Hypot(d.X, d.Y)
}
