package interact

import (
	"time"

	"gioui.org/io/pointer"
)

// Context owns the interaction of a single UI: the persistent click and drag
// targets, the previous frame's snapshot and the pointer tracker.
// Frames have to be run sequentially; a Context is not safe for concurrent use.
type Context struct {
	cfg     Config
	state   InteractionState
	prev    *Snapshot
	pointer *PointerState
	hits    WidgetHits
	frame   int
}

// NewContext creates a Context with no interaction in progress.
func NewContext(cfg Config) *Context {
	return &Context{
		cfg:     cfg,
		prev:    &Snapshot{},
		pointer: NewPointerState(cfg),
	}
}

// Frame runs the interaction of one frame: raw holds the pointer events
// received since the previous frame and widgets the geometry laid out for
// this frame. now is the frame time on the time base of the raw events.
func (c *Context) Frame(now time.Duration, widgets *WidgetRects, raw []pointer.Event) *Snapshot {
	c.frame++
	c.pointer.Update(now, raw)

	c.hits = WidgetHits{}
	if pos, ok := c.pointer.Pos(); ok {
		c.hits = HitTest(widgets, pos, c.cfg.HitRadius)
	}

	snap := Resolve(c.prev, widgets, c.hits, c.pointer, &c.state)
	c.logEdges(snap)
	c.prev = snap

	return snap
}

func (c *Context) logEdges(snap *Snapshot) {
	if snap.Clicked != nil {
		c.cfg.logf("frame %d: clicked %s", c.frame, snap.Clicked.ID.Short())
	}
	if snap.DragStarted != nil {
		c.cfg.logf("frame %d: drag started %s at %v", c.frame, snap.DragStarted.ID.Short(), snap.DragStarted.Rect)
	}
	if snap.DragEnded != nil {
		c.cfg.logf("frame %d: drag ended %s", c.frame, snap.DragEnded.ID.Short())
	}
}

// Snapshot returns the snapshot of the latest frame.
func (c *Context) Snapshot() *Snapshot { return c.prev }

// State returns a copy of the persistent interaction state.
func (c *Context) State() InteractionState { return c.state }

// Hits returns the hit test of the latest frame.
func (c *Context) Hits() WidgetHits { return c.hits }

// Pointer returns the pointer tracker.
func (c *Context) Pointer() *PointerState { return c.pointer }

// Config returns the configuration the Context was created with.
func (c *Context) Config() Config { return c.cfg }

// FrameNumber returns how many frames have been run.
func (c *Context) FrameNumber() int { return c.frame }
