package interact

import (
	"bytes"
	"log"
	"testing"
	"time"

	"gioui.org/io/pointer"
	"github.com/stretchr/testify/assert"
)

func TestContext_ClickAndDrag(t *testing.T) {
	assert := assert.New(t)

	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.Logger = log.New(&logs, "", 0)

	c := NewContext(cfg)
	widgets := table(widgetA, widgetB, widgetC)
	ms := time.Millisecond

	// Click on C.
	snap := c.Frame(0, widgets, []pointer.Event{mouse(pointer.Press, 50, 120, 0, pointer.ButtonPrimary)})
	assert.Nil(snap.Clicked)
	assert.Equal(widgetC.ID, c.State().ClickID)
	assert.True(snap.IsHovered(widgetC.ID))

	snap = c.Frame(50*ms, widgets, []pointer.Event{mouse(pointer.Release, 50, 120, 50*ms, 0)})
	assert.True(snap.IsClicked(widgetC.ID))
	assert.Equal(InteractionState{}, c.State())

	// Drag B downwards.
	snap = c.Frame(time.Second, widgets, []pointer.Event{mouse(pointer.Press, 50, 60, time.Second, pointer.ButtonPrimary)})
	assert.True(snap.IsDragStarted(widgetB.ID), "drag only widgets are dragged right away")
	assert.True(snap.IsDragged(widgetB.ID))

	snap = c.Frame(time.Second+20*ms, widgets, []pointer.Event{mouse(pointer.Drag, 50, 200, time.Second+20*ms, pointer.ButtonPrimary)})
	assert.True(snap.IsDragged(widgetB.ID))
	assert.False(snap.IsDragStarted(widgetB.ID))
	// The pointer left B, which keeps the hover while dragged.
	assert.True(snap.IsHovered(widgetB.ID))
	assert.False(snap.ContainsPointerOf(widgetB.ID))

	snap = c.Frame(time.Second+40*ms, widgets, []pointer.Event{mouse(pointer.Release, 50, 200, time.Second+40*ms, 0)})
	assert.True(snap.IsDragEnded(widgetB.ID))
	assert.Nil(snap.Dragged)
	assert.Nil(snap.Clicked)

	assert.Same(snap, c.Snapshot())
	assert.Equal(5, c.FrameNumber())
	assert.Equal(cfg.MaxClickDist, c.Config().MaxClickDist)
	assert.Contains(logs.String(), "clicked "+widgetC.ID.Short())
	assert.Contains(logs.String(), "drag started "+widgetB.ID.Short())
	assert.Contains(logs.String(), "drag ended "+widgetB.ID.Short())
}

func TestContext_ClickAndDragWidget(t *testing.T) {
	assert := assert.New(t)

	c := NewContext(DefaultConfig())
	widgets := table(widgetA)
	ms := time.Millisecond

	snap := c.Frame(0, widgets, []pointer.Event{mouse(pointer.Press, 10, 10, 0, pointer.ButtonPrimary)})
	assert.Nil(snap.Dragged, "undecided between a click and a drag")

	snap = c.Frame(10*ms, widgets, []pointer.Event{mouse(pointer.Drag, 12, 10, 10*ms, pointer.ButtonPrimary)})
	assert.Nil(snap.Dragged)

	snap = c.Frame(20*ms, widgets, []pointer.Event{mouse(pointer.Drag, 40, 10, 20*ms, pointer.ButtonPrimary)})
	assert.True(snap.IsDragStarted(widgetA.ID))

	snap = c.Frame(30*ms, widgets, []pointer.Event{mouse(pointer.Release, 40, 10, 30*ms, 0)})
	assert.True(snap.IsDragEnded(widgetA.ID))
	assert.Nil(snap.Clicked, "a drag is not a click")

	snap = c.Frame(40*ms, widgets, nil)
	assert.Nil(snap.DragEnded)
	assert.True(snap.IsHovered(widgetA.ID))
}

func TestContext_PointerOutside(t *testing.T) {
	assert := assert.New(t)

	c := NewContext(DefaultConfig())
	snap := c.Frame(0, table(widgetA), nil)
	assert.True(c.Hits().Empty())
	assert.Empty(snap.Hovered)
	assert.Empty(snap.ContainsPointer)

	c.Frame(0, table(widgetA), []pointer.Event{mouse(pointer.Move, 10, 10, 0, 0)})
	assert.False(c.Hits().Empty())

	snap = c.Frame(0, table(widgetA), []pointer.Event{{Type: pointer.Leave}})
	assert.True(c.Hits().Empty())
	assert.Empty(snap.Hovered)
}

func TestContext_HitRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HitRadius = 5

	c := NewContext(cfg)
	snap := c.Frame(0, table(widgetC), []pointer.Event{mouse(pointer.Move, 103, 120, 0, 0)})
	assert.True(t, snap.IsHovered(widgetC.ID))
}
