package interact

import (
	"math/rand"
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"
)

type fakeInput struct {
	events   []PointerEvent
	dragging bool
}

func (f fakeInput) Events() []PointerEvent     { return f.events }
func (f fakeInput) IsDecidedlyDragging() bool { return f.dragging }

func input(dragging bool, events ...PointerEvent) fakeInput {
	return fakeInput{events: events, dragging: dragging}
}

var (
	press   = PointerEvent{Kind: Pressed}
	moved   = PointerEvent{Kind: Moved, Pos: f32.Pt(1, 1)}
	click   = PointerEvent{Kind: Released, Click: &Click{Count: 1}}
	release = PointerEvent{Kind: Released}
)

var (
	widgetA = WidgetRect{ID: IDFrom("a"), Rect: R(0, 0, 100, 40), Sense: SenseClickAndDrag(), Enabled: true}
	widgetB = WidgetRect{ID: IDFrom("b"), Rect: R(0, 50, 100, 90), Sense: SenseDrag(), Enabled: true}
	widgetC = WidgetRect{ID: IDFrom("c"), Rect: R(0, 100, 100, 140), Sense: SenseClick(), Enabled: true}
	label1  = WidgetRect{ID: IDFrom("label1"), Rect: R(0, 0, 300, 300), Sense: SenseHover(), Enabled: true}
	label2  = WidgetRect{ID: IDFrom("label2"), Rect: R(10, 10, 200, 200), Sense: SenseHover(), Enabled: true}
)

func table(ws ...WidgetRect) *WidgetRects {
	t := NewWidgetRects()
	for _, w := range ws {
		t.Insert(w)
	}
	return t
}

// over returns the hits of a pointer resting over w.
func over(w WidgetRect) WidgetHits {
	hits := WidgetHits{ContainsPointer: []WidgetRect{w}}
	if w.Sense.Click {
		hits.Click = &w
	}
	if w.Sense.Drag {
		hits.Drag = &w
	}
	return hits
}

func ids(m map[ID]WidgetRect) []ID {
	res := make([]ID, 0, len(m))
	for id := range m {
		res = append(res, id)
	}
	return res
}

func TestResolve_ClickRecognition(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetC)

	snap := Resolve(nil, widgets, over(widgetC), input(false, press), &state)
	assert.Nil(snap.Clicked)
	assert.Equal(widgetC.ID, state.ClickID)
	assert.Equal(NoID, state.DragID)
	assert.ElementsMatch([]ID{widgetC.ID}, ids(snap.Hovered))

	snap = Resolve(snap, widgets, over(widgetC), input(false, click), &state)
	if assert.NotNil(snap.Clicked) {
		assert.Equal(widgetC.ID, snap.Clicked.ID)
	}
	assert.True(snap.IsClicked(widgetC.ID))
	assert.Equal(InteractionState{}, state)

	snap = Resolve(snap, widgets, over(widgetC), input(false), &state)
	assert.Nil(snap.Clicked)
}

func TestResolve_ReleaseWithoutClickClearsState(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetC)

	snap := Resolve(nil, widgets, over(widgetC), input(false, press), &state)
	snap = Resolve(snap, widgets, over(widgetC), input(false, release), &state)

	assert.Nil(snap.Clicked)
	assert.Equal(InteractionState{}, state)
}

func TestResolve_NoSameFrameDrag(t *testing.T) {
	for _, w := range []WidgetRect{widgetA, widgetB} {
		for _, dragging := range []bool{false, true} {
			var state InteractionState
			snap := Resolve(nil, table(w), over(w), input(dragging, press, moved, release), &state)

			assert.Nil(t, snap.Dragged, w.Sense.String())
			assert.Nil(t, snap.DragStarted, w.Sense.String())
			assert.Nil(t, snap.DragEnded, w.Sense.String())
			assert.Equal(t, InteractionState{}, state)
		}
	}
}

func TestResolve_ClickAndDragWidgetClicked(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetA)

	// Frame 1: the press could still be a click.
	snap := Resolve(nil, widgets, over(widgetA), input(false, press), &state)
	assert.Nil(snap.Dragged)
	assert.Nil(snap.Clicked)
	assert.ElementsMatch([]ID{widgetA.ID}, ids(snap.Hovered))
	assert.Equal(widgetA.ID, state.ClickID)
	assert.Equal(widgetA.ID, state.DragID)

	// Frame 2: released without moving.
	snap = Resolve(snap, widgets, over(widgetA), input(false, click), &state)
	assert.True(snap.IsClicked(widgetA.ID))
	assert.Nil(snap.Dragged)
	assert.Nil(snap.DragEnded)
	assert.ElementsMatch([]ID{widgetA.ID}, ids(snap.Hovered))
}

func TestResolve_ClickAndDragWidgetDragged(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetA)

	snap := Resolve(nil, widgets, over(widgetA), input(false, press), &state)
	assert.Nil(snap.Dragged)

	snap = Resolve(snap, widgets, over(widgetA), input(true, moved), &state)
	assert.True(snap.IsDragged(widgetA.ID))
	assert.True(snap.IsDragStarted(widgetA.ID))

	snap = Resolve(snap, widgets, over(widgetA), input(true, moved), &state)
	assert.True(snap.IsDragged(widgetA.ID))
	assert.Nil(snap.DragStarted)

	// The release ends the drag; a dragged release is not a click.
	snap = Resolve(snap, widgets, over(widgetA), input(true, release), &state)
	assert.Nil(snap.Dragged)
	assert.Nil(snap.Clicked)
	assert.True(snap.IsDragEnded(widgetA.ID))
}

func TestResolve_DragOnlyWidget(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetB)

	// Frame 1: the drag starts right away.
	snap := Resolve(nil, widgets, over(widgetB), input(false, press), &state)
	assert.True(snap.IsDragged(widgetB.ID))
	assert.True(snap.IsDragStarted(widgetB.ID))
	assert.Nil(snap.DragEnded)
	assert.Equal(NoID, state.ClickID)

	// Frame 2: moving, still pressed.
	snap = Resolve(snap, widgets, over(widgetB), input(false, moved), &state)
	assert.True(snap.IsDragged(widgetB.ID))
	assert.Nil(snap.DragStarted)
	assert.Nil(snap.DragEnded)

	// Frame 3: released.
	snap = Resolve(snap, widgets, over(widgetB), input(false, release), &state)
	assert.Nil(snap.Dragged)
	assert.Nil(snap.DragStarted)
	assert.True(snap.IsDragEnded(widgetB.ID))

	snap = Resolve(snap, widgets, over(widgetB), input(false), &state)
	assert.Nil(snap.DragEnded)
}

func TestResolve_DragStartedOnMovedWidget(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState

	snap := Resolve(nil, table(widgetB), over(widgetB), input(false, press), &state)
	assert.True(snap.IsDragStarted(widgetB.ID))

	// Same widget, new rectangle: still the same drag.
	moved := widgetB
	moved.Rect = moved.Rect.Translate(f32.Pt(30, 30))
	snap = Resolve(snap, table(moved), over(moved), input(false), &state)
	assert.True(snap.IsDragged(widgetB.ID))
	assert.Nil(snap.DragStarted)
	assert.Nil(snap.DragEnded)
	assert.Equal(moved.Rect, snap.Dragged.Rect)
}

func TestResolve_HoverSuppression(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetB, widgetC, label1)

	snap := Resolve(nil, widgets, over(widgetB), input(false, press), &state)
	assert.True(snap.IsDragged(widgetB.ID))

	// Dragging B over C: only B is hovered.
	hits := over(widgetC)
	hits.ContainsPointer = []WidgetRect{label1, widgetC}
	snap = Resolve(snap, widgets, hits, input(false, moved), &state)
	assert.ElementsMatch([]ID{widgetB.ID}, ids(snap.Hovered))
	assert.ElementsMatch([]ID{label1.ID, widgetC.ID}, ids(snap.ContainsPointer))
	assert.False(snap.IsHovered(widgetC.ID))
	assert.True(snap.ContainsPointerOf(widgetC.ID))
}

func TestResolve_HoverCandidates(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(label1, widgetB, widgetC)

	// Click and drag candidates are different widgets.
	b, c := widgetB, widgetC
	hits := WidgetHits{
		Click:           &c,
		Drag:            &b,
		ContainsPointer: []WidgetRect{label1},
	}
	snap := Resolve(nil, widgets, hits, input(false), &state)
	assert.ElementsMatch([]ID{widgetB.ID, widgetC.ID}, ids(snap.Hovered))
	// The candidates are merged into the contains pointer set.
	assert.ElementsMatch([]ID{label1.ID, widgetB.ID, widgetC.ID}, ids(snap.ContainsPointer))

	// One press adopts both candidates.
	snap = Resolve(snap, widgets, hits, input(false, press), &state)
	assert.Equal(widgetC.ID, state.ClickID)
	assert.Equal(widgetB.ID, state.DragID)
	assert.True(snap.IsDragged(widgetB.ID))
}

func TestResolve_PassiveHoverSingularity(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	hits := WidgetHits{ContainsPointer: []WidgetRect{label1, label2}}

	snap := Resolve(nil, table(label1, label2), hits, input(false), &state)
	assert.ElementsMatch([]ID{label2.ID}, ids(snap.Hovered))
	assert.Len(snap.ContainsPointer, 2)

	snap = Resolve(snap, table(label1, label2), WidgetHits{}, input(false), &state)
	assert.Empty(snap.Hovered)
	assert.Empty(snap.ContainsPointer)
}

func TestResolve_DragTargetDisappearance(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState

	snap := Resolve(nil, table(widgetB), over(widgetB), input(false, press), &state)
	assert.True(snap.IsDragged(widgetB.ID))

	// B is not laid out while in flight.
	snap = Resolve(snap, table(widgetC), WidgetHits{}, input(false, moved), &state)
	assert.Nil(snap.Dragged)
	assert.True(snap.IsDragEnded(widgetB.ID))
	assert.Equal(widgetB.ID, state.DragID)

	snap = Resolve(snap, table(widgetC), WidgetHits{}, input(false, moved), &state)
	assert.Nil(snap.Dragged)
	assert.Nil(snap.DragEnded)
	assert.Equal(widgetB.ID, state.DragID)

	// B shows up again with the same id.
	snap = Resolve(snap, table(widgetB), WidgetHits{}, input(false), &state)
	assert.True(snap.IsDragged(widgetB.ID))
	assert.True(snap.IsDragStarted(widgetB.ID))

	snap = Resolve(snap, table(widgetB), WidgetHits{}, input(false, release), &state)
	assert.Equal(NoID, state.DragID)
	assert.True(snap.IsDragEnded(widgetB.ID))
}

func TestResolve_ClickTargetDisappearance(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState

	snap := Resolve(nil, table(widgetC), over(widgetC), input(false, press), &state)
	assert.Equal(widgetC.ID, state.ClickID)

	snap = Resolve(snap, table(widgetA), WidgetHits{}, input(false), &state)
	assert.Equal(NoID, state.ClickID)

	// C is back but the press was abandoned.
	snap = Resolve(snap, table(widgetC), over(widgetC), input(false, click), &state)
	assert.Nil(snap.Clicked)
	assert.Equal(InteractionState{}, state)
}

func TestResolve_PressKeepsTrackedTargets(t *testing.T) {
	assert := assert.New(t)

	state := InteractionState{ClickID: widgetC.ID}
	widgets := table(widgetA, widgetC)

	Resolve(nil, widgets, over(widgetA), input(false, press), &state)
	assert.Equal(widgetC.ID, state.ClickID)
	assert.Equal(widgetA.ID, state.DragID)
}

func TestResolve_PressOverNothing(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	snap := Resolve(nil, table(widgetA), WidgetHits{}, input(false, press), &state)

	assert.Equal(InteractionState{}, state)
	assert.Nil(snap.Clicked)
	assert.Nil(snap.Dragged)
	assert.Empty(snap.Hovered)
	assert.NotNil(snap.Hovered)
	assert.NotNil(snap.ContainsPointer)
}

func TestResolve_ClickThenPressInSameFrame(t *testing.T) {
	assert := assert.New(t)

	var state InteractionState
	widgets := table(widgetC, widgetB)

	snap := Resolve(nil, widgets, over(widgetC), input(false, press), &state)
	// Release over C, then a new press over B within the same frame.
	snap = Resolve(snap, widgets, over(widgetB), input(false, click, press), &state)

	assert.True(snap.IsClicked(widgetC.ID))
	assert.True(snap.IsDragged(widgetB.ID))
	assert.True(snap.IsDragStarted(widgetB.ID))
	assert.ElementsMatch([]ID{widgetB.ID, widgetC.ID}, ids(snap.Hovered))
}

// TestResolve_Invariants replays random frames with widget churn
// and checks the snapshot invariants on every frame.
func TestResolve_Invariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	all := []WidgetRect{widgetA, widgetB, widgetC, label1, label2}

	var state InteractionState
	prev := &Snapshot{}

	for frame := 0; frame < 5000; frame++ {
		widgets := NewWidgetRects()
		for _, w := range all {
			if rnd.Intn(5) > 0 {
				widgets.Insert(w)
			}
		}

		var hits WidgetHits
		if order := widgets.Order(); len(order) > 0 && rnd.Intn(4) > 0 {
			hits = over(order[rnd.Intn(len(order))])
		}

		var events []PointerEvent
		for n := rnd.Intn(4); n > 0; n-- {
			switch rnd.Intn(4) {
			case 0:
				events = append(events, moved)
			case 1:
				events = append(events, press)
			case 2:
				events = append(events, click)
			case 3:
				events = append(events, release)
			}
		}

		snap := Resolve(prev, widgets, hits, input(rnd.Intn(2) == 0, events...), &state)

		if snap.DragStarted != nil {
			if !assert.NotNil(t, snap.Dragged) {
				return
			}
			assert.Equal(t, snap.DragStarted.ID, snap.Dragged.ID)
			assert.NotEqual(t, snap.DragStarted.ID, idOf(prev.Dragged))
		}
		if snap.DragEnded != nil {
			assert.NotEqual(t, snap.DragEnded.ID, idOf(snap.Dragged))
			assert.Equal(t, snap.DragEnded.ID, idOf(prev.Dragged))
		}
		if snap.Dragged != nil && snap.DragStarted == nil {
			assert.Equal(t, snap.Dragged.ID, idOf(prev.Dragged))
		}
		if snap.Clicked != nil || snap.Dragged != nil {
			for id := range snap.Hovered {
				assert.True(t, id == idOf(snap.Clicked) || id == idOf(snap.Dragged))
			}
		}
		if state.ClickID != NoID {
			assert.True(t, widgets.Contains(state.ClickID))
		}
		if t.Failed() {
			t.Fatalf("invariant broken at frame %d", frame)
		}
		prev = snap
	}
}

func BenchmarkResolve(b *testing.B) {
	widgets := NewWidgetRects()
	for i := 0; i < 200; i++ {
		widgets.Insert(WidgetRect{
			ID:      IDFrom("bench", i),
			Rect:    R(float32(i%20)*50, float32(i/20)*30, float32(i%20)*50+45, float32(i/20)*30+25),
			Sense:   SenseClickAndDrag(),
			Enabled: true,
		})
	}
	hits := HitTest(widgets, f32.Pt(60, 40), 0)
	in := input(false, moved, press)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var state InteractionState
		Resolve(nil, widgets, hits, in, &state)
	}
}
