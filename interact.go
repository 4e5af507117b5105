package interact

// Input is the pointer input of a single frame, as seen by Resolve.
// It is implemented by PointerState.
type Input interface {
	// Events returns the pointer events since the previous frame, oldest first.
	Events() []PointerEvent
	// IsDecidedlyDragging reports whether the current press has moved or
	// lasted too much to still be considered a click.
	IsDecidedlyDragging() bool
}

// Resolve computes the interaction snapshot of a frame from the previous
// snapshot, the frame's widgets, the hit test at the pointer position and the
// pointer input. The click and drag targets in state are updated in place.
//
// A press and a release within the same frame is never reported as a drag,
// not even for widgets that only sense drags.
func Resolve(
	prev *Snapshot,
	widgets *WidgetRects,
	hits WidgetHits,
	input Input,
	state *InteractionState,
) *Snapshot {
	if prev == nil {
		prev = &Snapshot{}
	}

	// The widget we wanted to click is gone, the press is abandoned.
	if state.ClickID != NoID && !widgets.Contains(state.ClickID) {
		state.ClickID = NoID
	}
	// A missing drag target is fine: it could be a drag-and-drop payload
	// that is not laid out while in flight.

	var clicked *WidgetRect

	for _, e := range input.Events() {
		switch e.Kind {
		case Moved:
		case Pressed:
			if state.ClickID == NoID && hits.Click != nil {
				state.ClickID = hits.Click.ID
			}
			if state.DragID == NoID && hits.Drag != nil {
				state.DragID = hits.Drag.ID
			}
		case Released:
			if e.Click != nil {
				if w, ok := widgets.Get(state.ClickID); ok {
					clicked = &w
				}
			}
			state.Reset()
		}
	}

	var dragged *WidgetRect
	if w, ok := widgets.Get(state.DragID); ok {
		var isDragged bool
		if w.Sense.Click && w.Sense.Drag {
			// Could be either a click or a drag, wait for the pointer to decide.
			isDragged = input.IsDecidedlyDragging()
		} else {
			isDragged = w.Sense.Drag
		}
		if isDragged {
			dragged = &w
		}
	}

	var dragStarted, dragEnded *WidgetRect
	if idOf(dragged) != idOf(prev.Dragged) {
		dragEnded = prev.Dragged
		dragStarted = dragged
	}

	containsPointer := make(map[ID]WidgetRect, len(hits.ContainsPointer)+2)
	for _, w := range hits.ContainsPointer {
		containsPointer[w.ID] = w
	}
	insert(containsPointer, hits.Click)
	insert(containsPointer, hits.Drag)

	hovered := make(map[ID]WidgetRect, 2)
	switch {
	case clicked != nil || dragged != nil:
		// Nothing else is hovered while clicking or dragging.
		insert(hovered, clicked)
		insert(hovered, dragged)
	case hits.Click != nil || hits.Drag != nil:
		insert(hovered, hits.Click)
		insert(hovered, hits.Drag)
	case len(hits.ContainsPointer) > 0:
		top := hits.ContainsPointer[len(hits.ContainsPointer)-1]
		hovered[top.ID] = top
	}

	return &Snapshot{
		Clicked:         clicked,
		DragStarted:     dragStarted,
		Dragged:         dragged,
		DragEnded:       dragEnded,
		Hovered:         hovered,
		ContainsPointer: containsPointer,
	}
}

func idOf(w *WidgetRect) ID {
	if w == nil {
		return NoID
	}
	return w.ID
}

func insert(m map[ID]WidgetRect, w *WidgetRect) {
	if w != nil {
		m[w.ID] = *w
	}
}
