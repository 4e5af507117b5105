package interact

import (
	"gioui.org/f32"
	"golang.org/x/exp/slices"
)

// WidgetHits is the result of hit testing a pointer position against a frame's widgets.
type WidgetHits struct {
	// Click is the topmost enabled widget under the pointer that senses clicks.
	Click *WidgetRect
	// Drag is the topmost enabled widget under the pointer that senses drags.
	Drag *WidgetRect
	// ContainsPointer lists every widget under the pointer, ordered back-to-front.
	ContainsPointer []WidgetRect
}

// Empty reports whether nothing is under the pointer.
func (h WidgetHits) Empty() bool {
	return h.Click == nil && h.Drag == nil && len(h.ContainsPointer) == 0
}

// HitTest finds the widgets under pos. A widget is hit when its rectangle,
// grown by radius, contains the position. Widgets on a higher layer are above
// lower ones, widgets on the same layer are stacked in insertion order.
func HitTest(widgets *WidgetRects, pos f32.Point, radius float32) WidgetHits {
	var hits WidgetHits

	for _, w := range widgets.Order() {
		if w.Rect.Expand(radius).Contains(pos) {
			hits.ContainsPointer = append(hits.ContainsPointer, w)
		}
	}
	slices.SortStableFunc(hits.ContainsPointer, func(a, b WidgetRect) bool {
		return a.Layer < b.Layer
	})

	for i := len(hits.ContainsPointer) - 1; i >= 0; i-- {
		w := hits.ContainsPointer[i]
		if !w.Enabled {
			continue
		}
		if hits.Click == nil && w.Sense.Click {
			hits.Click = &w
		}
		if hits.Drag == nil && w.Sense.Drag {
			hits.Drag = &w
		}
		if hits.Click != nil && hits.Drag != nil {
			break
		}
	}
	return hits
}
