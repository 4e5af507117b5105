package interact

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/esimov/interact/utils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Snapshot is the outcome of the pointer interaction of a single frame.
// It is never modified once Resolve returned it.
type Snapshot struct {
	// Clicked is the widget that got clicked this frame.
	Clicked *WidgetRect
	// DragStarted is the widget whose drag started this frame.
	// The same widget is found in Dragged.
	DragStarted *WidgetRect
	// Dragged is the widget being dragged this frame. It is set on the frame
	// the drag starts and unset on the frame the drag ends.
	Dragged *WidgetRect
	// DragEnded is the widget that was let go this frame after having been
	// dragged. It is never the widget found in Dragged.
	DragEnded *WidgetRect

	Hovered         map[ID]WidgetRect
	ContainsPointer map[ID]WidgetRect
}

// Response collects the interaction flags of a single widget.
type Response struct {
	ID              ID
	Clicked         bool
	DragStarted     bool
	Dragged         bool
	DragEnded       bool
	Hovered         bool
	ContainsPointer bool
}

// Active reports whether the widget is being clicked or dragged.
func (r Response) Active() bool {
	return r.Clicked || r.Dragged
}

func is(w *WidgetRect, id ID) bool {
	return w != nil && id != NoID && w.ID == id
}

// IsClicked reports whether the widget got clicked this frame.
func (s *Snapshot) IsClicked(id ID) bool { return s != nil && is(s.Clicked, id) }

// IsDragStarted reports whether a drag of the widget started this frame.
func (s *Snapshot) IsDragStarted(id ID) bool { return s != nil && is(s.DragStarted, id) }

// IsDragged reports whether the widget is being dragged.
func (s *Snapshot) IsDragged(id ID) bool { return s != nil && is(s.Dragged, id) }

// IsDragEnded reports whether a drag of the widget ended this frame.
func (s *Snapshot) IsDragEnded(id ID) bool { return s != nil && is(s.DragEnded, id) }

// IsHovered reports whether the widget is hovered.
func (s *Snapshot) IsHovered(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.Hovered[id]
	return ok
}

// ContainsPointerOf reports whether the pointer is over the widget,
// even if something else is hovered or the widget is covered.
func (s *Snapshot) ContainsPointerOf(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.ContainsPointer[id]
	return ok
}

// Response returns every interaction flag of the widget.
func (s *Snapshot) Response(id ID) Response {
	return Response{
		ID:              id,
		Clicked:         s.IsClicked(id),
		DragStarted:     s.IsDragStarted(id),
		Dragged:         s.IsDragged(id),
		DragEnded:       s.IsDragEnded(id),
		Hovered:         s.IsHovered(id),
		ContainsPointer: s.ContainsPointerOf(id),
	}
}

// Rows returns the snapshot as label / widget ids pairs, in a fixed order.
func (s *Snapshot) Rows() [][2]string {
	if s == nil {
		s = &Snapshot{}
	}
	return [][2]string{
		{"clicked", shortIDs(optional(s.Clicked))},
		{"drag_started", shortIDs(optional(s.DragStarted))},
		{"dragged", shortIDs(optional(s.Dragged))},
		{"drag_ended", shortIDs(optional(s.DragEnded))},
		{"hovered", shortIDs(values(s.Hovered))},
		{"contains_pointer", shortIDs(values(s.ContainsPointer))},
	}
}

// WriteTable prints the snapshot as a two column table.
// The labels are coloured when colored is set.
func (s *Snapshot) WriteTable(w io.Writer, colored bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range s.Rows() {
		label := row[0]
		if colored {
			label = utils.DecorateText(label, utils.StatusMessage)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", label, row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func optional(w *WidgetRect) []WidgetRect {
	if w == nil {
		return nil
	}
	return []WidgetRect{*w}
}

func values(m map[ID]WidgetRect) []WidgetRect {
	ws := maps.Values(m)
	slices.SortFunc(ws, func(a, b WidgetRect) bool { return a.ID < b.ID })
	return ws
}

func shortIDs(ws []WidgetRect) string {
	if len(ws) == 0 {
		return "-"
	}
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID.Short()
	}
	return strings.Join(ids, " ")
}
