package interact

import (
	"fmt"
	"hash/fnv"
	"image"

	"gioui.org/f32"
)

// ID is the stable identity of a widget. The same logical widget
// has to report the same ID on every frame it is laid out.
type ID uint64

// NoID is the zero ID, it never refers to a widget.
const NoID ID = 0

// IDFrom derives a widget ID from a path of values, e.g. IDFrom("toolbar", "save").
func IDFrom(parts ...any) ID {
	h := fnv.New64a()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	id := ID(h.Sum64())
	if id == NoID {
		id = 1
	}
	return id
}

// Short returns a compact representation of the ID used in debug output.
func (id ID) Short() string {
	if id == NoID {
		return "-"
	}
	return fmt.Sprintf("%04X", uint16(id>>48^id>>32^id>>16^id))
}

func (id ID) String() string {
	return fmt.Sprintf("%016X", uint64(id))
}

// Sense declares which kind of pointer interactions a widget is interested in.
type Sense struct {
	Click bool
	Drag  bool
}

// SenseHover senses neither clicks nor drags, the widget can only be hovered.
func SenseHover() Sense { return Sense{} }

// SenseClick senses clicks only.
func SenseClick() Sense { return Sense{Click: true} }

// SenseDrag senses drags only.
func SenseDrag() Sense { return Sense{Drag: true} }

// SenseClickAndDrag senses both clicks and drags.
func SenseClickAndDrag() Sense { return Sense{Click: true, Drag: true} }

// Interactive reports whether the widget reacts to clicks or drags.
func (s Sense) Interactive() bool {
	return s.Click || s.Drag
}

func (s Sense) String() string {
	switch {
	case s.Click && s.Drag:
		return "click+drag"
	case s.Click:
		return "click"
	case s.Drag:
		return "drag"
	default:
		return "hover"
	}
}

// Rect is an axis aligned rectangle in window coordinates.
// Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max f32.Point
}

// R is shorthand for Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}.
// The coordinates are swapped if necessary so that the rectangle is well-formed.
func R(x0, y0, x1, y1 float32) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{Min: f32.Pt(x0, y0), Max: f32.Pt(x1, y1)}
}

// Dx returns the rectangle width.
func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }

// Dy returns the rectangle height.
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p f32.Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float32) Rect {
	return Rect{
		Min: r.Min.Sub(f32.Pt(d, d)),
		Max: r.Max.Add(f32.Pt(d, d)),
	}
}

// Translate moves the rectangle by p.
func (r Rect) Translate(p f32.Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Image converts the rectangle to integer coordinates, rounding outwards.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		floor(r.Min.X), floor(r.Min.Y),
		ceil(r.Max.X), ceil(r.Max.Y),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

func floor(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

func ceil(v float32) int {
	i := int(v)
	if float32(i) < v {
		i++
	}
	return i
}

// WidgetRect is the per-frame geometry of a single widget.
type WidgetRect struct {
	ID ID
	// Layer orders widgets painted on top of each other;
	// higher layers are above lower ones.
	Layer   int
	Rect    Rect
	Sense   Sense
	Enabled bool
}

// WidgetRects is the geometry table of a frame, rebuilt on every frame.
type WidgetRects struct {
	byID  map[ID]int
	order []WidgetRect
}

// NewWidgetRects creates an empty geometry table.
func NewWidgetRects() *WidgetRects {
	return &WidgetRects{
		byID: make(map[ID]int),
	}
}

// Insert adds a widget to the table. Inserting an already known ID replaces
// its geometry but keeps the paint order of the first insertion.
func (wr *WidgetRects) Insert(w WidgetRect) {
	if wr.byID == nil {
		wr.byID = make(map[ID]int)
	}
	if i, ok := wr.byID[w.ID]; ok {
		wr.order[i] = w
		return
	}
	wr.byID[w.ID] = len(wr.order)
	wr.order = append(wr.order, w)
}

// Get looks up a widget by ID in the current frame.
func (wr *WidgetRects) Get(id ID) (WidgetRect, bool) {
	if wr == nil || id == NoID {
		return WidgetRect{}, false
	}
	i, ok := wr.byID[id]
	if !ok {
		return WidgetRect{}, false
	}
	return wr.order[i], true
}

// Contains reports whether the widget is part of the current frame.
func (wr *WidgetRects) Contains(id ID) bool {
	_, ok := wr.Get(id)
	return ok
}

// Order returns the widgets in insertion (back-to-front) order.
// The returned slice must not be modified.
func (wr *WidgetRects) Order() []WidgetRect {
	if wr == nil {
		return nil
	}
	return wr.order
}

// Len returns the number of widgets in the table.
func (wr *WidgetRects) Len() int {
	if wr == nil {
		return 0
	}
	return len(wr.order)
}

// Clear empties the table while keeping the allocated memory,
// so it can be filled again on the next frame.
func (wr *WidgetRects) Clear() {
	for id := range wr.byID {
		delete(wr.byID, id)
	}
	wr.order = wr.order[:0]
}
