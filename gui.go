package interact

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"golang.org/x/exp/slices"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	windowWidth  = 900
	windowHeight = 560
	panelWidth   = 260
)

// demoWidget is a widget of the playground window.
type demoWidget struct {
	label   string
	id      ID
	rect    Rect
	layer   int
	sense   Sense
	enabled bool
	clicks  int
}

// Gui is the playground window: it lays out a few widgets with different
// senses, routes the window's pointer events through a Context and paints
// every widget according to the resulting snapshot.
type Gui struct {
	cfg struct {
		window struct {
			w     float32
			h     float32
			title string
		}
		color struct {
			background color.NRGBA
			panel      color.NRGBA
		}
	}
	ctx     *Context
	widgets []*demoWidget
	table   *WidgetRects
	theme   *material.Theme
	lastPos f32.Point
	status  string
}

// NewGUI initializes the playground window state.
func NewGUI(cfg Config) *Gui {
	gui := &Gui{
		ctx:   NewContext(cfg),
		table: NewWidgetRects(),
		theme: material.NewTheme(gofont.Collection()),
	}
	gui.cfg.window.w, gui.cfg.window.h = windowWidth, windowHeight
	gui.cfg.window.title = "Pointer interaction playground"
	gui.cfg.color.background = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	gui.cfg.color.panel = color.NRGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}

	add := func(label string, r Rect, layer int, sense Sense, enabled bool) {
		gui.widgets = append(gui.widgets, &demoWidget{
			label:   label,
			id:      IDFrom("playground", label),
			rect:    r,
			layer:   layer,
			sense:   sense,
			enabled: enabled,
		})
	}
	add("panel", R(20, 20, 600, 520), 0, SenseHover(), true)
	add("button", R(50, 50, 200, 100), 0, SenseClick(), true)
	add("disabled", R(230, 50, 380, 100), 0, SenseClick(), false)
	add("card", R(50, 150, 210, 260), 1, SenseDrag(), true)
	add("handle", R(260, 150, 420, 260), 1, SenseClickAndDrag(), true)
	add("label", R(50, 320, 380, 360), 0, SenseHover(), true)

	return gui
}

// Run opens the window and processes its events until it gets closed.
// It has to be called from a goroutine other than the one running app.Main.
func (g *Gui) Run() error {
	w := app.NewWindow(
		app.Title(g.cfg.window.title),
		app.Size(unit.Dp(g.cfg.window.w), unit.Dp(g.cfg.window.h)),
	)

	var ops op.Ops
	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			g.frame(gtx)
			e.Frame(gtx.Ops)
		case key.Event:
			switch e.Name {
			case key.NameEscape:
				w.Perform(system.ActionClose)
			}
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}

// frame runs the interaction of a frame and draws the result.
func (g *Gui) frame(gtx C) {
	var raw []pointer.Event
	for _, ev := range gtx.Events(g) {
		if e, ok := ev.(pointer.Event); ok {
			raw = append(raw, e)
		}
	}

	g.table.Clear()
	for _, dw := range g.widgets {
		g.table.Insert(WidgetRect{
			ID:      dw.id,
			Layer:   dw.layer,
			Rect:    dw.rect,
			Sense:   dw.sense,
			Enabled: dw.enabled,
		})
	}

	snap := g.ctx.Frame(0, g.table, raw)
	g.update(snap)

	paint.Fill(gtx.Ops, g.cfg.color.background)

	// Receive every pointer event of the window, the hit testing is ours.
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Enter | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)
	area.Pop()

	for _, dw := range g.sorted() {
		g.drawWidget(gtx, dw, snap.Response(dw.id))
	}
	g.drawInspector(gtx, snap)
}

// update applies the snapshot to the playground widgets: counts clicks and
// moves the dragged widget along with the pointer.
func (g *Gui) update(snap *Snapshot) {
	pos, _ := g.ctx.Pointer().Pos()
	defer func() { g.lastPos = pos }()

	for _, dw := range g.widgets {
		r := snap.Response(dw.id)
		switch {
		case r.Clicked:
			dw.clicks++
			g.status = fmt.Sprintf("%s clicked %d times", dw.label, dw.clicks)
		case r.DragStarted:
			g.status = fmt.Sprintf("dragging %s", dw.label)
		case r.DragEnded:
			g.status = fmt.Sprintf("dropped %s at %v", dw.label, dw.rect.Min)
		}
		// The drag start frame has no motion yet.
		if r.Dragged && !r.DragStarted {
			dw.rect = dw.rect.Translate(pos.Sub(g.lastPos))
		}
	}
}

func (g *Gui) sorted() []*demoWidget {
	ws := slices.Clone(g.widgets)
	slices.SortStableFunc(ws, func(a, b *demoWidget) bool {
		return a.layer < b.layer
	})
	return ws
}

func (g *Gui) drawWidget(gtx C, dw *demoWidget, r Response) {
	c := IdleColor
	switch {
	case !dw.enabled:
		c = DisabledColor
	case r.DragStarted:
		c = DragStartedColor
	case r.Dragged:
		c = DraggedColor
	case r.Clicked:
		c = ClickedColor
	case r.Hovered:
		c = HoveredColor
		c.A = 0xff
	case r.ContainsPointer:
		c = ContainsPointerColor
		c.A = 0xff
	}

	rect := dw.rect.Image()
	paint.FillShape(gtx.Ops, c, clip.Rect(rect).Op())

	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(rect.Size())
	layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx C) D {
		txt := fmt.Sprintf("%s (%s)", dw.label, dw.sense)
		if dw.clicks > 0 {
			txt += fmt.Sprintf(" x%d", dw.clicks)
		}
		return material.Body1(g.theme, txt).Layout(gtx)
	})
}

// drawInspector shows the snapshot table in the right panel.
func (g *Gui) drawInspector(gtx C, snap *Snapshot) {
	x := gtx.Constraints.Max.X - panelWidth
	panel := image.Rect(x, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, g.cfg.color.panel, clip.Rect(panel).Op())

	rows := snap.Rows()
	state := g.ctx.State()
	lines := make([]string, 0, len(rows)+3)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %s", row[0], row[1]))
	}
	lines = append(lines,
		fmt.Sprintf("click_id: %s", state.ClickID.Short()),
		fmt.Sprintf("drag_id: %s", state.DragID.Short()),
		g.status,
	)

	defer op.Offset(panel.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(panel.Size())

	children := make([]layout.FlexChild, len(lines))
	for i, line := range lines {
		line := line
		children[i] = layout.Rigid(func(gtx C) D {
			l := material.Body1(g.theme, line)
			l.Color = color.NRGBA{R: 0xec, G: 0xef, B: 0xf1, A: 0xff}
			return l.Layout(gtx)
		})
	}
	layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}
