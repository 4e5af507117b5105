/*
Package interact resolves, once per frame, how the pointer interacts with the
widgets of an immediate mode user interface.

Widgets have no identity beyond a stable ID and the rectangle they occupy in the
current frame. Every frame the UI reports its widgets, the pointer events received
since the previous frame are replayed, and the outcome is summarized in a Snapshot:
which widget got clicked, which one is being dragged (and whether the drag started
or ended this frame), what is hovered and what is under the pointer.

The package provides a command line interface which replays recorded scenarios
and renders debug overlays of every frame. To check the supported commands type:

	$ interact --help

Driving the resolution from a custom render loop looks like this:

	ctx := interact.NewContext(interact.DefaultConfig())
	widgets := interact.NewWidgetRects()

	for frame := range frames {
		widgets.Clear()
		widgets.Insert(interact.WidgetRect{
			ID:      interact.IDFrom("ok-button"),
			Rect:    interact.R(10, 10, 90, 40),
			Sense:   interact.SenseClick(),
			Enabled: true,
		})

		snap := ctx.Frame(frame.Time, widgets, frame.PointerEvents)
		if snap.IsClicked(interact.IDFrom("ok-button")) {
			// ...
		}
	}
*/
package interact
