package interact

// InteractionState is the part of the interaction that outlives a frame:
// the widgets the current press is aimed at. Only the ids are kept, they are
// looked up again in every new frame's geometry table.
type InteractionState struct {
	// ClickID is the widget that may get clicked when the pointer is released.
	ClickID ID
	// DragID is the widget the current press may drag. It can be absent from
	// the geometry table while a drag-and-drop payload is in flight.
	DragID ID
}

// Clicking reports whether a press is tracking a click target.
func (s *InteractionState) Clicking() bool { return s.ClickID != NoID }

// Dragging reports whether a press is tracking a drag target.
func (s *InteractionState) Dragging() bool { return s.DragID != NoID }

// Reset forgets both targets.
func (s *InteractionState) Reset() {
	s.ClickID, s.DragID = NoID, NoID
}
