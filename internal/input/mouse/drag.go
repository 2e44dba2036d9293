package mouse

// dragTracker tracks mouse drag state.
type dragTracker struct {
	// active indicates the button is held.
	active bool

	// startPos is where the drag started.
	startPos Position

	// lastPos is the position of the previous report.
	lastPos Position
}

// start begins a new drag operation.
func (t *dragTracker) start(pos Position) {
	t.active = true
	t.startPos = pos
	t.lastPos = pos
}

// update records pos and returns the movement since the last report.
func (t *dragTracker) update(pos Position) Position {
	if !t.active {
		return Position{}
	}
	d := Position{X: pos.X - t.lastPos.X, Y: pos.Y - t.lastPos.Y}
	t.lastPos = pos
	return d
}

// end ends the current drag operation.
func (t *dragTracker) end() {
	*t = dragTracker{}
}

// isActive returns true if a drag is in progress.
func (t *dragTracker) isActive() bool {
	return t.active
}

// total returns the distance dragged from start.
func (t *dragTracker) total() Position {
	return Position{
		X: t.lastPos.X - t.startPos.X,
		Y: t.lastPos.Y - t.startPos.Y,
	}
}
