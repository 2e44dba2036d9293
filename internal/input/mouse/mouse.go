package mouse

import (
	"github.com/dshills/imview/internal/renderer/backend"
)

// Kind is the type of a gesture.
type Kind uint8

const (
	// None means the event produced no gesture.
	None Kind = iota
	// Wheel is one notch of the scroll wheel.
	Wheel
	// Drag is motion with the left button held.
	Drag
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Wheel:
		return "wheel"
	case Drag:
		return "drag"
	default:
		return "none"
	}
}

// Position is a point in window pixels.
type Position struct {
	X, Y int
}

// Gesture is what the viewer acts on.
type Gesture struct {
	Kind Kind

	// Pos is where the gesture happened.
	Pos Position

	// Notches is +1 for wheel up and -1 for wheel down.
	Notches int

	// DX and DY are the pixels moved since the previous drag report.
	DX, DY int
}

// RowPixels is the number of image pixels one terminal row holds.
const RowPixels = 2

// Tracker interprets a stream of mouse events. It is not safe for
// concurrent use.
type Tracker struct {
	drag dragTracker
}

// NewTracker creates a tracker with no drag in progress.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Handle interprets ev. Non-mouse events end any drag.
func (t *Tracker) Handle(ev backend.Event) Gesture {
	if ev.Type != backend.EventMouse {
		t.drag.end()
		return Gesture{}
	}
	pos := Position{X: ev.MouseX, Y: ev.MouseY * RowPixels}

	switch ev.MouseButton {
	case backend.MouseWheelUp:
		t.drag.end()
		return Gesture{Kind: Wheel, Pos: pos, Notches: 1}
	case backend.MouseWheelDown:
		t.drag.end()
		return Gesture{Kind: Wheel, Pos: pos, Notches: -1}
	case backend.MouseLeft:
		if !t.drag.isActive() {
			t.drag.start(pos)
			return Gesture{}
		}
		d := t.drag.update(pos)
		if d.X == 0 && d.Y == 0 {
			return Gesture{}
		}
		return Gesture{Kind: Drag, Pos: pos, DX: d.X, DY: d.Y}
	default:
		t.drag.end()
		return Gesture{}
	}
}

// Dragging reports whether the left button is held.
func (t *Tracker) Dragging() bool {
	return t.drag.isActive()
}

// Reset forgets any drag in progress.
func (t *Tracker) Reset() {
	t.drag.end()
}
