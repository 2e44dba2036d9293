package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/imview/internal/input/key"
	"github.com/dshills/imview/internal/renderer/core"
)

// titler is implemented by tcell screens that can set the window title.
type titler interface {
	SetTitle(string)
}

// focuser is implemented by tcell screens that report focus changes.
type focuser interface {
	EnableFocus()
}

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents)
	if f, ok := t.screen.(focuser); ok {
		f.EnableFocus()
	}
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.screen.(titler); ok {
		s.SetTitle(title)
	}
}

// PollEvent blocks until the next event the viewer handles. Other tcell
// events are skipped; EventNone means the screen was shut down.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		if e := convertEvent(ev); e.Type != EventNone {
			return e
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(event)) // best-effort; event queue may be full
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	return style
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e)}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Key:         key.Event{Modifiers: convertMod(e.Modifiers())},
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	case *tcell.EventInterrupt:
		if posted, ok := e.Data().(Event); ok {
			return posted
		}
	}
	return Event{Type: EventNone}
}

// convertKey converts a tcell key event to a key.Event. Control letters
// arrive from tcell as their own key codes and become a rune plus Ctrl.
func convertKey(e *tcell.EventKey) key.Event {
	mods := convertMod(e.Modifiers())
	var ev key.Event

	switch k := e.Key(); k {
	case tcell.KeyRune:
		ev = key.NewRuneEvent(e.Rune(), mods)
	case tcell.KeyEscape:
		ev = key.NewSpecialEvent(key.KeyEscape, mods)
	case tcell.KeyEnter:
		ev = key.NewSpecialEvent(key.KeyEnter, mods)
	case tcell.KeyTab:
		ev = key.NewSpecialEvent(key.KeyTab, mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ev = key.NewSpecialEvent(key.KeyBackspace, mods.Without(key.ModCtrl))
	case tcell.KeyDelete:
		ev = key.NewSpecialEvent(key.KeyDelete, mods)
	case tcell.KeyInsert:
		ev = key.NewSpecialEvent(key.KeyInsert, mods)
	case tcell.KeyHome:
		ev = key.NewSpecialEvent(key.KeyHome, mods)
	case tcell.KeyEnd:
		ev = key.NewSpecialEvent(key.KeyEnd, mods)
	case tcell.KeyPgUp:
		ev = key.NewSpecialEvent(key.KeyPageUp, mods)
	case tcell.KeyPgDn:
		ev = key.NewSpecialEvent(key.KeyPageDown, mods)
	case tcell.KeyUp:
		ev = key.NewSpecialEvent(key.KeyUp, mods)
	case tcell.KeyDown:
		ev = key.NewSpecialEvent(key.KeyDown, mods)
	case tcell.KeyLeft:
		ev = key.NewSpecialEvent(key.KeyLeft, mods)
	case tcell.KeyRight:
		ev = key.NewSpecialEvent(key.KeyRight, mods)
	default:
		switch {
		case k >= tcell.KeyF1 && k <= tcell.KeyF12:
			ev = key.NewSpecialEvent(key.KeyF1+key.Key(k-tcell.KeyF1), mods)
		case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
			ev = key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl))
		case k == tcell.KeyCtrlSpace:
			ev = key.NewRuneEvent(' ', mods.With(key.ModCtrl))
		default:
			ev = key.Event{Key: key.KeyNone}
		}
	}
	ev.Timestamp = e.When()
	return ev
}

// convertMod converts tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseRight
	case b&tcell.Button3 != 0:
		return MouseMiddle
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}
