// Package event normalizes raw terminal input and routes it to interested
// components.
package event

import "github.com/odvcencio/dispatch/pkg/ui/terminal"

// Kind is a normalized input event. The set of kinds is closed.
type Kind interface {
	isKind()
}

// Key is a key press.
type Key struct {
	terminal.KeyEvent
}

// Mouse is a non-wheel mouse event.
type Mouse struct {
	terminal.MouseEvent
}

// Scroll is a wheel step at a cell. Delta is -1 for up and +1 for down.
type Scroll struct {
	X, Y  int
	Delta int
	Modifiers
}

// Resize reports the new terminal size.
type Resize struct {
	Width, Height int
}

// Tick is a timer pulse injected by applications that want one.
type Tick struct{}

// Paste carries bracketed paste text.
type Paste struct {
	Text string
}

func (Key) isKind()    {}
func (Mouse) isKind()  {}
func (Scroll) isKind() {}
func (Resize) isKind() {}
func (Tick) isKind()   {}
func (Paste) isKind()  {}

// Modifiers is the set of held modifier keys.
type Modifiers struct {
	Alt, Ctrl, Shift bool
}

// EventType is the routing category of an event.
type EventType int

const (
	TypeKey EventType = iota
	TypeMouse
	TypeScroll
	TypeResize
	TypeTick
	TypePaste
	// TypeGlobal subscribers receive every global event regardless of its
	// own type.
	TypeGlobal
)

func (t EventType) String() string {
	switch t {
	case TypeKey:
		return "key"
	case TypeMouse:
		return "mouse"
	case TypeScroll:
		return "scroll"
	case TypeResize:
		return "resize"
	case TypeTick:
		return "tick"
	case TypePaste:
		return "paste"
	case TypeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// TypeOf returns the routing type of k.
func TypeOf(k Kind) EventType {
	switch k.(type) {
	case Key:
		return TypeKey
	case Mouse:
		return TypeMouse
	case Scroll:
		return TypeScroll
	case Resize:
		return TypeResize
	case Paste:
		return TypePaste
	default:
		return TypeTick
	}
}

// IsGlobal reports whether k must reach global subscribers: Escape,
// ctrl+c, ctrl+q and resizes.
func IsGlobal(k Kind) bool {
	switch e := k.(type) {
	case Key:
		return e.Key == terminal.KeyEscape || e.IsCtrl('c') || e.IsCtrl('q')
	case Resize:
		return true
	default:
		return false
	}
}

// Normalize converts a raw terminal event. Wheel events become Scroll.
// It reports false for events with no normalized form.
func Normalize(raw terminal.Event) (Kind, bool) {
	switch e := raw.(type) {
	case terminal.KeyEvent:
		if e.Key == terminal.KeyNone {
			return nil, false
		}
		return Key{KeyEvent: e}, true
	case terminal.MouseEvent:
		mods := Modifiers{Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift}
		switch e.Button {
		case terminal.MouseWheelUp:
			return Scroll{X: e.X, Y: e.Y, Delta: -1, Modifiers: mods}, true
		case terminal.MouseWheelDown:
			return Scroll{X: e.X, Y: e.Y, Delta: 1, Modifiers: mods}, true
		}
		return Mouse{MouseEvent: e}, true
	case terminal.ResizeEvent:
		return Resize{Width: e.Width, Height: e.Height}, true
	case terminal.PasteEvent:
		return Paste{Text: e.Text}, true
	default:
		return nil, false
	}
}
