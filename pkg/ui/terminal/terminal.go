// Package terminal provides the raw terminal event values produced by a
// backend, before the runtime normalizes them.
package terminal

import "strings"

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press. Control chords on letters are reported
// as KeyRune with Ctrl set and a lower-case Rune.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) eventMarker() {}

// IsCtrl reports whether the event is ctrl+r.
func (k KeyEvent) IsCtrl(r rune) bool {
	return k.Key == KeyRune && k.Ctrl && k.Rune == r
}

// String renders the key the way key bindings are written, e.g. "ctrl+c",
// "alt+x", "enter" or "q".
func (k KeyEvent) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("ctrl+")
	}
	if k.Alt {
		b.WriteString("alt+")
	}
	if k.Shift && k.Key != KeyRune {
		b.WriteString("shift+")
	}
	if k.Key == KeyRune {
		b.WriteRune(k.Rune)
	} else {
		b.WriteString(k.Key.String())
	}
	return b.String()
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// MouseEvent represents a mouse input event.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseEvent) eventMarker() {}

// PasteEvent represents bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k == KeyRune {
		return "rune"
	}
	return "unknown"
}

// LookupKey returns the special key with the given binding name.
func LookupKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name && k != KeyNone {
			return k, true
		}
	}
	switch name {
	case "escape":
		return KeyEscape, true
	case "return":
		return KeyEnter, true
	case "pageup":
		return KeyPageUp, true
	case "pagedown":
		return KeyPageDown, true
	case "del":
		return KeyDelete, true
	}
	return KeyNone, false
}

// ParseKey parses a binding string such as "q", "ctrl+p", "alt+enter" or
// "shift+tab". Modifier prefixes may appear in any order.
func ParseKey(s string) (KeyEvent, bool) {
	var ev KeyEvent
	rest := strings.TrimSpace(s)
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "ctrl+") && len(rest) > len("ctrl+"):
			ev.Ctrl = true
			rest = rest[len("ctrl+"):]
			continue
		case strings.HasPrefix(lower, "alt+") && len(rest) > len("alt+"):
			ev.Alt = true
			rest = rest[len("alt+"):]
			continue
		case strings.HasPrefix(lower, "shift+") && len(rest) > len("shift+"):
			ev.Shift = true
			rest = rest[len("shift+"):]
			continue
		}
		break
	}
	if rest == "" {
		return KeyEvent{}, false
	}

	if runes := []rune(rest); len(runes) == 1 {
		ev.Key = KeyRune
		ev.Rune = runes[0]
		if ev.Ctrl {
			ev.Rune = []rune(strings.ToLower(rest))[0]
		}
		return ev, true
	}

	name := strings.ToLower(rest)
	if name == "space" {
		ev.Key, ev.Rune = KeyRune, ' '
		return ev, true
	}
	key, ok := LookupKey(name)
	if !ok {
		return KeyEvent{}, false
	}
	if key == KeyTab && ev.Shift {
		key = KeyBacktab
	}
	ev.Key = key
	return ev, true
}
