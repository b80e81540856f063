// Package tcell implements backend.Backend on top of tcell.
package tcell

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

// Backend implements backend.Backend using a tcell screen.
type Backend struct {
	screen tcell.Screen

	// mu guards the input state machine below.
	mu          sync.Mutex
	inPaste     bool
	pasteBuffer strings.Builder
	lastButtons tcell.ButtonMask
}

// New creates a backend for the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Screen exposes the underlying tcell screen.
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse()
	b.screen.EnablePaste()
	return nil
}

func (b *Backend) Fini() {
	b.screen.Fini()
}

func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

func (b *Backend) Show() {
	b.screen.Show()
}

func (b *Backend) Clear() {
	b.screen.Clear()
}

func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

func (b *Backend) SetCursorPos(x, y int) {
	b.screen.ShowCursor(x, y)
}

func (b *Backend) Sync() {
	b.screen.Sync()
}

// HasPendingEvent reports whether PollEvent would return immediately.
func (b *Backend) HasPendingEvent() bool {
	return b.screen.HasPendingEvent()
}

// PollEvent blocks until an event is available. Bracketed paste input is
// collected into a single PasteEvent.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		b.mu.Lock()
		out, ok := b.handle(ev)
		b.mu.Unlock()
		if ok {
			return out
		}
	}
}

// handle runs the paste state machine and converts ev. It reports false
// when ev was absorbed.
func (b *Backend) handle(ev tcell.Event) (terminal.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			b.inPaste = true
			b.pasteBuffer.Reset()
			return nil, false
		}
		b.inPaste = false
		text := b.pasteBuffer.String()
		b.pasteBuffer.Reset()
		if text == "" {
			return nil, false
		}
		return terminal.PasteEvent{Text: text}, true

	case *tcell.EventKey:
		if b.inPaste {
			switch e.Key() {
			case tcell.KeyRune:
				b.pasteBuffer.WriteRune(e.Rune())
			case tcell.KeyEnter:
				b.pasteBuffer.WriteRune('\n')
			case tcell.KeyTab:
				b.pasteBuffer.WriteRune('\t')
			}
			return nil, false
		}
		return convertKeyEvent(e), true

	case *tcell.EventInterrupt:
		if posted, ok := e.Data().(terminal.Event); ok {
			return posted, true
		}
		return nil, false

	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}, true

	case *tcell.EventMouse:
		buttons := e.Buttons()
		action := mouseAction(b.lastButtons, buttons)
		button := convertMouseButton(buttons)
		if action == terminal.MouseRelease {
			button = convertMouseButton(b.lastButtons)
		}
		if buttons&(tcell.WheelUp|tcell.WheelDown) == 0 {
			b.lastButtons = buttons
		}
		x, y := e.Position()
		mods := e.Modifiers()
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: button,
			Action: action,
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}, true
	}
	return nil, false
}

// PostEvent injects ev into the screen's event queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	for _, tev := range reverseConvertEvent(ev) {
		if err := b.screen.PostEvent(tev); err != nil {
			return err
		}
	}
	return nil
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Bold(attrs&backend.AttrBold != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Reverse(attrs&backend.AttrReverse != 0)
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

var keyTable = []struct {
	tc tcell.Key
	k  terminal.Key
}{
	{tcell.KeyUp, terminal.KeyUp},
	{tcell.KeyDown, terminal.KeyDown},
	{tcell.KeyRight, terminal.KeyRight},
	{tcell.KeyLeft, terminal.KeyLeft},
	{tcell.KeyPgUp, terminal.KeyPageUp},
	{tcell.KeyPgDn, terminal.KeyPageDown},
	{tcell.KeyHome, terminal.KeyHome},
	{tcell.KeyEnd, terminal.KeyEnd},
	{tcell.KeyInsert, terminal.KeyInsert},
	{tcell.KeyDelete, terminal.KeyDelete},
	{tcell.KeyBackspace2, terminal.KeyBackspace},
	{tcell.KeyBackspace, terminal.KeyBackspace},
	{tcell.KeyTab, terminal.KeyTab},
	{tcell.KeyBacktab, terminal.KeyBacktab},
	{tcell.KeyEnter, terminal.KeyEnter},
	{tcell.KeyEscape, terminal.KeyEscape},
	{tcell.KeyF1, terminal.KeyF1},
	{tcell.KeyF2, terminal.KeyF2},
	{tcell.KeyF3, terminal.KeyF3},
	{tcell.KeyF4, terminal.KeyF4},
	{tcell.KeyF5, terminal.KeyF5},
	{tcell.KeyF6, terminal.KeyF6},
	{tcell.KeyF7, terminal.KeyF7},
	{tcell.KeyF8, terminal.KeyF8},
	{tcell.KeyF9, terminal.KeyF9},
	{tcell.KeyF10, terminal.KeyF10},
	{tcell.KeyF11, terminal.KeyF11},
	{tcell.KeyF12, terminal.KeyF12},
}

func convertKeyEvent(e *tcell.EventKey) terminal.KeyEvent {
	mods := e.Modifiers()
	out := terminal.KeyEvent{
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}

	k := e.Key()
	if k == tcell.KeyRune {
		out.Key = terminal.KeyRune
		out.Rune = e.Rune()
		return out
	}
	for _, entry := range keyTable {
		if entry.tc == k {
			out.Key = entry.k
			return out
		}
	}
	// Remaining control codes are ctrl+letter chords.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out.Key = terminal.KeyRune
		out.Rune = 'a' + rune(k-tcell.KeyCtrlA)
		out.Ctrl = true
		return out
	}
	out.Key = terminal.KeyNone
	return out
}

func reverseKey(k terminal.Key) (tcell.Key, bool) {
	for _, entry := range keyTable {
		if entry.k == k {
			return entry.tc, true
		}
	}
	return 0, false
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseRight
	case buttons&tcell.Button3 != 0:
		return terminal.MouseMiddle
	default:
		return terminal.MouseNone
	}
}

// mouseAction derives press/release/move from consecutive button masks.
func mouseAction(prev, cur tcell.ButtonMask) terminal.MouseAction {
	if cur&(tcell.WheelUp|tcell.WheelDown) != 0 {
		return terminal.MousePress
	}
	switch {
	case cur == tcell.ButtonNone && prev != tcell.ButtonNone:
		return terminal.MouseRelease
	case cur == tcell.ButtonNone, cur == prev:
		return terminal.MouseMove
	default:
		return terminal.MousePress
	}
}

func reverseModifiers(alt, ctrl, shift bool) tcell.ModMask {
	var mods tcell.ModMask
	if alt {
		mods |= tcell.ModAlt
	}
	if ctrl {
		mods |= tcell.ModCtrl
	}
	if shift {
		mods |= tcell.ModShift
	}
	return mods
}

// reverseConvertEvent converts ev into the tcell events that PollEvent
// turns back into ev.
func reverseConvertEvent(ev terminal.Event) []tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return []tcell.Event{tcell.NewEventResize(e.Width, e.Height)}

	case terminal.KeyEvent:
		mods := reverseModifiers(e.Alt, e.Ctrl, e.Shift)
		if e.Key == terminal.KeyRune {
			if e.Ctrl && e.Rune >= 'a' && e.Rune <= 'z' {
				return []tcell.Event{tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(e.Rune-'a'), rune(tcell.KeyCtrlA)+e.Rune-'a', mods)}
			}
			return []tcell.Event{tcell.NewEventKey(tcell.KeyRune, e.Rune, mods)}
		}
		if k, ok := reverseKey(e.Key); ok {
			return []tcell.Event{tcell.NewEventKey(k, 0, mods)}
		}
		return nil

	case terminal.MouseEvent:
		var buttons tcell.ButtonMask
		if e.Action != terminal.MouseRelease {
			switch e.Button {
			case terminal.MouseLeft:
				buttons = tcell.Button1
			case terminal.MouseRight:
				buttons = tcell.Button2
			case terminal.MouseMiddle:
				buttons = tcell.Button3
			case terminal.MouseWheelUp:
				buttons = tcell.WheelUp
			case terminal.MouseWheelDown:
				buttons = tcell.WheelDown
			}
		}
		return []tcell.Event{tcell.NewEventMouse(e.X, e.Y, buttons, reverseModifiers(e.Alt, e.Ctrl, e.Shift))}

	case terminal.PasteEvent:
		// A paste would take one queued event per rune, so it travels whole.
		return []tcell.Event{tcell.NewEventInterrupt(e)}
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
