// Package sim provides an in-memory backend for tests, built on tcell's
// simulation screen.
package sim

import (
	"strings"
	"sync"
	"unicode/utf8"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/backend/tcell"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

// Backend is a testable backend. Input is injected with the Inject methods
// and output inspected with Capture and friends.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen

	mu    sync.Mutex
	shows int
}

// New creates a simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)
	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
	}
}

// Init initializes the screen and reapplies the requested size, which the
// simulation screen resets during Init.
func (s *Backend) Init() error {
	w, h := s.screen.Size()
	if err := s.Backend.Init(); err != nil {
		return err
	}
	if w > 0 && h > 0 {
		s.screen.SetSize(w, h)
	}
	return nil
}

// Show flushes the frame and counts it.
func (s *Backend) Show() {
	s.mu.Lock()
	s.shows++
	s.mu.Unlock()
	s.Backend.Show()
}

// Shows returns how many frames have been shown.
func (s *Backend) Shows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shows
}

// Resize changes the screen size without posting an event.
func (s *Backend) Resize(width, height int) {
	s.screen.SetSize(width, height)
}

// InjectKey injects a key event.
func (s *Backend) InjectKey(ev terminal.KeyEvent) {
	_ = s.PostEvent(ev)
}

// InjectRune injects a plain character keypress.
func (s *Backend) InjectRune(r rune) {
	s.InjectKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
}

// InjectString injects str as a sequence of keypresses.
func (s *Backend) InjectString(str string) {
	for _, r := range str {
		s.InjectRune(r)
	}
}

// InjectCtrl injects ctrl+r.
func (s *Backend) InjectCtrl(r rune) {
	s.InjectKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r, Ctrl: true})
}

// InjectSpecial injects a non-character key such as KeyEnter.
func (s *Backend) InjectSpecial(k terminal.Key) {
	s.InjectKey(terminal.KeyEvent{Key: k})
}

// InjectClick injects a left press at (x, y).
func (s *Backend) InjectClick(x, y int) {
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
}

// InjectWheel injects a wheel step at (x, y); negative delta scrolls up.
func (s *Backend) InjectWheel(x, y, delta int) {
	button := terminal.MouseWheelDown
	if delta < 0 {
		button = terminal.MouseWheelUp
	}
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: button})
}

// InjectPaste injects a bracketed paste.
func (s *Backend) InjectPaste(text string) {
	_ = s.PostEvent(terminal.PasteEvent{Text: text})
}

// InjectResize resizes the screen and posts the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.screen.SetSize(width, height)
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the shown screen as newline-separated rows.
func (s *Backend) Capture() string {
	cells, w, h := s.screen.GetContents()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			cell := cells[y*w+x]
			if len(cell.Runes) == 0 || cell.Runes[0] == 0 {
				line.WriteRune(' ')
				continue
			}
			for _, r := range cell.Runes {
				line.WriteRune(r)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Row returns a single captured row with trailing spaces removed.
func (s *Backend) Row(y int) string {
	lines := strings.Split(s.Capture(), "\n")
	if y < 0 || y >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[y], " ")
}

// FindText returns the cell position of text on screen, or -1, -1.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if i := strings.Index(line, text); i >= 0 {
			return utf8.RuneCountInString(line[:i]), row
		}
	}
	return -1, -1
}

// ContainsText reports whether text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

var _ backend.Backend = (*Backend)(nil)
