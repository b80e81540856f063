// Package backend defines the terminal the runtime draws to and reads input
// from. The tcell subpackage drives real terminals; sim wraps tcell's
// simulation screen for tests.
package backend

import "github.com/odvcencio/dispatch/pkg/ui/terminal"

// EventSource is the input half of a terminal.
type EventSource interface {
	// PollEvent blocks until an event is available. It returns nil once the
	// backend is finalized.
	PollEvent() terminal.Event

	// HasPendingEvent reports whether PollEvent would return without
	// blocking.
	HasPendingEvent() bool
}

// Backend is the terminal abstraction used by the runtime.
type Backend interface {
	EventSource
	RenderTarget

	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal.
	Fini()

	// Show flushes drawn cells to the terminal.
	Show()

	// Clear blanks the back buffer.
	Clear()

	HideCursor()
	SetCursorPos(x, y int)

	// PostEvent injects an event into the input queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on the next Show.
	Sync()
}

// RenderTarget is the drawing surface handed to render functions.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}

// SubTarget clips drawing to a region of a parent target, with coordinates
// relative to the region.
type SubTarget struct {
	parent        RenderTarget
	x, y          int
	width, height int
}

// NewSubTarget creates a sub-region of a RenderTarget.
func NewSubTarget(parent RenderTarget, x, y, w, h int) *SubTarget {
	return &SubTarget{parent: parent, x: x, y: y, width: w, height: h}
}

// Size returns the region dimensions.
func (s *SubTarget) Size() (width, height int) {
	return s.width, s.height
}

// SetContent draws a cell; cells outside the region are dropped.
func (s *SubTarget) SetContent(x, y int, mainc rune, comb []rune, style Style) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.parent.SetContent(s.x+x, s.y+y, mainc, comb, style)
}
