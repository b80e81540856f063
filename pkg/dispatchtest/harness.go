// Package dispatchtest provides helpers for testing reducers, effect
// handlers and event mappers without a terminal.
package dispatchtest

import (
	"fmt"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

// Harness owns a state value and collects the actions emitted while
// exercising it.
type Harness[S any, A dispatch.Action] struct {
	State S

	queue *dispatch.Queue[A]
}

// NewHarness returns a harness owning state.
func NewHarness[S any, A dispatch.Action](state S) *Harness[S, A] {
	return &Harness[S, A]{State: state, queue: dispatch.NewQueue[A]()}
}

// Sender returns a sender feeding the harness, suitable for task and
// subscription managers.
func (h *Harness[S, A]) Sender() dispatch.Sender[A] {
	return h.queue
}

// Emit records action as if a component had sent it.
func (h *Harness[S, A]) Emit(action A) {
	h.queue.Send(action)
}

// Drain returns every action emitted so far in order and forgets them.
func (h *Harness[S, A]) Drain() []A {
	var out []A
	for {
		a, ok := h.queue.TryRecv()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}

// HasEmitted drains and reports whether anything had been emitted.
func (h *Harness[S, A]) HasEmitted() bool {
	return len(h.Drain()) > 0
}

// DrainCategory returns the emitted actions in category and keeps the rest
// queued in their original order.
func (h *Harness[S, A]) DrainCategory(category string) []A {
	var matching []A
	for _, a := range h.Drain() {
		if dispatch.Category(a) == category {
			matching = append(matching, a)
			continue
		}
		h.queue.Send(a)
	}
	return matching
}

// HasCategory drains category and reports whether it had any actions.
func (h *Harness[S, A]) HasCategory(category string) bool {
	return len(h.DrainCategory(category)) > 0
}

// Key parses a binding string such as "ctrl+c" or "enter". It panics on
// strings that do not name a key.
func Key(s string) terminal.KeyEvent {
	ev, ok := terminal.ParseKey(s)
	if !ok {
		panic(fmt.Sprintf("dispatchtest: invalid key string %q", s))
	}
	return ev
}

// Char is an unmodified character key.
func Char(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

// Ctrl is ctrl+r.
func Ctrl(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r, Ctrl: true}
}

// Alt is alt+r.
func Alt(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r, Alt: true}
}

// KeyKind wraps Key(s) as a normalized event kind.
func KeyKind(s string) event.Kind {
	return event.Key{KeyEvent: Key(s)}
}

// KeyEvent builds a routed key event with no target, as an event mapper
// would receive it.
func KeyEvent[C comparable](s string) event.Event[C] {
	return Into[C](event.Key{KeyEvent: Key(s)})
}

// Into builds a routed event for kind with no target.
func Into[C comparable](kind event.Kind) event.Event[C] {
	return event.Event[C]{
		Kind:   kind,
		Type:   event.TypeOf(kind),
		Global: event.IsGlobal(kind),
	}
}
