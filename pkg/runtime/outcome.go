package runtime

import (
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
)

// EventOutcome is what an event mapper produced for one input event.
type EventOutcome[A any] struct {
	Actions     []A
	NeedsRender bool
}

// Ignored is the outcome of an event that does nothing.
func Ignored[A any]() EventOutcome[A] {
	return EventOutcome[A]{}
}

// NeedsRender requests a redraw without producing actions.
func NeedsRender[A any]() EventOutcome[A] {
	return EventOutcome[A]{NeedsRender: true}
}

// Emit enqueues actions.
func Emit[A any](actions ...A) EventOutcome[A] {
	return EventOutcome[A]{Actions: actions}
}

// WithRender returns o with a redraw requested.
func (o EventOutcome[A]) WithRender() EventOutcome[A] {
	o.NeedsRender = true
	return o
}

// RenderContext is passed to every draw.
type RenderContext struct {
	// OverlayActive is set while an overlay owns input.
	OverlayActive bool
}

// Focused reports whether the application, rather than an overlay, has
// input focus.
func (rc RenderContext) Focused() bool {
	return !rc.OverlayActive
}

// RenderFunc draws state into frame. It must not mutate state.
type RenderFunc[S any] func(frame backend.RenderTarget, area event.Rect, state *S, rc RenderContext)

// EventMapper turns input into actions. It must not mutate state.
type EventMapper[S, A any] func(kind event.Kind, state *S) EventOutcome[A]

// QuitFunc reports whether an action ends the loop. The matching action is
// never dispatched.
type QuitFunc[A any] func(action A) bool

// Overlay is an optional layer drawn over the application that can take
// input first, such as a debug inspector.
type Overlay[S, A any] interface {
	// Enabled reports whether the overlay currently owns input.
	Enabled() bool

	// HandleEvent sees input before the mapper. consumed stops the event
	// from reaching the mapper.
	HandleEvent(kind event.Kind, state *S, emit func(A)) (needsRender, consumed bool)

	// LogAction observes every action before it is dispatched.
	LogAction(action A)

	// Render wraps the application draw.
	Render(frame backend.RenderTarget, area event.Rect, state *S, draw func(backend.RenderTarget, event.Rect))
}
