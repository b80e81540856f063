package runtime

import (
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
)

// Component is a piece of UI driven entirely by props. Applications hold
// components by value in their view and pass props derived from state on
// every call, so a component never reads the store itself.
type Component[P, A any] interface {
	// HandleEvent returns the actions an event produces under props. An
	// event the component does not care about yields nil.
	HandleEvent(kind event.Kind, props P) []A

	// Render draws the component into area.
	Render(frame backend.RenderTarget, area event.Rect, props P)
}
