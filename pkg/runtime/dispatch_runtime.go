package runtime

import (
	"context"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
)

// DispatchRuntime runs a plain store with no effects.
type DispatchRuntime[S any, A dispatch.Action] struct {
	store dispatch.DispatchStore[S, A]
	loop  *loop[S, A]
}

// NewDispatchRuntime creates a runtime around store.
func NewDispatchRuntime[S any, A dispatch.Action](store dispatch.DispatchStore[S, A], opts ...Option) *DispatchRuntime[S, A] {
	r := &DispatchRuntime[S, A]{store: store}
	r.loop = newLoop[S, A](opts, store.State)
	r.loop.dispatch = store.Dispatch
	return r
}

// Enqueue queues an action for the loop. It reports false once the runtime
// has stopped.
func (r *DispatchRuntime[S, A]) Enqueue(action A) bool {
	return r.loop.queue.Send(action)
}

// Sender returns a handle producers can keep.
func (r *DispatchRuntime[S, A]) Sender() dispatch.Sender[A] {
	return r.loop.queue
}

// State returns the store state. Only read it from the loop goroutine or
// after Run returns.
func (r *DispatchRuntime[S, A]) State() *S {
	return r.store.State()
}

// SetOverlay installs an overlay. Call before Run.
func (r *DispatchRuntime[S, A]) SetOverlay(o Overlay[S, A]) {
	r.loop.overlay = o
}

// Run drives the loop on b until quit matches an action (returns nil), ctx
// ends (returns ctx.Err()) or the terminal fails. A runtime runs once.
func (r *DispatchRuntime[S, A]) Run(ctx context.Context, b backend.Backend, render RenderFunc[S], mapEvent EventMapper[S, A], quit QuitFunc[A]) error {
	return r.loop.run(ctx, b, render, mapEvent, quit)
}
