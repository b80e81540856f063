package runtime

import (
	"context"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/subscriptions"
	"github.com/odvcencio/dispatch/pkg/tasks"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
)

// EffectHandler interprets one effect returned by the reducer.
type EffectHandler[A, E any] func(effect E, ctx *EffectContext[A])

// EffectContext is what effect handlers may touch: the action queue and the
// task and subscription registries.
type EffectContext[A any] struct {
	sender dispatch.Sender[A]
	tasks  *tasks.Manager[A]
	subs   *subscriptions.Manager[A]
}

// NewEffectContext builds a context over existing managers.
func NewEffectContext[A any](sender dispatch.Sender[A], t *tasks.Manager[A], s *subscriptions.Manager[A]) *EffectContext[A] {
	return &EffectContext[A]{sender: sender, tasks: t, subs: s}
}

// Emit enqueues an action directly.
func (c *EffectContext[A]) Emit(action A) bool {
	return c.sender.Send(action)
}

// Sender returns the action queue handle.
func (c *EffectContext[A]) Sender() dispatch.Sender[A] {
	return c.sender
}

// Tasks returns the task registry.
func (c *EffectContext[A]) Tasks() *tasks.Manager[A] {
	return c.tasks
}

// Subscriptions returns the subscription registry.
func (c *EffectContext[A]) Subscriptions() *subscriptions.Manager[A] {
	return c.subs
}

// EffectRuntime runs an effect store, routing returned effects to a handler.
type EffectRuntime[S any, A dispatch.Action, E any] struct {
	store   dispatch.EffectDispatcher[S, A, E]
	loop    *loop[S, A]
	ectx    *EffectContext[A]
	handler EffectHandler[A, E]
}

// NewEffectRuntime creates a runtime around store.
func NewEffectRuntime[S any, A dispatch.Action, E any](store dispatch.EffectDispatcher[S, A, E], opts ...Option) *EffectRuntime[S, A, E] {
	r := &EffectRuntime[S, A, E]{store: store}
	r.loop = newLoop[S, A](opts, store.State)

	logger := r.loop.logger
	t := tasks.NewManager[A](r.loop.queue, tasks.WithLogger(logger))
	s := subscriptions.NewManager[A](r.loop.queue, subscriptions.WithLogger(logger))
	r.ectx = NewEffectContext[A](r.loop.queue, t, s)

	r.loop.dispatch = r.dispatch
	r.loop.teardown = func() {
		t.Close()
		s.Close()
	}
	return r
}

func (r *EffectRuntime[S, A, E]) dispatch(action A) bool {
	result := r.store.Dispatch(action)
	if r.handler != nil {
		for _, effect := range result.Effects {
			r.handler(effect, r.ectx)
		}
	}
	return result.Changed
}

// Enqueue queues an action for the loop.
func (r *EffectRuntime[S, A, E]) Enqueue(action A) bool {
	return r.loop.queue.Send(action)
}

// Sender returns a handle producers can keep.
func (r *EffectRuntime[S, A, E]) Sender() dispatch.Sender[A] {
	return r.loop.queue
}

// State returns the store state.
func (r *EffectRuntime[S, A, E]) State() *S {
	return r.store.State()
}

// Tasks returns the task registry, for setup before Run.
func (r *EffectRuntime[S, A, E]) Tasks() *tasks.Manager[A] {
	return r.ectx.tasks
}

// Subscriptions returns the subscription registry, for setup before Run.
func (r *EffectRuntime[S, A, E]) Subscriptions() *subscriptions.Manager[A] {
	return r.ectx.subs
}

// SetOverlay installs an overlay. Call before Run.
func (r *EffectRuntime[S, A, E]) SetOverlay(o Overlay[S, A]) {
	r.loop.overlay = o
}

// Run drives the loop like DispatchRuntime.Run, additionally handing every
// effect to handle. Tasks and subscriptions are cancelled when Run returns.
func (r *EffectRuntime[S, A, E]) Run(ctx context.Context, b backend.Backend, render RenderFunc[S], mapEvent EventMapper[S, A], handle EffectHandler[A, E], quit QuitFunc[A]) error {
	r.handler = handle
	return r.loop.run(ctx, b, render, mapEvent, quit)
}
