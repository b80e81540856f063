package event

import "slices"

// Event is a normalized event together with the routing context at the time
// it was received.
type Event[C comparable] struct {
	Kind   Kind
	Type   EventType
	Global bool

	// Target is the component under the pointer for mouse and scroll
	// events, and the focused component otherwise.
	Target    C
	HasTarget bool

	Modifiers Modifiers
}

// Bus keeps per-type subscriber lists and the routing context. It is owned
// by the runtime loop and is not safe for concurrent use.
type Bus[C comparable] struct {
	subs map[EventType][]C
	ctx  *Context[C]
}

// NewBus creates a bus with an empty context.
func NewBus[C comparable]() *Bus[C] {
	return &Bus[C]{
		subs: make(map[EventType][]C),
		ctx:  NewContext[C](),
	}
}

// Context returns the routing context.
func (b *Bus[C]) Context() *Context[C] {
	return b.ctx
}

// Subscribe registers id for events of type t. Duplicate subscriptions are
// ignored.
func (b *Bus[C]) Subscribe(id C, t EventType) {
	if slices.Contains(b.subs[t], id) {
		return
	}
	b.subs[t] = append(b.subs[t], id)
}

// SubscribeMany registers id for each of types.
func (b *Bus[C]) SubscribeMany(id C, types ...EventType) {
	for _, t := range types {
		b.Subscribe(id, t)
	}
}

// Unsubscribe removes id from type t.
func (b *Bus[C]) Unsubscribe(id C, t EventType) {
	list := b.subs[t]
	if i := slices.Index(list, id); i >= 0 {
		b.subs[t] = slices.Delete(list, i, i+1)
	}
}

// UnsubscribeAll removes id from every type.
func (b *Bus[C]) UnsubscribeAll(id C) {
	for t := range b.subs {
		b.Unsubscribe(id, t)
	}
}

// Subscribers returns the subscribers of t in subscription order.
func (b *Bus[C]) Subscribers(t EventType) []C {
	return slices.Clone(b.subs[t])
}

// UpdatePointer records the pointer position.
func (b *Bus[C]) UpdatePointer(x, y int) {
	b.ctx.pointerX, b.ctx.pointerY, b.ctx.hasPointer = x, y, true
}

// UpdateModifiers records the held modifiers.
func (b *Bus[C]) UpdateModifiers(m Modifiers) {
	b.ctx.modifiers = m
}

// Route updates the context from k and returns the routed event.
func (b *Bus[C]) Route(k Kind) Event[C] {
	ev := Event[C]{Kind: k, Type: TypeOf(k), Global: IsGlobal(k)}

	pointer := false
	switch e := k.(type) {
	case Key:
		b.UpdateModifiers(Modifiers{Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift})
	case Mouse:
		b.UpdatePointer(e.X, e.Y)
		b.UpdateModifiers(Modifiers{Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift})
		pointer = true
	case Scroll:
		b.UpdatePointer(e.X, e.Y)
		b.UpdateModifiers(e.Modifiers)
		pointer = true
	}
	ev.Modifiers = b.ctx.modifiers

	if pointer {
		ev.Target, ev.HasTarget = b.ctx.ComponentAt(b.ctx.pointerX, b.ctx.pointerY)
	} else {
		ev.Target, ev.HasTarget = b.ctx.Focused()
	}
	return ev
}

// SubscribersFor returns the components that should receive ev: the
// subscribers of its type, followed by global subscribers when ev is global.
func (b *Bus[C]) SubscribersFor(ev Event[C]) []C {
	out := b.Subscribers(ev.Type)
	if ev.Global {
		for _, id := range b.subs[TypeGlobal] {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	return out
}
