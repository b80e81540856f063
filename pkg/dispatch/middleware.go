package dispatch

// Middleware observes dispatches. Before runs ahead of the reducer and
// After runs once it returns. Middleware never mutates state.
type Middleware[A Action] interface {
	Before(action A)
	After(action A, changed bool)
}

// NoopMiddleware does nothing.
type NoopMiddleware[A Action] struct{}

func (NoopMiddleware[A]) Before(A)      {}
func (NoopMiddleware[A]) After(A, bool) {}

// MiddlewareFuncs adapts plain functions to Middleware. Nil fields are skipped.
type MiddlewareFuncs[A Action] struct {
	BeforeFunc func(action A)
	AfterFunc  func(action A, changed bool)
}

func (m MiddlewareFuncs[A]) Before(action A) {
	if m.BeforeFunc != nil {
		m.BeforeFunc(action)
	}
}

func (m MiddlewareFuncs[A]) After(action A, changed bool) {
	if m.AfterFunc != nil {
		m.AfterFunc(action, changed)
	}
}

// ComposedMiddleware runs several middleware as one. Before hooks run in
// registration order and After hooks in reverse, so the chain nests.
type ComposedMiddleware[A Action] struct {
	chain []Middleware[A]
}

// Compose builds a ComposedMiddleware.
func Compose[A Action](middleware ...Middleware[A]) *ComposedMiddleware[A] {
	c := &ComposedMiddleware[A]{}
	for _, m := range middleware {
		c.Add(m)
	}
	return c
}

// Add appends a middleware to the chain.
func (c *ComposedMiddleware[A]) Add(m Middleware[A]) {
	if m == nil {
		return
	}
	c.chain = append(c.chain, m)
}

// Len returns the number of middleware in the chain.
func (c *ComposedMiddleware[A]) Len() int {
	return len(c.chain)
}

func (c *ComposedMiddleware[A]) Before(action A) {
	for _, m := range c.chain {
		m.Before(action)
	}
}

func (c *ComposedMiddleware[A]) After(action A, changed bool) {
	for i := len(c.chain) - 1; i >= 0; i-- {
		c.chain[i].After(action, changed)
	}
}

func compose[A Action](middleware []Middleware[A]) Middleware[A] {
	var live []Middleware[A]
	for _, m := range middleware {
		if m != nil {
			live = append(live, m)
		}
	}
	switch len(live) {
	case 0:
		return NoopMiddleware[A]{}
	case 1:
		return live[0]
	default:
		return Compose(live...)
	}
}
