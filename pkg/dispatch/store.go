package dispatch

import "sync"

// Reducer applies an action to state and reports whether state changed.
type Reducer[S any, A Action] func(state *S, action A) bool

// EffectReducer applies an action to state and returns the change flag
// together with any effects to run.
type EffectReducer[S any, A Action, E any] func(state *S, action A) DispatchResult[E]

// DispatchStore is anything that dispatches actions to a bool reducer.
type DispatchStore[S any, A Action] interface {
	Dispatch(action A) bool
	State() *S
}

// EffectDispatcher is anything that dispatches actions to an effect reducer.
type EffectDispatcher[S any, A Action, E any] interface {
	Dispatch(action A) DispatchResult[E]
	State() *S
}

// Store owns application state and applies a reducer under Dispatch.
type Store[S any, A Action] struct {
	mu         sync.Mutex
	state      S
	reducer    Reducer[S, A]
	middleware Middleware[A]
}

// NewStore creates a store. Middleware, if given, runs around every dispatch.
func NewStore[S any, A Action](state S, reducer Reducer[S, A], middleware ...Middleware[A]) *Store[S, A] {
	return &Store[S, A]{
		state:      state,
		reducer:    reducer,
		middleware: compose(middleware),
	}
}

// Dispatch runs the reducer with exclusive access to state.
func (s *Store[S, A]) Dispatch(action A) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.middleware.Before(action)
	changed := s.reducer(&s.state, action)
	s.middleware.After(action, changed)
	return changed
}

// State returns the current state. Callers must treat it as read-only;
// writing through it is reserved for initialization before the runtime starts.
func (s *Store[S, A]) State() *S {
	return &s.state
}

// Middleware returns the store's middleware chain.
func (s *Store[S, A]) Middleware() Middleware[A] {
	return s.middleware
}

// EffectStore owns application state and applies an effect reducer.
type EffectStore[S any, A Action, E any] struct {
	mu         sync.Mutex
	state      S
	reducer    EffectReducer[S, A, E]
	middleware Middleware[A]
}

// NewEffectStore creates an effect store. Middleware sees actions and the
// changed flag, never the effects.
func NewEffectStore[S any, A Action, E any](state S, reducer EffectReducer[S, A, E], middleware ...Middleware[A]) *EffectStore[S, A, E] {
	return &EffectStore[S, A, E]{
		state:      state,
		reducer:    reducer,
		middleware: compose(middleware),
	}
}

// Dispatch runs the reducer with exclusive access to state.
func (s *EffectStore[S, A, E]) Dispatch(action A) DispatchResult[E] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.middleware.Before(action)
	result := s.reducer(&s.state, action)
	s.middleware.After(action, result.Changed)
	return result
}

// State returns the current state. See Store.State.
func (s *EffectStore[S, A, E]) State() *S {
	return &s.state
}

// Middleware returns the store's middleware chain.
func (s *EffectStore[S, A, E]) Middleware() Middleware[A] {
	return s.middleware
}

var (
	_ DispatchStore[struct{}, nameAction]              = (*Store[struct{}, nameAction])(nil)
	_ EffectDispatcher[struct{}, nameAction, struct{}] = (*EffectStore[struct{}, nameAction, struct{}])(nil)
)

type nameAction string

func (a nameAction) Name() string { return string(a) }
