package dispatch

// DispatchResult is returned by effect-aware reducers. Effects are plain
// data describing work to do; they are never executed by the reducer.
type DispatchResult[E any] struct {
	Changed bool
	Effects []E
}

// Unchanged reports no state change and no effects.
func Unchanged[E any]() DispatchResult[E] {
	return DispatchResult[E]{}
}

// Changed reports a state change with no effects.
func Changed[E any]() DispatchResult[E] {
	return DispatchResult[E]{Changed: true}
}

// Effect reports a single effect without a state change.
func Effect[E any](e E) DispatchResult[E] {
	return DispatchResult[E]{Effects: []E{e}}
}

// Effects reports effects without a state change.
func Effects[E any](es ...E) DispatchResult[E] {
	return DispatchResult[E]{Effects: es}
}

// ChangedWith reports a state change with one effect.
func ChangedWith[E any](e E) DispatchResult[E] {
	return DispatchResult[E]{Changed: true, Effects: []E{e}}
}

// ChangedWithMany reports a state change with several effects.
func ChangedWithMany[E any](es ...E) DispatchResult[E] {
	return DispatchResult[E]{Changed: true, Effects: es}
}

// With appends an effect.
func (r DispatchResult[E]) With(e E) DispatchResult[E] {
	effects := make([]E, len(r.Effects), len(r.Effects)+1)
	copy(effects, r.Effects)
	r.Effects = append(effects, e)
	return r
}

// MarkChanged sets the changed flag.
func (r DispatchResult[E]) MarkChanged() DispatchResult[E] {
	r.Changed = true
	return r
}

// HasEffects reports whether any effects need processing.
func (r DispatchResult[E]) HasEffects() bool {
	return len(r.Effects) > 0
}
