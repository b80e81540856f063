package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Count int
	Log   []string
}

type counterAction int

const (
	actIncrement counterAction = iota
	actDecrement
	actNoOp
	actTrigger
)

func (a counterAction) Name() string {
	switch a {
	case actIncrement:
		return "Increment"
	case actDecrement:
		return "Decrement"
	case actTrigger:
		return "TriggerEffect"
	default:
		return "NoOp"
	}
}

type testEffect struct {
	Kind string
	Arg  string
}

func counterReducer(s *counterState, a counterAction) bool {
	switch a {
	case actIncrement:
		s.Count++
		return true
	case actDecrement:
		s.Count--
		return true
	default:
		return false
	}
}

func effectReducer(s *counterState, a counterAction) DispatchResult[testEffect] {
	switch a {
	case actIncrement:
		s.Count++
		return Changed[testEffect]()
	case actDecrement:
		s.Count--
		return ChangedWith(testEffect{Kind: "log", Arg: fmt.Sprintf("count: %d", s.Count)})
	case actTrigger:
		return Effects(testEffect{Kind: "log", Arg: "triggered"}, testEffect{Kind: "save"})
	default:
		return Unchanged[testEffect]()
	}
}

func TestStore_Dispatch(t *testing.T) {
	store := NewStore(counterState{}, counterReducer)

	assert.True(t, store.Dispatch(actIncrement))
	assert.Equal(t, 1, store.State().Count)
	assert.True(t, store.Dispatch(actIncrement))
	assert.True(t, store.Dispatch(actDecrement))
	assert.Equal(t, 1, store.State().Count)
}

func TestStore_NoOpLeavesStateUnchanged(t *testing.T) {
	store := NewStore(counterState{}, counterReducer)

	assert.False(t, store.Dispatch(actNoOp))
	assert.Equal(t, 0, store.State().Count)
}

func TestStore_StateWriteForInitialization(t *testing.T) {
	store := NewStore(counterState{}, counterReducer)
	store.State().Count = 100

	store.Dispatch(actIncrement)
	assert.Equal(t, 101, store.State().Count)
}

func TestEffectStore_IncrementAndNoOp(t *testing.T) {
	store := NewEffectStore(counterState{Count: 0}, effectReducer)

	result := store.Dispatch(actIncrement)
	assert.True(t, result.Changed)
	assert.False(t, result.HasEffects())
	assert.Equal(t, 1, store.State().Count)

	result = store.Dispatch(actNoOp)
	assert.False(t, result.Changed)
	assert.Equal(t, 1, store.State().Count)
}

func TestEffectStore_Effects(t *testing.T) {
	store := NewEffectStore(counterState{}, effectReducer)

	result := store.Dispatch(actDecrement)
	require.True(t, result.Changed)
	require.Len(t, result.Effects, 1)
	assert.Equal(t, testEffect{Kind: "log", Arg: "count: -1"}, result.Effects[0])

	result = store.Dispatch(actTrigger)
	assert.False(t, result.Changed)
	assert.Len(t, result.Effects, 2)
}

func TestEffectStore_ReplayIsDeterministic(t *testing.T) {
	actions := []counterAction{actIncrement, actDecrement, actTrigger, actNoOp, actDecrement}
	for _, a := range actions {
		t.Run(a.Name(), func(t *testing.T) {
			base := counterState{Count: 7}

			first := base
			second := base
			r1 := effectReducer(&first, a)
			r2 := effectReducer(&second, a)

			assert.Equal(t, first, second)
			assert.Equal(t, r1, r2)
		})
	}
}

type countingMiddleware struct {
	before  int
	after   int
	changed []bool
}

func (m *countingMiddleware) Before(counterAction) { m.before++ }
func (m *countingMiddleware) After(_ counterAction, changed bool) {
	m.after++
	m.changed = append(m.changed, changed)
}

func TestStore_Middleware(t *testing.T) {
	mw := &countingMiddleware{}
	store := NewStore(counterState{}, counterReducer, mw)

	store.Dispatch(actIncrement)
	store.Dispatch(actNoOp)

	assert.Equal(t, 2, mw.before)
	assert.Equal(t, 2, mw.after)
	assert.Equal(t, []bool{true, false}, mw.changed)
	assert.Equal(t, 1, store.State().Count)
}

func TestEffectStore_MiddlewareSeesChangedFlag(t *testing.T) {
	mw := &countingMiddleware{}
	store := NewEffectStore(counterState{}, effectReducer, mw)

	store.Dispatch(actTrigger)
	store.Dispatch(actDecrement)

	assert.Equal(t, []bool{false, true}, mw.changed)
}

func TestComposedMiddleware_Nesting(t *testing.T) {
	var calls []string
	record := func(name string) Middleware[counterAction] {
		return MiddlewareFuncs[counterAction]{
			BeforeFunc: func(counterAction) { calls = append(calls, name+".before") },
			AfterFunc:  func(counterAction, bool) { calls = append(calls, name+".after") },
		}
	}

	store := NewStore(counterState{}, counterReducer, record("outer"), nil, record("inner"))
	store.Dispatch(actIncrement)

	assert.Equal(t, []string{"outer.before", "inner.before", "inner.after", "outer.after"}, calls)
	composed, ok := store.Middleware().(*ComposedMiddleware[counterAction])
	require.True(t, ok)
	assert.Equal(t, 2, composed.Len())
}

func TestStore_NoMiddlewareIsNoop(t *testing.T) {
	store := NewStore(counterState{}, counterReducer)
	_, ok := store.Middleware().(NoopMiddleware[counterAction])
	assert.True(t, ok)
}
