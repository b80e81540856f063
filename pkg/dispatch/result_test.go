package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchResult_Builders(t *testing.T) {
	r := Unchanged[testEffect]()
	assert.False(t, r.Changed)
	assert.Empty(t, r.Effects)

	r = Changed[testEffect]()
	assert.True(t, r.Changed)
	assert.Empty(t, r.Effects)

	save := testEffect{Kind: "save"}
	r = Effect(save)
	assert.False(t, r.Changed)
	assert.Equal(t, []testEffect{save}, r.Effects)

	r = ChangedWith(save)
	assert.True(t, r.Changed)
	assert.Equal(t, []testEffect{save}, r.Effects)

	r = ChangedWithMany(save, testEffect{Kind: "log", Arg: "x"})
	assert.True(t, r.Changed)
	assert.Len(t, r.Effects, 2)
}

func TestDispatchResult_Chaining(t *testing.T) {
	save := testEffect{Kind: "save"}
	r := Unchanged[testEffect]().With(save).MarkChanged()

	assert.True(t, r.Changed)
	assert.Equal(t, []testEffect{save}, r.Effects)
}

func TestDispatchResult_WithDoesNotAlias(t *testing.T) {
	base := Effects(testEffect{Kind: "a"}, testEffect{Kind: "b"})
	left := base.With(testEffect{Kind: "left"})
	right := base.With(testEffect{Kind: "right"})

	assert.Len(t, base.Effects, 2)
	assert.Equal(t, "left", left.Effects[2].Kind)
	assert.Equal(t, "right", right.Effects[2].Kind)
}

func TestDispatchResult_HasEffects(t *testing.T) {
	assert.False(t, Unchanged[testEffect]().HasEffects())
	assert.True(t, Effect(testEffect{Kind: "save"}).HasEffects())
}
