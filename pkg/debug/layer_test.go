package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

type state struct {
	Count int
	Name  string
}

type action string

func (a action) Name() string { return string(a) }

var _ runtime.Overlay[state, action] = (*Layer[state, action])(nil)

func key(k terminal.Key, r rune) event.Kind {
	return event.Key{KeyEvent: terminal.KeyEvent{Key: k, Rune: r}}
}

func TestLayer_ToggleAndCapture(t *testing.T) {
	l := New[state, action]()
	s := &state{}
	assert.False(t, l.Enabled())

	render, consumed := l.HandleEvent(key(terminal.KeyRune, 'j'), s, nil)
	assert.False(t, render)
	assert.False(t, consumed, "closed layer passes input through")

	render, consumed = l.HandleEvent(key(terminal.KeyF12, 0), s, nil)
	assert.True(t, render)
	assert.True(t, consumed)
	assert.True(t, l.Enabled())

	_, consumed = l.HandleEvent(key(terminal.KeyRune, 'j'), s, nil)
	assert.True(t, consumed, "open layer owns keys")
	_, consumed = l.HandleEvent(event.Scroll{Delta: 1}, s, nil)
	assert.True(t, consumed)
	_, consumed = l.HandleEvent(event.Resize{Width: 10, Height: 5}, s, nil)
	assert.False(t, consumed, "resize reaches the app")
	_, consumed = l.HandleEvent(event.Key{KeyEvent: terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'c', Ctrl: true}}, s, nil)
	assert.False(t, consumed, "quit chords reach the app")

	render, consumed = l.HandleEvent(key(terminal.KeyEscape, 0), s, nil)
	assert.True(t, render)
	assert.True(t, consumed)
	assert.False(t, l.Enabled())
}

func TestLayer_ActionHistory(t *testing.T) {
	l := New[state, action](WithHistory(2), WithActive(true))
	l.LogAction("CountIncrement")
	l.LogAction("DidLoad")
	l.LogAction("Quit")

	assert.Equal(t, []string{"DidLoad [async_result]", "Quit"}, l.Actions())

	render, consumed := l.HandleEvent(key(terminal.KeyRune, 'c'), &state{}, nil)
	assert.True(t, render)
	assert.True(t, consumed)
	assert.Empty(t, l.Actions())
}

type grid struct {
	w, h  int
	cells map[[2]int]rune
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) SetContent(x, y int, r rune, _ []rune, _ backend.Style) {
	g.cells[[2]int{x, y}] = r
}

func (g *grid) text() string {
	var b []rune
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if r, ok := g.cells[[2]int{x, y}]; ok {
				b = append(b, r)
			} else {
				b = append(b, ' ')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

func TestLayer_Render(t *testing.T) {
	g := &grid{w: 60, h: 12, cells: map[[2]int]rune{}}
	area := event.Rect{Width: 60, Height: 12}
	drawn := false
	draw := func(backend.RenderTarget, event.Rect) { drawn = true }

	l := New[state, action]()
	l.Render(g, area, &state{Count: 3, Name: "kyiv"}, draw)
	assert.True(t, drawn)
	assert.Empty(t, g.cells, "closed layer draws nothing")

	l = New[state, action](WithActive(true))
	l.LogAction("SearchClear")
	l.Render(g, area, &state{Count: 3, Name: "kyiv"}, draw)

	out := g.text()
	assert.Contains(t, out, "SearchClear [search]")
	assert.Contains(t, out, "Count:3")
	assert.Contains(t, out, "Name:kyiv")
	assert.Contains(t, out, "debug · 1 actions")

	l.HandleEvent(key(terminal.KeyRune, 'c'), &state{}, nil)
	g.cells = map[[2]int]rune{}
	l.Render(g, area, &state{}, draw)
	out = g.text()
	assert.Contains(t, out, "debug · 0 actions", "clearing resets the count")
	assert.NotContains(t, out, "SearchClear")
}

func TestLayer_CustomInspector(t *testing.T) {
	l := New[state, action](WithToggleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'd', Ctrl: true}))
	l.SetInspector(func(s *state) []string { return []string{"count is", "three"} })

	_, consumed := l.HandleEvent(event.Key{KeyEvent: terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'd', Ctrl: true}}, &state{}, nil)
	require.True(t, consumed)
	require.True(t, l.Enabled())

	g := &grid{w: 40, h: 10, cells: map[[2]int]rune{}}
	l.Render(g, event.Rect{Width: 40, Height: 10}, &state{}, func(backend.RenderTarget, event.Rect) {})
	assert.Contains(t, g.text(), "count is")
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"A:1", "B:{X:1 Y:2}", "C:hello world"}, splitFields("A:1 B:{X:1 Y:2} C:hello world"))
	assert.Empty(t, splitFields(""))
}
