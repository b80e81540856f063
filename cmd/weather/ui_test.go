package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dispatch/pkg/dispatchtest"
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend/sim"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

func TestView_MainKeys(t *testing.T) {
	s := NewState(kyiv)
	tests := []struct {
		key  string
		want []Action
	}{
		{"r", []Action{WeatherFetch{}}},
		{"u", []Action{UiToggleUnits{}}},
		{"/", []Action{SearchOpen{}}},
		{"s", []Action{SearchOpen{}}},
		{"q", []Action{Quit{}}},
		{"esc", []Action{Quit{}}},
		{"ctrl+c", []Action{Quit{}}},
		{"ctrl+q", []Action{Quit{}}},
		{"ctrl+r", nil},
		{"x", nil},
	}
	v := newView()
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			out := v.mapEvent(dispatchtest.KeyKind(tt.key), &s)
			assert.Equal(t, tt.want, out.Actions)
		})
	}
}

func TestView_SearchKeys(t *testing.T) {
	s := NewState(kyiv)
	s.SearchMode = true
	s.SearchQuery = "kyï"
	v := newView()

	keys := func(k string) []Action { return v.mapEvent(dispatchtest.KeyKind(k), &s).Actions }

	assert.Equal(t, []Action{SearchQueryChange{Query: "kyïv"}}, keys("v"))
	assert.Equal(t, []Action{SearchQueryChange{Query: "ky"}}, keys("backspace"), "backspace removes a whole rune")
	assert.Equal(t, []Action{SearchQueryChange{Query: "kyïq"}}, keys("q"), "q types while searching")
	assert.Equal(t, []Action{SearchQueryChange{Query: ""}}, keys("ctrl+u"))
	assert.Equal(t, []Action{SearchClose{}}, keys("esc"))
	assert.Equal(t, []Action{Quit{}}, keys("ctrl+c"))
	assert.Equal(t, []Action{SearchQuerySubmit{}}, keys("enter"))
	assert.Equal(t, []Action{SearchSelectMove{Delta: 1}}, keys("down"))
	assert.Equal(t, []Action{SearchSelectMove{Delta: -1}}, keys("shift+tab"))

	s.SearchResults = []Location{london, paris}
	s.SearchSelected = 1
	assert.Equal(t, []Action{SearchSelect{Index: 1}}, keys("enter"))

	out := v.mapEvent(event.Paste{Text: "Lviv\n"}, &s)
	assert.Equal(t, []Action{SearchQueryChange{Query: "kyïLviv "}}, out.Actions)

	s.SearchQuery = ""
	assert.Empty(t, keys("backspace"))
}

func TestView_Resize(t *testing.T) {
	v := newView()
	s := NewState(kyiv)
	out := v.mapEvent(event.Resize{Width: 100, Height: 40}, &s)
	assert.Equal(t, []Action{UiTerminalResize{Width: 100, Height: 40}}, out.Actions)

	s.SearchMode = true
	out = v.mapEvent(event.Resize{Width: 90, Height: 30}, &s)
	assert.Equal(t, []Action{UiTerminalResize{Width: 90, Height: 30}}, out.Actions)
}

func renderTo(t *testing.T, v *view, s *State) *sim.Backend {
	t.Helper()
	b := sim.New(80, 24)
	require.NoError(t, b.Init())
	t.Cleanup(b.Fini)
	w, h := b.Size()
	v.render(b, event.Rect{Width: w, Height: h}, s, runtime.RenderContext{})
	b.Show()
	return b
}

func TestView_Render(t *testing.T) {
	s := NewState(kyiv)
	s.Weather = &WeatherData{Temperature: 21.5, Code: 2, Description: "Partly cloudy"}
	s.Source = "api"

	b := renderTo(t, newView(), &s)
	assert.True(t, b.ContainsText("Kyiv, Ukraine"))
	assert.True(t, b.ContainsText("21.5°C"))
	assert.True(t, b.ContainsText("Partly cloudy"))
	assert.True(t, b.ContainsText("via api"))
	assert.True(t, b.ContainsText("/: search"))

	s.Unit = Fahrenheit
	s.Error = "offline"
	b = renderTo(t, newView(), &s)
	assert.True(t, b.ContainsText("70.7°F"))
	assert.True(t, b.ContainsText("offline"))
	assert.False(t, b.ContainsText("via api"))
}

func TestView_RenderLoading(t *testing.T) {
	s := NewState(kyiv)
	s.Loading = true
	b := renderTo(t, newView(), &s)
	assert.True(t, b.ContainsText("loading"))
}

func TestView_SearchModalMouse(t *testing.T) {
	s := NewState(kyiv)
	s.SearchMode = true
	s.SearchQuery = "lon"
	s.SearchResults = []Location{london, {Name: "London, Canada"}}
	v := newView()

	b := renderTo(t, v, &s)
	assert.True(t, b.ContainsText("Search city"))
	assert.True(t, b.ContainsText("> lon_"))

	x, y := b.FindText("London, Canada")
	require.GreaterOrEqual(t, x, 0)
	click := func(x, y int) []Action {
		return v.mapEvent(event.Mouse{MouseEvent: terminal.MouseEvent{
			X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress,
		}}, &s).Actions
	}
	assert.Equal(t, []Action{SearchSelect{Index: 1}}, click(x, y))
	assert.Empty(t, click(x, y-3), "the query row is not a result")
	assert.Equal(t, []Action{SearchClose{}}, click(0, 0), "clicking outside closes the modal")

	out := v.mapEvent(event.Scroll{X: x, Y: y, Delta: 1}, &s)
	assert.Equal(t, []Action{SearchSelectMove{Delta: 1}}, out.Actions)
	out = v.mapEvent(event.Scroll{X: 0, Y: 0, Delta: 1}, &s)
	assert.Empty(t, out.Actions)
}

func TestView_ModalFollowsState(t *testing.T) {
	s := NewState(kyiv)
	v := newView()

	v.mapEvent(event.Tick{}, &s)
	assert.False(t, v.bus.Context().IsModalOpen())

	s.SearchMode = true
	v.mapEvent(event.Tick{}, &s)
	id, ok := v.bus.Context().ActiveModal()
	require.True(t, ok)
	assert.Equal(t, componentSearch, id)
	assert.True(t, v.bus.Context().IsFocused(componentSearch))

	s.SearchMode = false
	v.mapEvent(event.Tick{}, &s)
	assert.False(t, v.bus.Context().IsModalOpen())
	assert.True(t, v.bus.Context().IsFocused(componentDisplay))
}
