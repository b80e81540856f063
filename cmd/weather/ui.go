package main

import (
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
	"github.com/odvcencio/dispatch/pkg/ui/theme"
)

const (
	componentDisplay = "display"
	componentSearch  = "search"
	componentApp     = "app"

	modalWidth = 44
	// Rows above the first result inside the search modal: border and query.
	modalHeader = 3
)

// view draws the weather screen and routes input through a bus whose modal
// stack mirrors State.SearchMode.
type view struct {
	bus    *event.Bus[string]
	th     *theme.Theme
	search searchBox
}

func newView() *view {
	return newViewWith(theme.Default())
}

func newViewWith(th *theme.Theme) *view {
	bus := event.NewBus[string]()
	bus.Subscribe(componentApp, event.TypeGlobal)
	bus.Subscribe(componentDisplay, event.TypeKey)
	bus.SubscribeMany(componentSearch, event.TypeKey, event.TypeMouse, event.TypeScroll, event.TypePaste)
	return &view{bus: bus, th: th, search: searchBox{th: th}}
}

// searchProps derives the search box props from state and the area the box
// was last drawn at.
func (v *view) searchProps(s *State) searchProps {
	area, _ := v.bus.Context().Area(componentSearch)
	return searchProps{
		Open:     s.SearchMode,
		Area:     area,
		Query:    s.SearchQuery,
		Results:  s.SearchResults,
		Selected: s.SearchSelected,
		Loading:  s.SearchLoading,
		Error:    s.SearchError,
		Ticks:    s.Ticks,
	}
}

func (v *view) syncModal(s *State) {
	ctx := v.bus.Context()
	_, open := ctx.ActiveModal()
	switch {
	case s.SearchMode && !open:
		ctx.PushModal(componentSearch)
	case !s.SearchMode && open:
		ctx.PopModal()
	}
	if _, ok := ctx.Focused(); !ok {
		ctx.SetFocus(componentDisplay)
	}
}

func (v *view) render(frame backend.RenderTarget, area event.Rect, s *State, rc runtime.RenderContext) {
	v.syncModal(s)

	th := v.th
	border := th.BorderFor(rc.Focused() && !s.SearchMode)
	boxW := min(area.Width, 48)
	boxH := min(area.Height-1, 8)
	x := area.X + max((area.Width-boxW)/2, 0)
	y := area.Y + max((area.Height-1-boxH)/2, 0)
	backend.DrawBox(frame, x, y, boxW, boxH, " "+s.Location.Name+" ", border)
	v.bus.Context().SetArea(componentDisplay, event.Rect{X: x, Y: y, Width: boxW, Height: boxH})

	inner := backend.NewSubTarget(frame, x+1, y+1, max(boxW-2, 0), max(boxH-2, 0))
	switch {
	case s.Weather != nil:
		backend.DrawTextCentered(inner, 1, s.Unit.Format(s.Weather.Temperature), th.Emphasis)
		backend.DrawTextCentered(inner, 2, s.Weather.Description, th.Text)
	case s.Loading:
		backend.DrawTextCentered(inner, 1, string(theme.Spinner(s.Ticks))+" loading", th.Spinner)
	default:
		backend.DrawTextCentered(inner, 1, "no data", th.Muted)
	}
	if s.Weather != nil && s.Loading {
		backend.DrawText(inner, 0, 0, string(theme.Spinner(s.Ticks)), th.Spinner)
	}
	if s.Error != "" {
		backend.DrawTextCentered(inner, 4, s.Error, th.Error)
	} else if s.Source != "" {
		backend.DrawTextCentered(inner, 4, "via "+s.Source, th.Muted)
	}

	help := "r: refresh  u: units  /: search  q: quit  F12: debug"
	backend.DrawTextCentered(backend.NewSubTarget(frame, area.X, area.Y+area.Height-1, area.Width, 1), 0, help, th.Muted)

	if !s.SearchMode {
		v.bus.Context().RemoveArea(componentSearch)
		return
	}
	w := min(area.Width, modalWidth)
	h := min(area.Height, modalHeader+searchResults+2)
	box := event.Rect{
		X:      area.X + max((area.Width-w)/2, 0),
		Y:      area.Y + max((area.Height-h)/3, 0),
		Width:  w,
		Height: h,
	}
	v.bus.Context().SetArea(componentSearch, box)
	v.search.Render(frame, box, v.searchProps(s))
}

func (v *view) mapEvent(kind event.Kind, s *State) runtime.EventOutcome[Action] {
	v.syncModal(s)
	ev := v.bus.Route(kind)

	for _, id := range v.bus.SubscribersFor(ev) {
		var out runtime.EventOutcome[Action]
		switch id {
		case componentSearch:
			if actions := v.search.HandleEvent(ev.Kind, v.searchProps(s)); len(actions) > 0 {
				out = runtime.Emit(actions...)
			}
		case componentDisplay:
			if !s.SearchMode {
				if k, ok := ev.Kind.(event.Key); ok {
					out = mapKey(k.KeyEvent)
				}
			}
		case componentApp:
			out = mapGlobal(ev.Kind)
		}
		if len(out.Actions) > 0 || out.NeedsRender {
			return out
		}
	}
	return runtime.Ignored[Action]()
}

// mapGlobal handles what every screen shares: hard quit and resize.
func mapGlobal(kind event.Kind) runtime.EventOutcome[Action] {
	switch k := kind.(type) {
	case event.Key:
		if k.IsCtrl('c') || k.IsCtrl('q') {
			return runtime.Emit[Action](Quit{})
		}
	case event.Resize:
		return runtime.Emit[Action](UiTerminalResize{Width: k.Width, Height: k.Height})
	}
	return runtime.Ignored[Action]()
}

func mapKey(k terminal.KeyEvent) runtime.EventOutcome[Action] {
	if k.Key == terminal.KeyEscape {
		return runtime.Emit[Action](Quit{})
	}
	if k.Key != terminal.KeyRune || k.Ctrl || k.Alt {
		return runtime.Ignored[Action]()
	}
	switch k.Rune {
	case 'q':
		return runtime.Emit[Action](Quit{})
	case 'r':
		return runtime.Emit[Action](WeatherFetch{})
	case 'u':
		return runtime.Emit[Action](UiToggleUnits{})
	case '/', 's':
		return runtime.Emit[Action](SearchOpen{})
	}
	return runtime.Ignored[Action]()
}
