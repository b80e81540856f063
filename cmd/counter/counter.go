package main

import (
	"strconv"

	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
	"github.com/odvcencio/dispatch/pkg/ui/theme"
)

// State is the counter application state.
type State struct {
	Count int
}

// Action is a counter intent.
type Action int

const (
	CountIncrement Action = iota
	CountDecrement
	CountReset
	Quit
)

var actionNames = [...]string{
	CountIncrement: "CountIncrement",
	CountDecrement: "CountDecrement",
	CountReset:     "CountReset",
	Quit:           "Quit",
}

func (a Action) Name() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

func reduce(s *State, a Action) bool {
	switch a {
	case CountIncrement:
		s.Count++
		return true
	case CountDecrement:
		s.Count--
		return true
	case CountReset:
		if s.Count == 0 {
			return false
		}
		s.Count = 0
		return true
	}
	return false
}

func isQuit(a Action) bool { return a == Quit }

const (
	buttonInc = "inc"
	buttonDec = "dec"
)

type buttonProps struct {
	// Area is where the button was last drawn.
	Area    event.Rect
	Focused bool
}

// button emits its action when clicked, or on enter and space while focused.
type button struct {
	label  string
	action Action
	th     *theme.Theme
}

var _ runtime.Component[buttonProps, Action] = button{}

func (b button) HandleEvent(kind event.Kind, props buttonProps) []Action {
	switch k := kind.(type) {
	case event.Mouse:
		if k.Action == terminal.MousePress && k.Button == terminal.MouseLeft && props.Area.Contains(k.X, k.Y) {
			return []Action{b.action}
		}
	case event.Key:
		if !props.Focused || k.Ctrl || k.Alt {
			return nil
		}
		if k.Key == terminal.KeyEnter || k.Key == terminal.KeyRune && k.Rune == ' ' {
			return []Action{b.action}
		}
	}
	return nil
}

func (b button) Render(frame backend.RenderTarget, area event.Rect, props buttonProps) {
	style := b.th.Button
	if props.Focused {
		style = b.th.Selection
	}
	backend.DrawText(frame, area.X, area.Y, b.label, style)
}

// view draws the counter and remembers where its buttons landed so clicks
// can be routed to them.
type view struct {
	bus     *event.Bus[string]
	th      *theme.Theme
	buttons map[string]button
}

func newView() *view {
	return newViewWith(theme.Default())
}

func newViewWith(th *theme.Theme) *view {
	return &view{
		bus: event.NewBus[string](),
		th:  th,
		buttons: map[string]button{
			buttonDec: {label: "[-]", action: CountDecrement, th: th},
			buttonInc: {label: "[+]", action: CountIncrement, th: th},
		},
	}
}

func (v *view) props(id string) buttonProps {
	ctx := v.bus.Context()
	area, _ := ctx.Area(id)
	return buttonProps{Area: area, Focused: ctx.IsFocused(id)}
}

func (v *view) render(frame backend.RenderTarget, area event.Rect, s *State, rc runtime.RenderContext) {
	const boxW, boxH = 30, 5
	border := v.th.BorderFor(rc.Focused())

	x := area.X + max((area.Width-boxW)/2, 0)
	y := area.Y + max((area.Height-boxH)/2, 0)
	backend.DrawBox(frame, x, y, boxW, boxH, " Counter ", border)

	box := backend.NewSubTarget(frame, x+1, y+1, boxW-2, boxH-2)
	backend.DrawTextCentered(box, 1, strconv.Itoa(s.Count), v.th.Emphasis)

	ctx := v.bus.Context()
	ctx.SetArea(buttonDec, event.Rect{X: x + 2, Y: y + 2, Width: 3, Height: 1})
	ctx.SetArea(buttonInc, event.Rect{X: x + boxW - 5, Y: y + 2, Width: 3, Height: 1})
	for id, b := range v.buttons {
		p := v.props(id)
		b.Render(frame, p.Area, p)
	}

	help := "k: +1  j: -1  tab: focus  r: reset  q: quit  F12: debug"
	backend.DrawTextCentered(backend.NewSubTarget(frame, area.X, area.Y+area.Height-1, area.Width, 1), 0, help, v.th.Muted)
}

// cycleFocus moves keyboard focus between the buttons.
func (v *view) cycleFocus() {
	ctx := v.bus.Context()
	if ctx.IsFocused(buttonDec) {
		ctx.SetFocus(buttonInc)
		return
	}
	ctx.SetFocus(buttonDec)
}

func (v *view) mapEvent(kind event.Kind, _ *State) runtime.EventOutcome[Action] {
	ev := v.bus.Route(kind)
	switch k := ev.Kind.(type) {
	case event.Key:
		if k.Key == terminal.KeyTab || k.Key == terminal.KeyBacktab {
			v.cycleFocus()
			return runtime.NeedsRender[Action]()
		}
		if id, ok := v.bus.Context().Focused(); ok {
			if b, ok := v.buttons[id]; ok {
				if actions := b.HandleEvent(ev.Kind, v.props(id)); len(actions) > 0 {
					return runtime.Emit(actions...)
				}
			}
		}
		return mapKey(k.KeyEvent)
	case event.Mouse:
		if !ev.HasTarget {
			return runtime.Ignored[Action]()
		}
		if b, ok := v.buttons[ev.Target]; ok {
			return runtime.Emit(b.HandleEvent(ev.Kind, v.props(ev.Target))...)
		}
	case event.Scroll:
		if k.Delta < 0 {
			return runtime.Emit(CountIncrement)
		}
		return runtime.Emit(CountDecrement)
	case event.Resize:
		return runtime.NeedsRender[Action]()
	}
	return runtime.Ignored[Action]()
}

func mapKey(k terminal.KeyEvent) runtime.EventOutcome[Action] {
	switch {
	case k.Key == terminal.KeyUp, k.Key == terminal.KeyRune && k.Rune == 'k' && !k.Ctrl:
		return runtime.Emit(CountIncrement)
	case k.Key == terminal.KeyDown, k.Key == terminal.KeyRune && k.Rune == 'j' && !k.Ctrl:
		return runtime.Emit(CountDecrement)
	case k.Key == terminal.KeyRune && k.Rune == 'r' && !k.Ctrl:
		return runtime.Emit(CountReset)
	case k.Key == terminal.KeyEscape, k.IsCtrl('c'), k.Key == terminal.KeyRune && k.Rune == 'q' && !k.Ctrl:
		return runtime.Emit(Quit)
	}
	return runtime.Ignored[Action]()
}
