// Package debug provides an inspector overlay for the runtime: a side
// panel listing recent actions and a summary of the current state.
package debug

import (
	"fmt"
	"strings"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

// DefaultToggleKey opens and closes the panel.
var DefaultToggleKey = terminal.KeyEvent{Key: terminal.KeyF12}

// Option configures a Layer.
type Option func(*config)

type config struct {
	toggle  terminal.KeyEvent
	history int
	active  bool
}

// WithToggleKey replaces the F12 toggle.
func WithToggleKey(k terminal.KeyEvent) Option {
	return func(c *config) { c.toggle = k }
}

// WithHistory sets how many actions the panel remembers.
func WithHistory(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.history = n
		}
	}
}

// WithActive opens the panel from the start.
func WithActive(on bool) Option {
	return func(c *config) { c.active = on }
}

// Layer is a runtime overlay. While open it takes keyboard and mouse input;
// resize and tick events still reach the application.
type Layer[S any, A dispatch.Action] struct {
	cfg     config
	active  bool
	actions []string
	total   int
	inspect func(*S) []string
}

// New returns a closed layer.
func New[S any, A dispatch.Action](opts ...Option) *Layer[S, A] {
	cfg := config{toggle: DefaultToggleKey, history: 12}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Layer[S, A]{cfg: cfg, active: cfg.active, inspect: defaultInspect[S]}
}

// SetInspector replaces the state summary, which defaults to %+v split on
// field boundaries.
func (l *Layer[S, A]) SetInspector(fn func(*S) []string) {
	if fn != nil {
		l.inspect = fn
	}
}

func (l *Layer[S, A]) Enabled() bool { return l.active }

// Actions returns the remembered action names, oldest first.
func (l *Layer[S, A]) Actions() []string {
	return append([]string(nil), l.actions...)
}

func (l *Layer[S, A]) HandleEvent(kind event.Kind, _ *S, _ func(A)) (needsRender, consumed bool) {
	key, isKey := kind.(event.Key)
	if isKey && sameKey(key.KeyEvent, l.cfg.toggle) {
		l.active = !l.active
		return true, true
	}
	if !l.active {
		return false, false
	}

	switch k := kind.(type) {
	case event.Key:
		switch {
		case k.Key == terminal.KeyEscape:
			l.active = false
			return true, true
		case k.Key == terminal.KeyRune && k.Rune == 'c' && !k.Ctrl:
			l.actions = l.actions[:0]
			l.total = 0
			return true, true
		case k.IsCtrl('c'), k.IsCtrl('q'):
			return false, false
		}
		return false, true
	case event.Mouse, event.Scroll, event.Paste:
		return false, true
	}
	return false, false
}

func (l *Layer[S, A]) LogAction(action A) {
	l.total++
	name := action.Name()
	if cat := dispatch.Category(action); cat != "" {
		name += " [" + cat + "]"
	}
	l.actions = append(l.actions, name)
	if over := len(l.actions) - l.cfg.history; over > 0 {
		l.actions = l.actions[over:]
	}
}

func (l *Layer[S, A]) Render(frame backend.RenderTarget, area event.Rect, state *S, draw func(backend.RenderTarget, event.Rect)) {
	draw(frame, area)
	if !l.active || area.Empty() {
		return
	}

	w := max(area.Width/3, 30)
	w = min(w, area.Width)
	x := area.X + area.Width - w
	panel := backend.NewSubTarget(frame, x, area.Y, w, area.Height)
	style := backend.DefaultStyle().Foreground(backend.ColorBrightWhite).Background(backend.ColorBlack)
	dim := style.Foreground(backend.ColorBrightBlack)

	backend.Fill(panel, 0, 0, w, area.Height, ' ', style)
	backend.DrawBox(panel, 0, 0, w, area.Height, fmt.Sprintf(" debug · %d actions ", l.total), style.Bold(true))

	inner := backend.NewSubTarget(panel, 2, 1, w-4, area.Height-2)
	row := 0
	backend.DrawText(inner, 0, row, "recent", dim)
	row++
	for i := len(l.actions) - 1; i >= 0; i-- {
		backend.DrawText(inner, 0, row, l.actions[i], style)
		row++
	}
	row++
	backend.DrawText(inner, 0, row, "state", dim)
	row++
	for _, line := range l.inspect(state) {
		backend.DrawText(inner, 0, row, line, style)
		row++
	}
}

func sameKey(a, b terminal.KeyEvent) bool {
	return a.Key == b.Key && a.Rune == b.Rune && a.Ctrl == b.Ctrl && a.Alt == b.Alt
}

func defaultInspect[S any](state *S) []string {
	if state == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", *state)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	return splitFields(s)
}

// splitFields splits "a:1 b:{x y} c:2" on spaces that start a new name:value
// pair, keeping nested values together.
func splitFields(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ' ':
			if depth == 0 && strings.Contains(s[i+1:nextSpace(s, i+1)], ":") {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func nextSpace(s string, from int) int {
	if i := strings.IndexByte(s[from:], ' '); i >= 0 {
		return from + i
	}
	return len(s)
}
