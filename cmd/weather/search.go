package main

import (
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
	"github.com/odvcencio/dispatch/pkg/ui/theme"
)

type searchProps struct {
	// Open is set while the box is shown and owns input.
	Open bool
	// Area is where the box was last drawn.
	Area     event.Rect
	Query    string
	Results  []Location
	Selected int
	Loading  bool
	Error    string
	Ticks    int
}

// searchBox is the city search modal.
type searchBox struct {
	th *theme.Theme
}

var _ runtime.Component[searchProps, Action] = searchBox{}

func (b searchBox) HandleEvent(kind event.Kind, p searchProps) []Action {
	if !p.Open {
		return nil
	}
	switch k := kind.(type) {
	case event.Key:
		return searchKey(k.KeyEvent, p)
	case event.Paste:
		text := strings.ReplaceAll(k.Text, "\n", " ")
		return []Action{SearchQueryChange{Query: p.Query + text}}
	case event.Mouse:
		if k.Action != terminal.MousePress || k.Button != terminal.MouseLeft {
			return nil
		}
		if !p.Area.Contains(k.X, k.Y) {
			return []Action{SearchClose{}}
		}
		if i, ok := p.resultAt(k.Y); ok {
			return []Action{SearchSelect{Index: i}}
		}
	case event.Scroll:
		if p.Area.Contains(k.X, k.Y) {
			return []Action{SearchSelectMove{Delta: k.Delta}}
		}
	}
	return nil
}

// resultAt maps a screen row to a result index.
func (p searchProps) resultAt(y int) (int, bool) {
	i := y - (p.Area.Y + modalHeader)
	if i < 0 || i >= len(p.Results) {
		return 0, false
	}
	return i, true
}

func searchKey(k terminal.KeyEvent, p searchProps) []Action {
	switch {
	case k.Key == terminal.KeyEscape:
		return []Action{SearchClose{}}
	case k.Key == terminal.KeyEnter:
		if len(p.Results) > 0 {
			return []Action{SearchSelect{Index: p.Selected}}
		}
		return []Action{SearchQuerySubmit{}}
	case k.Key == terminal.KeyUp, k.Key == terminal.KeyBacktab:
		return []Action{SearchSelectMove{Delta: -1}}
	case k.Key == terminal.KeyDown, k.Key == terminal.KeyTab:
		return []Action{SearchSelectMove{Delta: 1}}
	case k.Key == terminal.KeyBackspace:
		if p.Query == "" {
			return nil
		}
		_, size := utf8.DecodeLastRuneInString(p.Query)
		return []Action{SearchQueryChange{Query: p.Query[:len(p.Query)-size]}}
	case k.IsCtrl('u'):
		return []Action{SearchQueryChange{Query: ""}}
	case k.Key == terminal.KeyRune && !k.Ctrl && !k.Alt:
		return []Action{SearchQueryChange{Query: p.Query + string(k.Rune)}}
	}
	return nil
}

func (b searchBox) Render(frame backend.RenderTarget, area event.Rect, p searchProps) {
	th := b.th
	x, y, w, h := area.X, area.Y, area.Width, area.Height
	backend.Fill(frame, x, y, w, h, ' ', th.Text)
	backend.DrawBox(frame, x, y, w, h, " Search city ", th.BorderFocus)
	body := backend.NewSubTarget(frame, x+1, y+1, max(w-2, 0), max(h-2, 0))

	backend.DrawText(body, 1, 0, "> "+p.Query+"_", th.Accent)
	if p.Loading {
		backend.DrawText(body, max(w-4, 0), 0, string(theme.Spinner(p.Ticks)), th.Spinner)
	}

	row := modalHeader - 1
	if p.Error != "" {
		backend.DrawText(body, 1, row, p.Error, th.Error)
		return
	}
	for i, loc := range p.Results {
		style := th.Text
		if i == p.Selected {
			style = th.Selection
		}
		backend.DrawText(body, 1, row+i, loc.Name, style)
	}
}
