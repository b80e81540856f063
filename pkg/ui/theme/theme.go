// Package theme names the styles dispatch applications draw with, so a
// whole screen can switch palettes at once.
package theme

import "github.com/odvcencio/dispatch/pkg/ui/backend"

// Theme is the visual language of one screen.
type Theme struct {
	// Text hierarchy
	Text     backend.Style
	Muted    backend.Style
	Emphasis backend.Style

	// Semantic colors
	Accent backend.Style
	Error  backend.Style

	// UI elements
	Border      backend.Style
	BorderFocus backend.Style
	Selection   backend.Style
	Button      backend.Style
	Spinner     backend.Style
}

// Default uses the 16-color palette, which every terminal renders.
func Default() *Theme {
	base := backend.DefaultStyle()
	return &Theme{
		Text:     base,
		Muted:    base.Foreground(backend.ColorBrightBlack),
		Emphasis: base.Bold(true),

		Accent: base.Foreground(backend.ColorCyan),
		Error:  base.Foreground(backend.ColorRed),

		Border:      base.Foreground(backend.ColorCyan).Dim(true),
		BorderFocus: base.Foreground(backend.ColorCyan),
		Selection:   base.Reverse(true),
		Button:      base.Reverse(true),
		Spinner:     base.Foreground(backend.ColorYellow),
	}
}

// Mono keeps only attributes, for terminals or users that want no color.
func Mono() *Theme {
	base := backend.DefaultStyle()
	return &Theme{
		Text:        base,
		Muted:       base.Dim(true),
		Emphasis:    base.Bold(true),
		Accent:      base,
		Error:       base.Bold(true).Underline(true),
		Border:      base.Dim(true),
		BorderFocus: base,
		Selection:   base.Reverse(true),
		Button:      base.Reverse(true),
		Spinner:     base,
	}
}

// BorderFor picks the border style for a focused or unfocused panel.
func (t *Theme) BorderFor(focused bool) backend.Style {
	if focused {
		return t.BorderFocus
	}
	return t.Border
}

// SpinnerFrames are the frames Spinner cycles through.
var SpinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner returns the frame for tick n.
func Spinner(n int) rune {
	if n < 0 {
		n = -n
	}
	return SpinnerFrames[n%len(SpinnerFrames)]
}
