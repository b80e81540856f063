package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyConstantsUnique(t *testing.T) {
	seen := make(map[Key]bool)
	for k := KeyNone; k <= KeyF12; k++ {
		assert.False(t, seen[k], "duplicate key constant %d", k)
		seen[k] = true
	}
}

func TestEventInterface(t *testing.T) {
	var _ Event = KeyEvent{}
	var _ Event = ResizeEvent{}
	var _ Event = MouseEvent{}
	var _ Event = PasteEvent{}
}

func TestKeyEventString(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want string
	}{
		{KeyEvent{Key: KeyRune, Rune: 'q'}, "q"},
		{KeyEvent{Key: KeyRune, Rune: 'c', Ctrl: true}, "ctrl+c"},
		{KeyEvent{Key: KeyRune, Rune: 'x', Alt: true}, "alt+x"},
		{KeyEvent{Key: KeyRune, Rune: 'Q', Shift: true}, "Q"},
		{KeyEvent{Key: KeyEnter}, "enter"},
		{KeyEvent{Key: KeyEscape}, "esc"},
		{KeyEvent{Key: KeyTab, Shift: true}, "shift+tab"},
		{KeyEvent{Key: KeyF5}, "f5"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.String())
		})
	}
}

func TestKeyEventIsCtrl(t *testing.T) {
	ev := KeyEvent{Key: KeyRune, Rune: 'q', Ctrl: true}
	assert.True(t, ev.IsCtrl('q'))
	assert.False(t, ev.IsCtrl('c'))
	assert.False(t, KeyEvent{Key: KeyRune, Rune: 'q'}.IsCtrl('q'))
}

func TestLookupKey(t *testing.T) {
	for _, name := range []string{"enter", "return", "esc", "escape", "pgup", "pagedown", "f12"} {
		k, ok := LookupKey(name)
		assert.True(t, ok, name)
		assert.NotEqual(t, KeyNone, k, name)
	}
	_, ok := LookupKey("none")
	assert.False(t, ok)
	_, ok = LookupKey("hyper")
	assert.False(t, ok)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want KeyEvent
	}{
		{"q", KeyEvent{Key: KeyRune, Rune: 'q'}},
		{"ctrl+p", KeyEvent{Key: KeyRune, Rune: 'p', Ctrl: true}},
		{"Ctrl+C", KeyEvent{Key: KeyRune, Rune: 'c', Ctrl: true}},
		{"alt+enter", KeyEvent{Key: KeyEnter, Alt: true}},
		{"ctrl+alt+x", KeyEvent{Key: KeyRune, Rune: 'x', Ctrl: true, Alt: true}},
		{"shift+tab", KeyEvent{Key: KeyBacktab, Shift: true}},
		{"esc", KeyEvent{Key: KeyEscape}},
		{"space", KeyEvent{Key: KeyRune, Rune: ' '}},
		{"+", KeyEvent{Key: KeyRune, Rune: '+'}},
		{"ctrl++", KeyEvent{Key: KeyRune, Rune: '+', Ctrl: true}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKey(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "ctrl+", "hyper+x", "notakey"} {
		_, ok := ParseKey(bad)
		assert.False(t, ok, bad)
	}
}
