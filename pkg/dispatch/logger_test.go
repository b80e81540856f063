package dispatch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"Tick", "Tick", true},
		{"Tick", "Tock", false},
		{"Tick", "TickTock", false},
		{"Search*", "SearchAddChar", true},
		{"Search*", "Search", true},
		{"Search*", "StartSearch", false},
		{"*Search", "StartSearch", true},
		{"*Search*", "StartSearchNow", true},
		{"Did*", "DidConnect", true},
		{"Tick?", "Ticks", true},
		{"Tick?", "Tick", false},
		{"Tick?", "Tickss", false},
		{"*Add*", "SearchAddChar", true},
		{"Connection*Add*", "ConnectionFormAddChar", true},
		{"", "", true},
		{"*", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GlobMatch(tt.pattern, tt.text), "%q vs %q", tt.pattern, tt.text)
	}
}

func TestLogFilter_Include(t *testing.T) {
	f := ParseLogFilter("Search*,Connect", "")
	assert.True(t, f.ShouldLog("SearchAddChar"))
	assert.True(t, f.ShouldLog("Connect"))
	assert.False(t, f.ShouldLog("Tick"))
	assert.False(t, f.ShouldLog("LoadKeys"))
}

func TestLogFilter_Exclude(t *testing.T) {
	f := ParseLogFilter("", "Tick, Render, LoadValue*")
	assert.False(t, f.ShouldLog("Tick"))
	assert.False(t, f.ShouldLog("Render"))
	assert.False(t, f.ShouldLog("LoadValueDebounced"))
	assert.True(t, f.ShouldLog("SearchAddChar"))
}

func TestLogFilter_IncludeAndExclude(t *testing.T) {
	f := ParseLogFilter("Search*", "SearchClear")
	assert.True(t, f.ShouldLog("SearchAddChar"))
	assert.False(t, f.ShouldLog("SearchClear"))
	assert.False(t, f.ShouldLog("Connect"))
}

func TestLogFilter_Default(t *testing.T) {
	f := DefaultLogFilter()
	assert.False(t, f.ShouldLog("Tick"))
	assert.True(t, f.ShouldLog("Increment"))
}

func TestActionLogger_WritesFilteredActions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := NewStore(counterState{}, counterReducer, Middleware[counterAction](NewActionLogger[counterAction](logger, ParseLogFilter("", "NoOp"))))
	store.Dispatch(actIncrement)
	store.Dispatch(actNoOp)

	out := buf.String()
	assert.Contains(t, out, `"action":"Increment"`)
	assert.Contains(t, out, `"changed":true`)
	assert.NotContains(t, out, `"action":"NoOp"`)
}
