package dispatch

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultLogExclude lists high-frequency actions that are not logged unless
// a filter asks for them.
var DefaultLogExclude = []string{"Tick", "Render"}

// LogFilter decides which action names are logged. Patterns are globs
// supporting '*' and '?'. When Include is non-empty a name must match one
// of its patterns; a name matching any Exclude pattern is never logged.
type LogFilter struct {
	Include []string
	Exclude []string
}

// DefaultLogFilter excludes DefaultLogExclude.
func DefaultLogFilter() LogFilter {
	return LogFilter{Exclude: append([]string(nil), DefaultLogExclude...)}
}

// ParseLogFilter builds a filter from comma-separated pattern lists. An
// empty exclude list falls back to DefaultLogExclude.
func ParseLogFilter(include, exclude string) LogFilter {
	f := LogFilter{Include: splitPatterns(include)}
	if strings.TrimSpace(exclude) == "" {
		f.Exclude = append([]string(nil), DefaultLogExclude...)
	} else {
		f.Exclude = splitPatterns(exclude)
	}
	return f
}

// ShouldLog reports whether an action name passes the filter.
func (f LogFilter) ShouldLog(name string) bool {
	if len(f.Include) > 0 {
		matched := false
		for _, p := range f.Include {
			if GlobMatch(p, name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, p := range f.Exclude {
		if GlobMatch(p, name) {
			return false
		}
	}
	return true
}

func splitPatterns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GlobMatch matches text against a pattern where '*' matches any run of
// characters and '?' matches exactly one.
func GlobMatch(pattern, text string) bool {
	p := []rune(pattern)
	t := []rune(text)
	pi, ti := 0, 0
	starP, starT := -1, 0

	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			starP = pi
			starT = ti
			pi++
		case starP >= 0:
			pi = starP + 1
			starT++
			ti = starT
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// ActionLogger is middleware that logs dispatched actions through slog.
type ActionLogger[A Action] struct {
	logger *slog.Logger
	filter LogFilter
	level  slog.Level
}

// NewActionLogger creates an action logger writing at debug level.
func NewActionLogger[A Action](logger *slog.Logger, filter LogFilter) *ActionLogger[A] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionLogger[A]{logger: logger, filter: filter, level: slog.LevelDebug}
}

// SetLevel changes the level actions are logged at.
func (l *ActionLogger[A]) SetLevel(level slog.Level) {
	l.level = level
}

// Filter returns the active filter.
func (l *ActionLogger[A]) Filter() LogFilter {
	return l.filter
}

func (l *ActionLogger[A]) Before(action A) {
	name := action.Name()
	if !l.filter.ShouldLog(name) {
		return
	}
	attrs := []slog.Attr{slog.String("action", name)}
	if cat := Category(action); cat != "" {
		attrs = append(attrs, slog.String("category", cat))
	}
	l.logger.LogAttrs(context.Background(), l.level, "dispatch", attrs...)
}

func (l *ActionLogger[A]) After(action A, changed bool) {
	name := action.Name()
	if !l.filter.ShouldLog(name) {
		return
	}
	l.logger.LogAttrs(context.Background(), l.level, "dispatched",
		slog.String("action", name),
		slog.Bool("changed", changed),
	)
}
