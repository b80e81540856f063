// Package dispatch provides the centralized state primitives: actions,
// reducers, stores, middleware and the shared action queue.
//
// State is owned by a Store (or EffectStore) and is only mutated inside a
// reducer call during Dispatch. Reducers are pure: any I/O they need is
// returned as effect values and interpreted by the runtime.
package dispatch

import (
	"strings"
	"unicode"
)

// Action is an intent to change state. Actions are plain values; Name must
// be stable because it is used for logging and filtering.
type Action interface {
	Name() string
}

// Categorized lets an action override the inferred category.
type Categorized interface {
	Category() string
}

// CategoryAsyncResult is the category of Did* actions produced by tasks.
const CategoryAsyncResult = "async_result"

var actionVerbs = map[string]struct{}{
	"Start": {}, "End": {}, "Open": {}, "Close": {}, "Submit": {}, "Confirm": {}, "Cancel": {},
	"Next": {}, "Prev": {}, "Up": {}, "Down": {}, "Left": {}, "Right": {}, "Enter": {}, "Exit": {}, "Escape": {},
	"Add": {}, "Remove": {}, "Clear": {}, "Update": {}, "Set": {}, "Get": {}, "Load": {}, "Save": {}, "Delete": {}, "Create": {},
	"Show": {}, "Hide": {}, "Enable": {}, "Disable": {}, "Toggle": {},
	"Focus": {}, "Blur": {}, "Select": {},
	"Move": {}, "Copy": {}, "Cycle": {}, "Reset": {}, "Scroll": {},
}

// Category returns the category of an action, or "" when it has none.
//
// Categories are inferred from the PascalCase name: "SearchAddChar" is in
// "search", "ConnectionFormSubmit" in "connection_form" and every "Did*"
// action is an async result. Names that start with a verb, have a single
// word, or contain no verb are uncategorized.
func Category(a Action) string {
	if c, ok := a.(Categorized); ok {
		return c.Category()
	}
	return InferCategory(a.Name())
}

// InferCategory applies the category naming rules to an action name.
func InferCategory(name string) string {
	parts := splitPascal(name)
	if len(parts) == 0 {
		return ""
	}
	if parts[0] == "Did" {
		return CategoryAsyncResult
	}
	if len(parts) < 2 {
		return ""
	}
	if _, verb := actionVerbs[parts[0]]; verb {
		return ""
	}
	for i := 1; i < len(parts); i++ {
		if _, verb := actionVerbs[parts[i]]; verb {
			return toSnake(parts[:i])
		}
	}
	return ""
}

func splitPascal(s string) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) && cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func toSnake(parts []string) string {
	lower := make([]string, len(parts))
	for i, p := range parts {
		lower[i] = strings.ToLower(p)
	}
	return strings.Join(lower, "_")
}
