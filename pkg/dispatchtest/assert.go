package dispatchtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/dispatch/pkg/dispatch"
)

// Find returns the first action matching match.
func Find[A any](actions []A, match func(A) bool) (A, bool) {
	for _, a := range actions {
		if match(a) {
			return a, true
		}
	}
	var zero A
	return zero, false
}

// Count returns how many actions match.
func Count[A any](actions []A, match func(A) bool) int {
	n := 0
	for _, a := range actions {
		if match(a) {
			n++
		}
	}
	return n
}

// AssertEmitted fails t unless some action matches.
func AssertEmitted[A any](t testing.TB, actions []A, match func(A) bool) bool {
	t.Helper()
	if _, ok := Find(actions, match); ok {
		return true
	}
	return assert.Fail(t, "expected a matching action to be emitted", "got: %v", actions)
}

// AssertNotEmitted fails t if any action matches.
func AssertNotEmitted[A any](t testing.TB, actions []A, match func(A) bool) bool {
	t.Helper()
	if a, ok := Find(actions, match); ok {
		return assert.Fail(t, "expected no matching action to be emitted", "found: %v", a)
	}
	return true
}

// AssertCategoryEmitted fails t unless an action in category was emitted.
func AssertCategoryEmitted[A dispatch.Action](t testing.TB, actions []A, category string) bool {
	t.Helper()
	return AssertEmitted(t, actions, inCategory[A](category))
}

// CountCategory returns how many actions are in category.
func CountCategory[A dispatch.Action](actions []A, category string) int {
	return Count(actions, inCategory[A](category))
}

func inCategory[A dispatch.Action](category string) func(A) bool {
	return func(a A) bool { return dispatch.Category(a) == category }
}
