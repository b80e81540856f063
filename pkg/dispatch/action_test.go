package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type explicitCategory struct{}

func (explicitCategory) Name() string     { return "SearchAddChar" }
func (explicitCategory) Category() string { return "custom" }

func TestInferCategory(t *testing.T) {
	tests := map[string]string{
		"SearchAddChar":        "search",
		"ConnectionFormSubmit": "connection_form",
		"ValueViewerScrollUp":  "value_viewer",
		"DidConnect":           CategoryAsyncResult,
		"WeatherDidLoad":       "weather_did",
		"OpenConnectionForm":   "",
		"NextItem":             "",
		"Tick":                 "",
		"CountIncrement":       "",
		"UiToggleUnits":        "ui",
		"":                     "",
	}
	for name, want := range tests {
		assert.Equal(t, want, InferCategory(name), name)
	}
}

func TestCategory_Override(t *testing.T) {
	assert.Equal(t, "custom", Category(explicitCategory{}))
	assert.Equal(t, "", Category(actIncrement))
}
