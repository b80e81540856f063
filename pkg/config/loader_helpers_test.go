package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSet(t *testing.T) {
	raw := map[string]any{
		"logging": map[string]any{
			"actions": map[string]any{"enabled": false},
		},
		"runtime": "scalar",
	}

	assert.True(t, fieldSet(raw, "logging", "actions", "enabled"))
	assert.True(t, fieldSet(raw, "logging", "actions"))
	assert.False(t, fieldSet(raw, "logging", "actions", "include"))
	assert.False(t, fieldSet(raw, "runtime", "tick_rate"))
	assert.False(t, fieldSet(raw, "missing"))
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "-c"}, splitCommaList(" a, b ,,-c "))
	assert.Empty(t, splitCommaList(""))
}

func TestEnvBool(t *testing.T) {
	cases := map[string]struct {
		val, ok bool
	}{
		"1":     {true, true},
		"on":    {true, true},
		"FALSE": {false, true},
		"no":    {false, true},
		"maybe": {false, false},
	}
	for raw, want := range cases {
		t.Setenv("DISPATCH_TEST_BOOL", raw)
		val, ok := envBool("DISPATCH_TEST_BOOL")
		assert.Equal(t, want.val, val, raw)
		assert.Equal(t, want.ok, ok, raw)
	}

	t.Setenv("DISPATCH_TEST_BOOL", "")
	_, ok := envBool("DISPATCH_TEST_BOOL")
	assert.False(t, ok)
}

func TestMergeConfigs_KeepsBaseForAbsentKeys(t *testing.T) {
	base := DefaultConfig()
	override := &Config{Logging: LoggingConfig{Level: "DEBUG"}}
	mergeConfigs(base, override, map[string]any{"logging": map[string]any{"level": "DEBUG"}})

	assert.Equal(t, "debug", base.Logging.Level)
	assert.Equal(t, "Tick,Render", base.Logging.Actions.Exclude)
	assert.Equal(t, 20, base.Runtime.MaxEventsPerBatch)
}
