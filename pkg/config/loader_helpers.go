package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/dispatch/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into the config. The raw
// map tells explicit false/zero values apart from absent keys.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if override.Runtime.PollInterval != 0 {
		base.Runtime.PollInterval = override.Runtime.PollInterval
	}
	if override.Runtime.MaxEventsPerBatch != 0 {
		base.Runtime.MaxEventsPerBatch = override.Runtime.MaxEventsPerBatch
	}
	if override.Runtime.MaxActionsPerCycle != 0 {
		base.Runtime.MaxActionsPerCycle = override.Runtime.MaxActionsPerCycle
	}
	if fieldSet(raw, "runtime", "tick_rate") {
		base.Runtime.TickRate = override.Runtime.TickRate
	}

	if override.Logging.Path != "" {
		base.Logging.Path = override.Logging.Path
	}
	if override.Logging.Level != "" {
		base.Logging.Level = strings.ToLower(override.Logging.Level)
	}
	if fieldSet(raw, "logging", "actions", "enabled") {
		base.Logging.Actions.Enabled = override.Logging.Actions.Enabled
	}
	if fieldSet(raw, "logging", "actions", "include") {
		base.Logging.Actions.Include = override.Logging.Actions.Include
	}
	if fieldSet(raw, "logging", "actions", "exclude") {
		base.Logging.Actions.Exclude = override.Logging.Actions.Exclude
	}

	if override.Telemetry.MetricsAddr != "" {
		base.Telemetry.MetricsAddr = override.Telemetry.MetricsAddr
	}
	if override.Telemetry.TracePath != "" {
		base.Telemetry.TracePath = override.Telemetry.TracePath
	}
	if override.Telemetry.ServiceName != "" {
		base.Telemetry.ServiceName = override.Telemetry.ServiceName
	}

	if override.Sources.NATSURL != "" {
		base.Sources.NATSURL = override.Sources.NATSURL
	}
	if override.Sources.NATSSubject != "" {
		base.Sources.NATSSubject = override.Sources.NATSSubject
	}
	if override.Sources.WebSocketURL != "" {
		base.Sources.WebSocketURL = override.Sources.WebSocketURL
	}
	if override.Sources.WatchPath != "" {
		base.Sources.WatchPath = override.Sources.WatchPath
	}

	if len(override.Features) > 0 && base.Features == nil {
		base.Features = map[string]bool{}
	}
	for name, on := range override.Features {
		base.Features[name] = on
	}
}

// fieldSet reports whether the nested key path is present in raw.
func fieldSet(raw map[string]any, path ...string) bool {
	current := raw
	for i, key := range path {
		v, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
