// Package config loads runtime configuration from YAML files and the
// environment.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/dispatch/pkg/errors"
	"github.com/odvcencio/dispatch/pkg/paths"
)

// Config is the full configuration.
type Config struct {
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Sources   SourcesConfig   `yaml:"sources"`
	// Features maps flag names to their initial state.
	Features map[string]bool `yaml:"features"`
}

// RuntimeConfig tunes the event loop.
type RuntimeConfig struct {
	PollInterval       time.Duration `yaml:"poll_interval"`
	MaxEventsPerBatch  int           `yaml:"max_events_per_batch"`
	MaxActionsPerCycle int           `yaml:"max_actions_per_cycle"`
	TickRate           time.Duration `yaml:"tick_rate"`
}

// LoggingConfig controls the log file. The terminal belongs to the UI, so
// logs go to a file or nowhere.
type LoggingConfig struct {
	Path    string          `yaml:"path"`
	Level   string          `yaml:"level"`
	Actions ActionLogConfig `yaml:"actions"`
}

// ActionLogConfig controls the action logger middleware. Include and
// Exclude are comma-separated glob patterns.
type ActionLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Include string `yaml:"include"`
	Exclude string `yaml:"exclude"`
}

// TelemetryConfig controls metrics and tracing.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	TracePath   string `yaml:"trace_path"`
	ServiceName string `yaml:"service_name"`
}

// SourcesConfig points stream subscriptions at external producers.
type SourcesConfig struct {
	NATSURL      string `yaml:"nats_url"`
	NATSSubject  string `yaml:"nats_subject"`
	WebSocketURL string `yaml:"websocket_url"`
	WatchPath    string `yaml:"watch_path"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			PollInterval:       16 * time.Millisecond,
			MaxEventsPerBatch:  20,
			MaxActionsPerCycle: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
			Actions: ActionLogConfig{
				Exclude: "Tick,Render",
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "dispatch",
		},
		Sources: SourcesConfig{
			NATSSubject: "dispatch.events",
		},
		Features: map[string]bool{},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, ~/.dispatch/config.yaml, ./.dispatch/config.yaml, environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".dispatch", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, loadError(err, userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", ".dispatch", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, loadError(err, projectConfigPath)
	}

	applyEnvOverrides(cfg)
	resolvePaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, loadError(err, path)
	}
	applyEnvOverrides(cfg)
	resolvePaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadError(err error, path string) error {
	if errors.IsCode(err, errors.ErrCodeConfigParse) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeConfigLoad, "loading config").WithContext("path", path)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DISPATCH_LOG_PATH"); v != "" {
		cfg.Logging.Path = v
	}
	if v := os.Getenv("DISPATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if val, ok := envBool("DISPATCH_ACTION_LOG"); ok {
		cfg.Logging.Actions.Enabled = val
	}
	if v, ok := os.LookupEnv("DISPATCH_ACTION_LOG_INCLUDE"); ok {
		cfg.Logging.Actions.Include = v
	}
	if v, ok := os.LookupEnv("DISPATCH_ACTION_LOG_EXCLUDE"); ok {
		cfg.Logging.Actions.Exclude = v
	}
	if v := os.Getenv("DISPATCH_METRICS_ADDR"); v != "" {
		cfg.Telemetry.MetricsAddr = v
	}
	if v := os.Getenv("DISPATCH_TRACE_PATH"); v != "" {
		cfg.Telemetry.TracePath = v
	}
	if v := strings.TrimSpace(os.Getenv("DISPATCH_POLL_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Runtime.PollInterval = d
		} else if ms, err := strconv.Atoi(v); err == nil {
			cfg.Runtime.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("DISPATCH_NATS_URL"); v != "" {
		cfg.Sources.NATSURL = v
	}
	if v := os.Getenv("DISPATCH_WEBSOCKET_URL"); v != "" {
		cfg.Sources.WebSocketURL = v
	}
	// DISPATCH_FEATURES="a,b,-c" enables a and b and disables c.
	if v := os.Getenv("DISPATCH_FEATURES"); v != "" {
		if cfg.Features == nil {
			cfg.Features = map[string]bool{}
		}
		for _, name := range splitCommaList(v) {
			if strings.HasPrefix(name, "-") {
				cfg.Features[strings.TrimPrefix(name, "-")] = false
				continue
			}
			cfg.Features[name] = true
		}
	}
}

func resolvePaths(cfg *Config) {
	cfg.Logging.Path = paths.LogFile(cfg.Logging.Path)
	cfg.Telemetry.TracePath = paths.LogFile(cfg.Telemetry.TracePath)
	cfg.Sources.WatchPath = paths.ExpandHome(cfg.Sources.WatchPath)
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Runtime.PollInterval < time.Millisecond {
		return invalid("runtime.poll_interval", fmt.Sprintf("must be at least 1ms, got %s", c.Runtime.PollInterval))
	}
	if c.Runtime.MaxEventsPerBatch <= 0 {
		return invalid("runtime.max_events_per_batch", "must be positive")
	}
	if c.Runtime.MaxActionsPerCycle <= 0 {
		return invalid("runtime.max_actions_per_cycle", "must be positive")
	}
	if c.Runtime.TickRate < 0 {
		return invalid("runtime.tick_rate", "must not be negative")
	}
	if !validLevels[c.Logging.Level] {
		return invalid("logging.level", fmt.Sprintf("invalid level %q (valid: debug, info, warn, error)", c.Logging.Level))
	}
	if addr := c.Telemetry.MetricsAddr; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return invalid("telemetry.metrics_addr", err.Error())
		}
	}
	for name := range c.Features {
		if strings.TrimSpace(name) == "" {
			return invalid("features", "flag names must not be empty")
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return errors.New(errors.ErrCodeConfigInvalid, reason).WithContext("field", field)
}
