// FILE: config.go
package asynclog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all service configuration values.
// It is replaced wholesale on every Init or ApplyConfig.
type Config struct {
	// Filtering
	Level string `toml:"level"` // none, trace, debug, info, warning, error, critical

	// Destinations
	EnableConsole bool   `toml:"enable_console"`
	EnableFile    bool   `toml:"enable_file"`
	FilePath      string `toml:"file_path"`      // Required when file output is enabled
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Rollover
	RolloverSizeBytes int64 `toml:"rollover_size_bytes"` // 0 disables rollover
	RolloverCheckMs   int64 `toml:"rollover_check_ms"`   // Interval of the size check

	// Timers
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Minimum time between file flushes
	IdleWaitMs      int64 `toml:"idle_wait_ms"`      // Worker back-off on an empty queue

	// Self-diagnostics to stderr
	Diagnostics bool `toml:"diagnostics"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level: "info",

	EnableConsole: true,
	EnableFile:    false,
	FilePath:      "",
	ConsoleTarget: "stdout",

	RolloverSizeBytes: 0,
	RolloverCheckMs:   defaultRolloverCheck.Milliseconds(),

	FlushIntervalMs: defaultFlushInterval.Milliseconds(),
	IdleWaitMs:      defaultIdleWait.Milliseconds(),

	Diagnostics: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the [log] table of a TOML file over the defaults.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w: %w", ErrInvalidConfiguration, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w: %w", ErrInvalidConfiguration, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as a [log] TOML table readable by NewConfigFromFile
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(struct {
		Log *Config `toml:"log"`
	}{Log: c})
	if err != nil {
		return fmtErrorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create config directory '%s': %w: %w", dir, ErrIO, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmtErrorf("failed to write config file '%s': %w: %w", path, ErrIO, err)
	}
	return nil
}

// extractConfig copies values found by the loader into cfg, keyed by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		switch v := value.(type) {
		case string:
			field.SetString(v)
		case Level:
			field.SetString(v.String())
		default:
			return fmt.Errorf("expected string, got %T", value)
		}

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface integers as floats
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate checks the configuration; every failure wraps ErrInvalidConfiguration
func (c *Config) validate() error {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return fmtErrorf("%w: %w", ErrInvalidConfiguration, err)
	}

	if level != LevelNone && c.destinations() == NoDestination {
		return fmtErrorf("%w: level %s requires at least one destination", ErrInvalidConfiguration, level)
	}

	if c.EnableFile && strings.TrimSpace(c.FilePath) == "" {
		return fmtErrorf("%w: file_path cannot be empty when file output is enabled", ErrInvalidConfiguration)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("%w: invalid console_target: '%s' (use stdout or stderr)", ErrInvalidConfiguration, c.ConsoleTarget)
	}

	if c.RolloverSizeBytes < 0 {
		return fmtErrorf("%w: rollover_size_bytes cannot be negative: %d", ErrInvalidConfiguration, c.RolloverSizeBytes)
	}

	if c.FlushIntervalMs <= 0 || c.RolloverCheckMs <= 0 || c.IdleWaitMs <= 0 {
		return fmtErrorf("%w: interval settings must be positive", ErrInvalidConfiguration)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// level returns the parsed filter level; valid after validate
func (c *Config) level() Level {
	l, _ := ParseLevel(c.Level)
	return l
}

// destinations returns the enabled sinks as a bit set
func (c *Config) destinations() Destination {
	var d Destination
	if c.EnableConsole {
		d |= ConsoleLog
	}
	if c.EnableFile {
		d |= FileLog
	}
	return d
}

func (c *Config) flushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

func (c *Config) rolloverCheck() time.Duration {
	return time.Duration(c.RolloverCheckMs) * time.Millisecond
}

func (c *Config) idleWait() time.Duration {
	return time.Duration(c.IdleWaitMs) * time.Millisecond
}
