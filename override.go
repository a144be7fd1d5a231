// FILE: override.go
package asynclog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyConfigString applies "key=value" overrides on top of the current
// configuration and (re)starts the service with the result.
//
// Example:
//
//	svc := asynclog.NewService()
//	err := svc.ApplyConfigString(
//	    "level=debug",
//	    "enable_file=true",
//	    "file_path=/var/log/app/app.log",
//	    "rollover_size_bytes=10485760",
//	)
func (s *Service) ApplyConfigString(overrides ...string) error {
	cfg := s.GetConfig()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return s.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, errors[0])
	}

	var sb strings.Builder
	sb.WriteString(errPrefix + "multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), errPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, sb.String())
}

// applyConfigField applies a single key-value override to a Config
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "level":
		level, err := ParseLevel(value)
		if err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = level.String()

	// Destinations
	case "enable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "enable_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_file '%s': %w", value, err)
		}
		cfg.EnableFile = boolVal
	case "file_path":
		cfg.FilePath = value
	case "console_target":
		cfg.ConsoleTarget = value

	// Rollover
	case "rollover_size_bytes":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for rollover_size_bytes '%s': %w", value, err)
		}
		cfg.RolloverSizeBytes = intVal
	case "rollover_check_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for rollover_check_ms '%s': %w", value, err)
		}
		cfg.RolloverCheckMs = intVal

	// Timers
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal
	case "idle_wait_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for idle_wait_ms '%s': %w", value, err)
		}
		cfg.IdleWaitMs = intVal

	case "diagnostics":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for diagnostics '%s': %w", value, err)
		}
		cfg.Diagnostics = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
