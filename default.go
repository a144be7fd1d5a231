// --- File: default.go ---
package asynclog

import (
	"time"
)

// Process-wide service behind the package-level functions
var defaultService = NewService()

// Default returns the process-wide service
func Default() *Service {
	return defaultService
}

// Init initializes or restarts the default service
func Init(level Level, destinations Destination, filePath string, rolloverThresholdBytes int64) error {
	return defaultService.Init(level, destinations, filePath, rolloverThresholdBytes)
}

// ApplyConfig initializes or restarts the default service from cfg
func ApplyConfig(cfg *Config) error {
	return defaultService.ApplyConfig(cfg)
}

// ApplyConfigString applies "key=value" overrides to the default service
func ApplyConfigString(overrides ...string) error {
	return defaultService.ApplyConfigString(overrides...)
}

// LoadConfig loads a TOML file and applies it to the default service
func LoadConfig(path string) error {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return err
	}
	return defaultService.ApplyConfig(cfg)
}

// SaveConfig writes the default service configuration to a TOML file
func SaveConfig(path string) error {
	return defaultService.GetConfig().Save(path)
}

// SetLogLevel changes the filter level of the default service
func SetLogLevel(level Level) error {
	return defaultService.SetLogLevel(level)
}

// Close stops the default service
func Close(force bool) {
	defaultService.Close(force)
}

// Flush waits for queued records of the default service to reach storage
func Flush(timeout time.Duration) error {
	return defaultService.Flush(timeout)
}

// Level functions call the service helpers directly so the call site
// resolves to their caller.

// Trace logs a message at trace level
func Trace(msg string) { defaultService.logMessage(LevelTrace, msg) }

// Debug logs a message at debug level
func Debug(msg string) { defaultService.logMessage(LevelDebug, msg) }

// Info logs a message at info level
func Info(msg string) { defaultService.logMessage(LevelInfo, msg) }

// Warning logs a message at warning level
func Warning(msg string) { defaultService.logMessage(LevelWarning, msg) }

// Error logs a message at error level
func Error(msg string) { defaultService.logMessage(LevelError, msg) }

// Critical logs a message at critical level
func Critical(msg string) { defaultService.logMessage(LevelCritical, msg) }

// DebugFunc logs the result of fn at debug level
func DebugFunc(fn func() any) { defaultService.logDeferred(LevelDebug, fn) }

// InfoFunc logs the result of fn at info level
func InfoFunc(fn func() any) { defaultService.logDeferred(LevelInfo, fn) }

// ErrorErr logs err at error level
func ErrorErr(err error) { defaultService.logError(LevelError, err) }

// CriticalErr logs err at critical level
func CriticalErr(err error) { defaultService.logError(LevelCritical, err) }
