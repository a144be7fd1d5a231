// FILE: utility.go
package asynclog

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Error kinds returned by the service. Returned errors wrap one of these.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidState         = errors.New("invalid state")
	ErrNotInitialized       = errors.New("not initialized")
	ErrIO                   = errors.New("i/o failure")
)

// errWorkerStopped is returned to a flush request whose worker exited first
var errWorkerStopped = errors.New("worker stopped")

const errPrefix = "asynclog: "

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errPrefix) {
		format = errPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level name to its constant, case-insensitive.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "none", "off":
		return LevelNone, nil
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return LevelNone, fmtErrorf("invalid level string: '%s' (use none, trace, debug, info, warning, error, critical)", levelStr)
	}
}

// CallerSite returns the call site skip frames above the caller of CallerSite.
// File is reduced to its base name.
func CallerSite(skip int) Site {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{File: "(unknown)", Caller: "(unknown)"}
	}
	return Site{
		File:   filepath.Base(file),
		Caller: funcName(pc),
		Line:   line,
	}
}

// funcName returns the last element of the function name, anonymous functions
// keep their enclosing function
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "(unknown)"
	}
	// Dots in the last import path element are escaped as %2e in symbol
	// names, so the first dot after the last slash ends the package name.
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	// pkg.(*Type).Method or pkg.Func.func1
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
