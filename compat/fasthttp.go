// FILE: lixenwraith/asynclog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/asynclog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp server logging into an asynclog.Service
type FastHTTPAdapter struct {
	service       *asynclog.Service
	defaultLevel  asynclog.Level
	levelDetector func(string) asynclog.Level // Function to detect level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(service *asynclog.Service, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		service:       service,
		defaultLevel:  asynclog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing
func WithDefaultLevel(level asynclog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect level from message content.
// Returning LevelNone falls back to the default level.
func WithLevelDetector(detector func(string) asynclog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != asynclog.LevelNone {
			level = detected
		}
	}

	a.service.LogDepth(level, 1, "fasthttp: "+msg)
}

// DetectLogLevel guesses a level from message content, LevelNone when nothing matches
func DetectLogLevel(msg string) asynclog.Level {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return asynclog.LevelCritical
	}

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") {
		return asynclog.LevelError
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return asynclog.LevelWarning
	}

	if strings.Contains(msgLower, "debug") {
		return asynclog.LevelDebug
	}

	if strings.Contains(msgLower, "trace") {
		return asynclog.LevelTrace
	}

	return asynclog.LevelNone
}
