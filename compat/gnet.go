package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/asynclog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet engine logging into an asynclog.Service
type GnetAdapter struct {
	service      *asynclog.Service
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(service *asynclog.Service, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		service: service,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.service.LogDepth(asynclog.LevelDebug, 1, "gnet: "+fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.service.LogDepth(asynclog.LevelInfo, 1, "gnet: "+fmt.Sprintf(format, args...))
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.service.LogDepth(asynclog.LevelWarning, 1, "gnet: "+fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.service.LogDepth(asynclog.LevelError, 1, "gnet: "+fmt.Sprintf(format, args...))
}

// Fatalf logs at critical level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.service.LogDepth(asynclog.LevelCritical, 1, "gnet: "+msg)

	// Ensure the record is written before exit
	_ = a.service.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
