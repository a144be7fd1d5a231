// FILE: interface.go
package asynclog

import (
	"time"

	"github.com/petermattis/goid"
)

// Logger is the lifecycle and logging surface shared by Service and Nop
type Logger interface {
	Init(level Level, destinations Destination, filePath string, rolloverThresholdBytes int64) error
	SetLogLevel(level Level) error
	Close(force bool)
	Flush(timeout time.Duration) error
	Log(r *Record)

	Trace(msg string)
	Debug(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Critical(msg string)

	TraceFunc(fn func() any)
	DebugFunc(fn func() any)
	InfoFunc(fn func() any)
	WarningFunc(fn func() any)
	ErrorFunc(fn func() any)
	CriticalFunc(fn func() any)

	TraceErr(err error)
	DebugErr(err error)
	InfoErr(err error)
	WarningErr(err error)
	ErrorErr(err error)
	CriticalErr(err error)
}

var _ Logger = (*Service)(nil)

// Trace logs a message at trace level
func (s *Service) Trace(msg string) { s.logMessage(LevelTrace, msg) }

// Debug logs a message at debug level
func (s *Service) Debug(msg string) { s.logMessage(LevelDebug, msg) }

// Info logs a message at info level
func (s *Service) Info(msg string) { s.logMessage(LevelInfo, msg) }

// Warning logs a message at warning level
func (s *Service) Warning(msg string) { s.logMessage(LevelWarning, msg) }

// Error logs a message at error level
func (s *Service) Error(msg string) { s.logMessage(LevelError, msg) }

// Critical logs a message at critical level
func (s *Service) Critical(msg string) { s.logMessage(LevelCritical, msg) }

// TraceFunc logs the result of fn at trace level. fn runs on the worker,
// only if the record passes the filter.
func (s *Service) TraceFunc(fn func() any) { s.logDeferred(LevelTrace, fn) }

// DebugFunc logs the result of fn at debug level
func (s *Service) DebugFunc(fn func() any) { s.logDeferred(LevelDebug, fn) }

// InfoFunc logs the result of fn at info level
func (s *Service) InfoFunc(fn func() any) { s.logDeferred(LevelInfo, fn) }

// WarningFunc logs the result of fn at warning level
func (s *Service) WarningFunc(fn func() any) { s.logDeferred(LevelWarning, fn) }

// ErrorFunc logs the result of fn at error level
func (s *Service) ErrorFunc(fn func() any) { s.logDeferred(LevelError, fn) }

// CriticalFunc logs the result of fn at critical level
func (s *Service) CriticalFunc(fn func() any) { s.logDeferred(LevelCritical, fn) }

// TraceErr logs err and its stack trace, when it carries one, at trace level
func (s *Service) TraceErr(err error) { s.logError(LevelTrace, err) }

// DebugErr logs err at debug level
func (s *Service) DebugErr(err error) { s.logError(LevelDebug, err) }

// InfoErr logs err at info level
func (s *Service) InfoErr(err error) { s.logError(LevelInfo, err) }

// WarningErr logs err at warning level
func (s *Service) WarningErr(err error) { s.logError(LevelWarning, err) }

// ErrorErr logs err at error level
func (s *Service) ErrorErr(err error) { s.logError(LevelError, err) }

// CriticalErr logs err at critical level
func (s *Service) CriticalErr(err error) { s.logError(LevelCritical, err) }

// LogDepth logs msg at level with the call site taken depth frames above
// the caller of LogDepth. Adapters use it to attribute records to their callers.
func (s *Service) LogDepth(level Level, depth int, msg string) {
	if !s.admit(level) {
		return
	}
	s.enqueue(NewMessageRecord(s.header(level, depth+1), msg))
}

// The helpers below are called directly by the exported level methods, so
// the user frame is two above them.

func (s *Service) logMessage(level Level, msg string) {
	if !s.admit(level) {
		return
	}
	s.enqueue(NewMessageRecord(s.header(level, 2), msg))
}

func (s *Service) logDeferred(level Level, fn func() any) {
	if !s.admit(level) {
		return
	}
	s.enqueue(NewDeferredRecord(s.header(level, 2), fn))
}

func (s *Service) logError(level Level, err error) {
	if !s.admit(level) {
		return
	}
	s.enqueue(NewErrorRecord(s.header(level, 2), err))
}

// header captures time, goroutine and the call site skip frames above its caller
func (s *Service) header(level Level, skip int) Header {
	return Header{
		Level:    level,
		Time:     s.clock.Now(),
		ThreadID: goid.Get(),
		Site:     CallerSite(skip + 1),
	}
}
