// FILE: lixenwraith/asynclog/constant.go
package asynclog

import (
	"runtime"
	"strings"
	"time"
)

// Level is the severity of a record. Levels are ordered, LevelNone lowest.
type Level int32

// Severity levels
const (
	LevelNone Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = [...]string{
	LevelNone:     "None",
	LevelTrace:    "Trace",
	LevelDebug:    "Debug",
	LevelInfo:     "Info",
	LevelWarning:  "Warning",
	LevelError:    "Error",
	LevelCritical: "Critical",
}

// String returns the name used in rendered lines
func (l Level) String() string {
	if l < LevelNone || l > LevelCritical {
		return "Unknown"
	}
	return levelNames[l]
}

// Destination is a bit set of output sinks
type Destination uint8

// Output destinations, combinable
const (
	ConsoleLog Destination = 1 << iota
	FileLog

	NoDestination Destination = 0
)

// Has reports whether all bits of d2 are set in d
func (d Destination) Has(d2 Destination) bool {
	return d&d2 == d2 && d2 != 0
}

// String lists the set destinations joined by '|'
func (d Destination) String() string {
	if d == NoDestination {
		return "None"
	}
	var parts []string
	if d.Has(ConsoleLog) {
		parts = append(parts, "ConsoleLog")
	}
	if d.Has(FileLog) {
		parts = append(parts, "FileLog")
	}
	return strings.Join(parts, "|")
}

// State is the lifecycle state of a Service
type State int32

// Lifecycle states
const (
	StateUnknown State = iota
	StateInitializing
	StateInitialized
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateInitializing:
		return "Initializing"
	case StateInitialized:
		return "Initialized"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Invalid"
	}
}

// Timers
const (
	// Worker back-off when the queue is empty
	defaultIdleWait = time.Millisecond
	// Minimum time between two file flushes
	defaultFlushInterval = 500 * time.Millisecond
	// Period of the rollover size check
	defaultRolloverCheck = 10 * time.Second
)

// Rendering
const (
	timestampLayout = "01/02/2006-15:04:05.000"
)

// newline is the platform line terminator appended to every rendered record
var newline = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()
