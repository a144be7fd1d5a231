package asynclog

import "time"

// Nop is a Logger that discards everything and never fails
type Nop struct{}

var _ Logger = Nop{}

// NewNop returns a Logger that does nothing
func NewNop() Logger { return Nop{} }

func (Nop) Init(Level, Destination, string, int64) error { return nil }
func (Nop) SetLogLevel(Level) error                      { return nil }
func (Nop) Close(bool)                                   {}
func (Nop) Flush(time.Duration) error                    { return nil }
func (Nop) Log(*Record)                                  {}

func (Nop) Trace(string)    {}
func (Nop) Debug(string)    {}
func (Nop) Info(string)     {}
func (Nop) Warning(string)  {}
func (Nop) Error(string)    {}
func (Nop) Critical(string) {}

func (Nop) TraceFunc(func() any)    {}
func (Nop) DebugFunc(func() any)    {}
func (Nop) InfoFunc(func() any)     {}
func (Nop) WarningFunc(func() any)  {}
func (Nop) ErrorFunc(func() any)    {}
func (Nop) CriticalFunc(func() any) {}

func (Nop) TraceErr(error)    {}
func (Nop) DebugErr(error)    {}
func (Nop) InfoErr(error)     {}
func (Nop) WarningErr(error)  {}
func (Nop) ErrorErr(error)    {}
func (Nop) CriticalErr(error) {}
