// FILE: lixenwraith/asynclog/record.go
package asynclog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// Site is the call-site metadata supplied by the caller
type Site struct {
	File   string
	Caller string
	Line   int
}

// Header holds the fields every record carries regardless of payload
type Header struct {
	Level    Level
	Time     time.Time
	ThreadID int64
	Site     Site
}

type payloadKind uint8

const (
	payloadMessage payloadKind = iota
	payloadDeferred
	payloadError
)

// Record is one immutable log event. Exactly one payload arm is set.
type Record struct {
	Header

	kind     payloadKind
	message  string
	deferred func() any
	errDesc  string
	errTrace string

	once      sync.Once
	rendered  string
	renderErr error
}

// NewMessageRecord creates a record carrying a literal message
func NewMessageRecord(h Header, msg string) *Record {
	return &Record{Header: h, kind: payloadMessage, message: msg}
}

// NewDeferredRecord creates a record whose message is produced by fn at render time.
// A nil fn yields an empty message record.
func NewDeferredRecord(h Header, fn func() any) *Record {
	if fn == nil {
		return NewMessageRecord(h, "")
	}
	return &Record{Header: h, kind: payloadDeferred, deferred: fn}
}

// NewErrorRecord creates a record carrying an error description and trace.
// The trace is taken from errors created or wrapped by github.com/pkg/errors.
func NewErrorRecord(h Header, err error) *Record {
	r := &Record{Header: h, kind: payloadError}
	if err == nil {
		r.errDesc = "<nil>"
		return r
	}
	r.errDesc = err.Error()
	r.errTrace = stackOf(err)
	return r
}

// Render returns the formatted line including the trailing newline.
// The deferred function, if any, runs once; later calls return the same result.
func (r *Record) Render() (string, error) {
	r.once.Do(func() {
		msg, err := r.messageText()
		if err != nil {
			r.renderErr = err
			return
		}
		r.rendered = formatLine(r.Header, msg)
	})
	return r.rendered, r.renderErr
}

// messageText resolves the payload, recovering a panicking deferred function
func (r *Record) messageText() (msg string, err error) {
	switch r.kind {
	case payloadMessage:
		return r.message, nil
	case payloadError:
		if r.errTrace == "" {
			return r.errDesc, nil
		}
		return r.errDesc + newline + r.errTrace, nil
	case payloadDeferred:
		defer func() {
			if p := recover(); p != nil {
				err = fmtErrorf("deferred message panicked: %v", p)
			}
		}()
		return valueText(r.deferred()), nil
	default:
		return "", fmtErrorf("unknown payload kind %d", r.kind)
	}
}

// formatLine builds `<ts> [<Level>] <file>.<caller>(L:<line> T:<tid>): <msg><newline>`
func formatLine(h Header, msg string) string {
	buf := make([]byte, 0, 64+len(msg))
	buf = h.Time.AppendFormat(buf, timestampLayout)
	buf = append(buf, " ["...)
	buf = append(buf, h.Level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, h.Site.File...)
	buf = append(buf, '.')
	buf = append(buf, h.Site.Caller...)
	buf = append(buf, "(L:"...)
	buf = strconv.AppendInt(buf, int64(h.Site.Line), 10)
	buf = append(buf, " T:"...)
	buf = strconv.AppendInt(buf, h.ThreadID, 10)
	buf = append(buf, "): "...)
	buf = append(buf, msg...)
	buf = append(buf, newline...)
	return string(buf)
}

// valueText converts a deferred result to text.
// Composite values fall back to a compact spew dump.
func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case []byte:
		return string(val)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val)
	default:
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		return string(bytes.TrimSpace(b.Bytes()))
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackOf returns the innermost recorded stack of err, or ""
func stackOf(err error) string {
	var trace string
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			trace = fmt.Sprintf("%+v", st.StackTrace())
		}
	}
	return strings.TrimLeft(trace, "\n")
}
