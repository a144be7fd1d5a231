// FILE: lixenwraith/asynclog/sink.go
package asynclog

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
)

// Console colors by severity, ANSI palette indices
const (
	colorNeutral  = lipgloss.Color("7") // gray
	colorPositive = lipgloss.Color("2") // green
	colorCaution  = lipgloss.Color("3") // yellow
	colorAlert    = lipgloss.Color("1") // red
)

// consoleWriter emits rendered lines with a level-dependent foreground color.
// Each line carries its own set/reset sequence, no terminal state is shared.
type consoleWriter struct {
	w      io.Writer
	styles [LevelCritical + 1]lipgloss.Style
}

func newConsoleWriter(w io.Writer) *consoleWriter {
	r := lipgloss.NewRenderer(w)
	style := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c).TabWidth(lipgloss.NoTabConversion)
	}

	c := &consoleWriter{w: w}
	c.styles[LevelNone] = style(colorNeutral)
	c.styles[LevelTrace] = style(colorNeutral)
	c.styles[LevelDebug] = style(colorNeutral)
	c.styles[LevelInfo] = style(colorPositive)
	c.styles[LevelWarning] = style(colorCaution)
	c.styles[LevelError] = style(colorAlert)
	c.styles[LevelCritical] = style(colorAlert)
	return c
}

// styleFor maps a level to its display style
func (c *consoleWriter) styleFor(level Level) lipgloss.Style {
	if level < LevelNone || level > LevelCritical {
		return c.styles[LevelNone]
	}
	return c.styles[level]
}

// write renders line (which ends in newline) in the level color.
// Multi-line payloads are styled line by line so no padding is introduced.
func (c *consoleWriter) write(level Level, line string) error {
	style := c.styleFor(level)
	body := strings.TrimSuffix(line, newline)

	var sb strings.Builder
	sb.Grow(len(line) + 16)
	for i, part := range strings.Split(body, "\n") {
		if i > 0 {
			sb.WriteString(newline)
		}
		sb.WriteString(style.Render(strings.TrimSuffix(part, "\r")))
	}
	sb.WriteString(newline)

	if _, err := io.WriteString(c.w, sb.String()); err != nil {
		return fmtErrorf("console write failed: %w", err)
	}
	return nil
}

// fileWriter appends rendered lines to one file. It is owned by a single
// worker; only size is read concurrently (by the rollover check).
type fileWriter struct {
	path          string
	flushInterval time.Duration
	clock         clock.Clock
	size          *atomic.Int64

	file      *os.File
	buf       *bufio.Writer
	lastFlush time.Time
}

func newFileWriter(path string, flushInterval time.Duration, clk clock.Clock, size *atomic.Int64) *fileWriter {
	return &fileWriter{
		path:          path,
		flushInterval: flushInterval,
		clock:         clk,
		size:          size,
	}
}

// open creates or appends to the file; called lazily on first write
func (f *fileWriter) open() error {
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w: %w", f.path, ErrIO, err)
	}
	f.size.Store(0)
	if fi, errStat := file.Stat(); errStat == nil {
		f.size.Store(fi.Size())
	}
	f.file = file
	f.buf = bufio.NewWriterSize(file, 32*1024)
	f.lastFlush = f.clock.Now()
	return nil
}

// write appends line and flushes when the flush interval has elapsed.
// On failure the handle is closed and the next write reopens it.
func (f *fileWriter) write(line string) error {
	if f.file == nil {
		if err := f.open(); err != nil {
			return err
		}
	}

	n, err := f.buf.WriteString(line)
	f.size.Add(int64(n))
	if err != nil {
		_ = f.close()
		return fmtErrorf("failed to write to log file '%s': %w: %w", f.path, ErrIO, err)
	}

	if f.flushDue() {
		if err := f.flush(); err != nil {
			_ = f.close()
			return err
		}
	}
	return nil
}

// flushDue reports whether an open file has gone longer than the flush interval without a flush
func (f *fileWriter) flushDue() bool {
	return f.file != nil && f.clock.Now().Sub(f.lastFlush) > f.flushInterval
}

// flush pushes buffered bytes to the file and syncs it to storage
func (f *fileWriter) flush() error {
	if f.file == nil {
		return nil
	}
	if err := f.buf.Flush(); err != nil {
		return fmtErrorf("failed to flush log file '%s': %w: %w", f.path, ErrIO, err)
	}
	if err := f.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w: %w", f.path, ErrIO, err)
	}
	f.lastFlush = f.clock.Now()
	return nil
}

// close flushes and closes the handle and resets the file state
func (f *fileWriter) close() error {
	if f.file == nil {
		return nil
	}
	var finalErr error
	if err := f.buf.Flush(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to flush log file '%s' on close: %w", f.path, err))
	}
	if err := f.file.Sync(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s' on close: %w", f.path, err))
	}
	if err := f.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", f.path, err))
	}
	f.file = nil
	f.buf = nil
	f.lastFlush = time.Time{}
	return finalErr
}

// isOpen reports whether a handle is currently held
func (f *fileWriter) isOpen() bool {
	return f.file != nil
}
