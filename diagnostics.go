// FILE: diagnostics.go
package asynclog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	console "github.com/phsym/console-slog"
)

// diagnostics is the service's own self-debugging channel.
// It never writes to the configured sinks.
type diagnostics struct {
	logger  *slog.Logger
	enabled atomic.Bool
}

func newDiagnostics(w io.Writer) *diagnostics {
	if w == nil {
		w = os.Stderr
	}
	return &diagnostics{
		logger: slog.New(console.NewHandler(w, &console.HandlerOptions{
			Level: slog.LevelDebug,
		})),
	}
}

// setEnabled toggles diagnostic output
func (d *diagnostics) setEnabled(on bool) {
	d.enabled.Store(on)
}

func (d *diagnostics) debug(msg string, args ...any) {
	d.log(slog.LevelDebug, msg, args...)
}

func (d *diagnostics) info(msg string, args ...any) {
	d.log(slog.LevelInfo, msg, args...)
}

func (d *diagnostics) warn(msg string, args ...any) {
	d.log(slog.LevelWarn, msg, args...)
}

// failure reports an error swallowed by the pipeline
func (d *diagnostics) failure(msg string, err error, args ...any) {
	d.log(slog.LevelError, msg, append(args, "error", err)...)
}

func (d *diagnostics) log(level slog.Level, msg string, args ...any) {
	if !d.enabled.Load() {
		return
	}
	d.logger.Log(context.Background(), level, msg, args...)
}
