// FILE: lixenwraith/asynclog/logger_test.go
package asynclog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestService starts a file-only service at trace level in a temp directory
func createTestService(t *testing.T, opts ...Option) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	svc := NewService(append([]Option{WithDiagnosticWriter(io.Discard)}, opts...)...)
	require.NoError(t, svc.Init(LevelTrace, FileLog, path, 0))
	return svc, path
}

// readLines returns the lines of a log file without terminators
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := strings.TrimSuffix(string(data), newline)
	if content == "" {
		return nil
	}
	return strings.Split(content, newline)
}

// TestNewService verifies a new service starts in state Unknown and drops records
func TestNewService(t *testing.T) {
	svc := NewService(WithDiagnosticWriter(io.Discard))

	assert.Equal(t, StateUnknown, svc.State())
	assert.False(t, svc.Enabled(LevelCritical))

	svc.Info("dropped")
	st := svc.Stats()
	assert.Zero(t, st.Enqueued)
	assert.Equal(t, int64(1), st.Filtered)
}

// TestBasicScenario logs one message to a file and closes
func TestBasicScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	svc := NewService(WithDiagnosticWriter(io.Discard))
	require.NoError(t, svc.Init(LevelTrace, FileLog, path, 0))

	svc.Info("hello")
	svc.Close(false)

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "hello"))
	assert.Contains(t, lines[0], " [Info] logger_test.go.TestBasicScenario(L:")
	assert.Equal(t, StateClosed, svc.State())
}

// TestFilteringScenario verifies only records at or above the level reach the console
func TestFilteringScenario(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(WithConsoleWriter(&buf), WithDiagnosticWriter(io.Discard))
	require.NoError(t, svc.Init(LevelWarning, ConsoleLog, "", 0))

	svc.Debug("x")
	svc.Error("y")
	svc.Close(false)

	out := buf.String()
	assert.NotContains(t, out, "): x")
	assert.Contains(t, out, "[Error]")
	assert.True(t, strings.HasSuffix(out, "): y"+newline), "got %q", out)

	st := svc.Stats()
	assert.Equal(t, int64(1), st.Filtered)
	assert.Equal(t, int64(1), st.Processed)
}

// TestLineFormat checks the rendered line layout end to end
func TestLineFormat(t *testing.T) {
	svc, path := createTestService(t)

	svc.Warning("formatted")
	svc.Close(false)

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	// 01/02/2006-15:04:05.000 [Warning] logger_test.go.TestLineFormat(L:123 T:45): formatted
	assert.Regexp(t, `^\d{2}/\d{2}/\d{4}-\d{2}:\d{2}:\d{2}\.\d{3} \[Warning\] logger_test\.go\.TestLineFormat\(L:\d+ T:\d+\): formatted$`, lines[0])
}

// TestLoggingVariants exercises every level with message, deferred and error payloads
func TestLoggingVariants(t *testing.T) {
	svc, path := createTestService(t)

	svc.Trace("m-trace")
	svc.Debug("m-debug")
	svc.Info("m-info")
	svc.Warning("m-warning")
	svc.Error("m-error")
	svc.Critical("m-critical")

	svc.TraceFunc(func() any { return "f-trace" })
	svc.DebugFunc(func() any { return "f-debug" })
	svc.InfoFunc(func() any { return 42 })
	svc.WarningFunc(func() any { return "f-warning" })
	svc.ErrorFunc(func() any { return "f-error" })
	svc.CriticalFunc(func() any { return "f-critical" })

	svc.TraceErr(errors.New("e-trace"))
	svc.DebugErr(errors.New("e-debug"))
	svc.InfoErr(errors.New("e-info"))
	svc.WarningErr(errors.New("e-warning"))
	svc.ErrorErr(errors.New("e-error"))
	svc.CriticalErr(errors.New("e-critical"))

	svc.Close(false)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	for _, want := range []string{
		"[Trace] logger_test.go.TestLoggingVariants(L:",
		"): m-trace", "): m-debug", "): m-info", "): m-warning", "): m-error", "): m-critical",
		"): f-trace", "): f-debug", "): 42", "): f-warning", "): f-error", "): f-critical",
		"): e-trace", "): e-debug", "): e-info", "): e-warning", "): e-error", "): e-critical",
	} {
		assert.Contains(t, content, want)
	}
	// pkg/errors attaches a stack, rendered below the description
	assert.Contains(t, content, "TestLoggingVariants")
	assert.Equal(t, int64(18), svc.Stats().Processed)
}

// TestDeferredNotEvaluatedWhenFiltered verifies filtered deferred messages never run
func TestDeferredNotEvaluatedWhenFiltered(t *testing.T) {
	svc, _ := createTestService(t)
	defer svc.Close(false)
	require.NoError(t, svc.SetLogLevel(LevelError))

	called := false
	svc.DebugFunc(func() any {
		called = true
		return "never"
	})
	require.NoError(t, svc.Flush(time.Second))
	assert.False(t, called)
}

// TestSetLogLevel verifies the level swap affects later records only
func TestSetLogLevel(t *testing.T) {
	svc, path := createTestService(t)

	svc.Debug("before")
	require.NoError(t, svc.SetLogLevel(LevelWarning))
	svc.Debug("after")
	svc.Warning("warned")
	assert.Equal(t, "warning", strings.ToLower(svc.GetConfig().Level))
	svc.Close(false)

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "before"))
	assert.True(t, strings.HasSuffix(lines[1], "warned"))

	t.Run("not initialized", func(t *testing.T) {
		err := svc.SetLogLevel(LevelInfo)
		assert.ErrorIs(t, err, ErrNotInitialized)

		err = NewService().SetLogLevel(LevelInfo)
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("out of range", func(t *testing.T) {
		s2, _ := createTestService(t)
		defer s2.Close(false)
		assert.ErrorIs(t, s2.SetLogLevel(Level(99)), ErrInvalidConfiguration)
	})
}

// TestLogRecord covers the record-level entry point
func TestLogRecord(t *testing.T) {
	svc, path := createTestService(t)

	h := Header{Level: LevelInfo, Time: time.Date(2024, 3, 9, 14, 5, 7, 8e6, time.UTC), ThreadID: 7,
		Site: Site{File: "main.go", Caller: "run", Line: 12}}
	svc.Log(NewMessageRecord(h, "direct"))
	svc.Log(nil)
	h.Level = LevelNone
	svc.Log(NewMessageRecord(h, "below any level"))
	svc.Close(false)

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "03/09/2024-14:05:07.008 [Info] main.go.run(L:12 T:7): direct", lines[0])
}

// TestFlush verifies Flush makes queued records visible in the file
func TestFlush(t *testing.T) {
	svc, path := createTestService(t)
	defer svc.Close(false)

	for i := 0; i < 100; i++ {
		svc.Info("flushed")
	}
	require.NoError(t, svc.Flush(time.Second))
	assert.Len(t, readLines(t, path), 100)

	svc.Close(false)
	assert.ErrorIs(t, svc.Flush(time.Second), ErrNotInitialized)
}

// TestFlushFollowsReplacedWorker verifies a pending Flush moves on to the
// worker that replaces a stopped one instead of reporting success early
func TestFlushFollowsReplacedWorker(t *testing.T) {
	tests := []struct {
		name        string
		keepStopped bool
	}{
		{"worker detached", false},
		{"worker stopped in place", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, path := createTestService(t)
			defer svc.Close(false)

			svc.mu.Lock()
			old := svc.worker
			if !tt.keepStopped {
				svc.worker = nil
			}
			svc.mu.Unlock()
			old.stop(false)

			svc.Info("queued while replaced")

			result := make(chan error, 1)
			go func() { result <- svc.Flush(2 * time.Second) }()

			time.Sleep(20 * time.Millisecond)
			select {
			case err := <-result:
				t.Fatalf("flush returned before a worker was available: %v", err)
			default:
			}

			svc.mu.Lock()
			svc.worker = svc.newWorker(svc.config, path)
			svc.worker.start()
			svc.mu.Unlock()

			require.NoError(t, <-result)
			lines := readLines(t, path)
			require.Len(t, lines, 1)
			assert.True(t, strings.HasSuffix(lines[0], "): queued while replaced"))
		})
	}
}

// TestLogDepth verifies the call site is attributed depth frames up
func TestLogDepth(t *testing.T) {
	svc, path := createTestService(t)

	logThroughHelper := func(msg string) {
		svc.LogDepth(LevelInfo, 1, msg)
	}
	logThroughHelper("via helper")
	svc.LogDepth(LevelInfo, 0, "direct")
	svc.Close(false)

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "logger_test.go.TestLogDepth(L:")
	assert.Contains(t, lines[1], "logger_test.go.TestLogDepth(L:")
}

// TestConsoleAndFile verifies both sinks receive every record
func TestConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "both.log")
	svc := NewService(WithConsoleWriter(&buf), WithDiagnosticWriter(io.Discard))
	require.NoError(t, svc.Init(LevelInfo, ConsoleLog|FileLog, path, 0))

	svc.Info("one")
	svc.Error("two")
	svc.Close(false)

	assert.Len(t, readLines(t, path), 2)
	assert.Equal(t, 2, strings.Count(buf.String(), newline))
}

// TestNop verifies the no-op logger accepts every call
func TestNop(t *testing.T) {
	var l Logger = NewNop()
	assert.NoError(t, l.Init(LevelTrace, FileLog, "", 0))
	assert.NoError(t, l.SetLogLevel(LevelInfo))
	assert.NoError(t, l.Flush(time.Millisecond))
	l.Info("ignored")
	l.ErrorErr(errors.New("ignored"))
	l.DebugFunc(func() any { panic("never called") })
	l.Log(nil)
	l.Close(true)
}
