// FILE: lixenwraith/asynclog/processor_test.go
package asynclog

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestWorker builds an unstarted worker with an optional console buffer and file
func createTestWorker(t *testing.T, console io.Writer, path string, diag io.Writer) (*worker, *recordQueue, *pipelineStats) {
	t.Helper()
	if diag == nil {
		diag = io.Discard
	}
	d := newDiagnostics(diag)
	d.setEnabled(true)

	var cw *consoleWriter
	if console != nil {
		cw = newConsoleWriter(console)
	}
	var fw *fileWriter
	if path != "" {
		fw = newFileWriter(path, defaultFlushInterval, clock.New(), new(atomic.Int64))
	}

	q := newRecordQueue()
	stats := newPipelineStats()
	return newWorker(q, cw, fw, time.Millisecond, d, stats), q, stats
}

func testRecord(level Level, msg string) *Record {
	return NewMessageRecord(Header{Level: level, Time: time.Now(), Site: Site{File: "w.go", Caller: "f", Line: 1}}, msg)
}

// TestWorkerDrainsOnStop verifies a graceful stop writes everything queued
func TestWorkerDrainsOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	w, q, stats := createTestWorker(t, nil, path, nil)

	for i := 0; i < 500; i++ {
		q.push(testRecord(LevelInfo, "queued"))
	}
	w.start()
	w.stop(false)

	assert.Len(t, readLines(t, path), 500)
	assert.Equal(t, int64(500), stats.processed.Value())
	assert.True(t, q.empty())
	assert.False(t, w.file.isOpen(), "file closed on exit")
}

// TestWorkerForcedStop verifies queued records are discarded, not written
func TestWorkerForcedStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	w, q, stats := createTestWorker(t, nil, path, nil)

	for i := 0; i < 1000; i++ {
		q.push(testRecord(LevelInfo, "queued"))
	}
	w.discard.Store(true)
	w.start()
	w.stop(true)

	assert.Equal(t, int64(1000), stats.discarded.Value()+stats.processed.Value())
	assert.True(t, q.empty())
}

// TestWorkerSurvivesBadRecord verifies a panicking deferred message is contained
func TestWorkerSurvivesBadRecord(t *testing.T) {
	var diag bytes.Buffer
	var console bytes.Buffer
	w, q, stats := createTestWorker(t, &console, "", &diag)

	h := Header{Level: LevelError, Time: time.Now()}
	q.push(testRecord(LevelInfo, "before"))
	q.push(NewDeferredRecord(h, func() any { panic("boom") }))
	q.push(testRecord(LevelInfo, "after"))
	w.start()
	w.stop(false)

	out := console.String()
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Equal(t, int64(1), stats.failed.Value())
	assert.Equal(t, int64(2), stats.processed.Value())
	assert.Contains(t, diag.String(), "record dropped")
	assert.Contains(t, diag.String(), "boom")
}

// TestWorkerFileErrorIsNonFatal verifies console output continues when the file cannot be opened
func TestWorkerFileErrorIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "w.log")

	var console bytes.Buffer
	w, q, stats := createTestWorker(t, &console, path, nil)

	q.push(testRecord(LevelWarning, "first"))
	w.start()
	require.Eventually(t, func() bool { return stats.ioErrors.Value() == 1 }, time.Second, time.Millisecond)

	// Directory appears, the next record reopens the file
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	q.push(testRecord(LevelWarning, "second"))
	w.stop(false)

	assert.Contains(t, console.String(), "first")
	assert.Contains(t, console.String(), "second")
	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "second"))
	assert.Equal(t, int64(2), stats.processed.Value())
}

// TestWorkerFlushRequest verifies a flush request is served after the queue drains
func TestWorkerFlushRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	w, q, _ := createTestWorker(t, nil, path, nil)
	w.start()
	defer w.stop(false)

	for i := 0; i < 10; i++ {
		q.push(testRecord(LevelInfo, "flush me"))
	}
	require.NoError(t, w.requestFlush(time.Second))
	assert.Len(t, readLines(t, path), 10)
}

// TestWorkerFlushAfterExit returns without waiting on a stopped worker
func TestWorkerFlushAfterExit(t *testing.T) {
	w, _, _ := createTestWorker(t, io.Discard, "", nil)
	w.start()
	w.stop(false)
	assert.ErrorIs(t, w.requestFlush(time.Second), errWorkerStopped)
}

// TestWorkerIdleFlush verifies buffered data reaches the file once the
// interval passes, even when no further record arrives
func TestWorkerIdleFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	mock := clock.NewMock()
	d := newDiagnostics(io.Discard)
	q := newRecordQueue()
	stats := newPipelineStats()
	fw := newFileWriter(path, defaultFlushInterval, mock, new(atomic.Int64))
	w := newWorker(q, nil, fw, time.Millisecond, d, stats)

	q.push(testRecord(LevelInfo, "lonely record"))
	w.start()
	defer w.stop(false)

	require.Eventually(t, func() bool { return stats.processed.Value() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "interval not elapsed")

	mock.Add(defaultFlushInterval + time.Millisecond)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.HasSuffix(string(data), "lonely record"+newline)
	}, time.Second, 5*time.Millisecond)
}

// TestRenderErrorReported verifies a render error is counted and reported
func TestRenderErrorReported(t *testing.T) {
	var diag bytes.Buffer
	w, q, stats := createTestWorker(t, io.Discard, "", &diag)

	r := testRecord(LevelInfo, "x")
	r.kind = payloadKind(99)
	q.push(r)
	w.start()
	w.stop(false)

	assert.Equal(t, int64(1), stats.failed.Value())
	assert.Zero(t, stats.processed.Value())
	assert.Contains(t, diag.String(), "unknown payload kind")
}

// failingWriter fails every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("console gone") }

// TestConsoleErrorIsNonFatal verifies a broken console does not stop file output
func TestConsoleErrorIsNonFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	var diag bytes.Buffer
	w, q, _ := createTestWorker(t, failingWriter{}, path, &diag)

	q.push(testRecord(LevelInfo, "still written"))
	w.start()
	w.stop(false)

	assert.Len(t, readLines(t, path), 1)
	assert.Contains(t, diag.String(), "console output failed")
}
