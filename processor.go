// --- File: processor.go ---
package asynclog

import (
	"fmt"
	"sync/atomic"
	"time"
)

// worker is one generation of the single queue consumer. A Service runs at
// most one worker; rollover and restart replace it with a fresh one.
type worker struct {
	queue    *recordQueue
	console  *consoleWriter // nil when console output is off
	file     *fileWriter    // nil when file output is off
	idleWait time.Duration
	diag     *diagnostics
	stats    *pipelineStats

	running  atomic.Bool
	discard  atomic.Bool
	flushReq chan chan error
	done     chan struct{}
}

func newWorker(q *recordQueue, console *consoleWriter, file *fileWriter, idleWait time.Duration, diag *diagnostics, stats *pipelineStats) *worker {
	if idleWait <= 0 {
		idleWait = defaultIdleWait
	}
	return &worker{
		queue:    q,
		console:  console,
		file:     file,
		idleWait: idleWait,
		diag:     diag,
		stats:    stats,
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
	}
}

// start launches the processing goroutine
func (w *worker) start() {
	w.running.Store(true)
	go w.run()
}

// stop signals the loop and waits for it to exit. Unless force is set the
// queue is drained first; with force queued records are dropped.
func (w *worker) stop(force bool) {
	if force {
		w.discard.Store(true)
	}
	w.running.Store(false)
	<-w.done
}

// run is the main processing loop; it keeps going until stopped and the queue is empty
func (w *worker) run() {
	defer close(w.done)
	defer w.closeFile()
	defer func() {
		if p := recover(); p != nil {
			w.diag.failure("worker loop aborted", fmt.Errorf("%v", p))
		}
	}()

	for w.running.Load() || !w.queue.empty() {
		if w.discard.Load() {
			if n := w.queue.discard(); n > 0 {
				w.stats.discarded.Add(n)
			}
		}

		r := w.queue.pop()
		if r == nil {
			w.idle()
			continue
		}
		w.process(r)
	}
}

// idle serves a pending flush request, applies the flush interval to data
// still buffered, or backs off for the idle wait
func (w *worker) idle() {
	select {
	case ack := <-w.flushReq:
		ack <- w.flushFile()
	default:
		if w.file != nil && w.file.flushDue() {
			if err := w.flushFile(); err != nil {
				w.diag.failure("file output skipped", err, "path", w.file.path)
			}
		}
		time.Sleep(w.idleWait)
	}
}

// process renders one record and emits it to the enabled sinks.
// Failures are contained to the record.
func (w *worker) process(r *Record) {
	defer func() {
		if p := recover(); p != nil {
			w.stats.failed.Inc()
			w.diag.failure("record dropped", fmt.Errorf("panic: %v", p), "level", r.Level)
		}
	}()

	line, err := r.Render()
	if err != nil {
		w.stats.failed.Inc()
		w.diag.failure("record dropped", err, "level", r.Level)
		return
	}

	if w.console != nil {
		if err := w.console.write(r.Level, line); err != nil {
			w.diag.failure("console output failed", err)
		}
	}

	if w.file != nil {
		if err := w.file.write(line); err != nil {
			w.stats.ioErrors.Inc()
			w.diag.failure("file output skipped", err, "path", w.file.path)
		}
	}

	w.stats.processed.Inc()
}

// flushFile syncs the file sink, if any
func (w *worker) flushFile() error {
	if w.file == nil {
		return nil
	}
	if err := w.file.flush(); err != nil {
		w.stats.ioErrors.Inc()
		_ = w.file.close()
		return err
	}
	return nil
}

// closeFile releases the file handle on loop exit
func (w *worker) closeFile() {
	if w.file == nil {
		return
	}
	if err := w.file.close(); err != nil {
		w.stats.ioErrors.Inc()
		w.diag.failure("failed to close log file", err, "path", w.file.path)
	}
}

// requestFlush asks the loop to flush once the queue has been drained and
// waits for the result or the timeout
func (w *worker) requestFlush(timeout time.Duration) error {
	ack := make(chan error, 1)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case w.flushReq <- ack:
	case <-w.done:
		return errWorkerStopped
	case <-timer.C:
		return fmtErrorf("timeout waiting for queue to drain before flush (%v)", timeout)
	}

	select {
	case err := <-ack:
		return err
	case <-timer.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}
