// FILE: state.go
package asynclog

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// pipelineStats holds the running counters of a Service.
// Producer-side counters are striped to stay contention-free.
type pipelineStats struct {
	enqueued  *xsync.Counter
	filtered  *xsync.Counter
	rejected  *xsync.Counter
	processed *xsync.Counter
	failed    *xsync.Counter
	discarded *xsync.Counter
	ioErrors  *xsync.Counter
	rollovers *xsync.Counter
	restarts  *xsync.Counter
}

func newPipelineStats() *pipelineStats {
	return &pipelineStats{
		enqueued:  xsync.NewCounter(),
		filtered:  xsync.NewCounter(),
		rejected:  xsync.NewCounter(),
		processed: xsync.NewCounter(),
		failed:    xsync.NewCounter(),
		discarded: xsync.NewCounter(),
		ioErrors:  xsync.NewCounter(),
		rollovers: xsync.NewCounter(),
		restarts:  xsync.NewCounter(),
	}
}

// Stats is a point-in-time snapshot of pipeline counters
type Stats struct {
	State      State
	Level      Level
	FilePath   string // active file, including rollover suffix
	FileSize   int64  // bytes written to the active file
	QueueDepth int64

	Enqueued  int64 // accepted by the level filter and queued
	Filtered  int64 // below the configured level
	Rejected  int64 // arrived while not Initialized
	Processed int64 // emitted to the sinks
	Failed    int64 // dropped by a render or processing failure
	Discarded int64 // dropped by a forced close
	IOErrors  int64
	Rollovers int64
	Restarts  int64
}

// Stats returns a snapshot of the service counters
func (s *Service) Stats() Stats {
	s.mu.Lock()
	path := s.activePath
	s.mu.Unlock()

	return Stats{
		State:      s.State(),
		Level:      Level(s.level.Load()),
		FilePath:   path,
		FileSize:   s.fileSize.Load(),
		QueueDepth: s.queue.len(),
		Enqueued:   s.stats.enqueued.Value(),
		Filtered:   s.stats.filtered.Value(),
		Rejected:   s.stats.rejected.Value(),
		Processed:  s.stats.processed.Value(),
		Failed:     s.stats.failed.Value(),
		Discarded:  s.stats.discarded.Value(),
		IOErrors:   s.stats.ioErrors.Value(),
		Rollovers:  s.stats.rollovers.Value(),
		Restarts:   s.stats.restarts.Value(),
	}
}
