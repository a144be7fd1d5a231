// FILE: lixenwraith/asynclog/rollover.go
package asynclog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
)

// rolloverTimer periodically checks the active file size
type rolloverTimer struct {
	ticker *clock.Ticker
	quit   chan struct{}
	done   chan struct{}
}

// stop ends the check loop and waits for an in-progress rollover to finish
func (rt *rolloverTimer) stop() {
	close(rt.quit)
	<-rt.done
}

// startRollover launches the size check loop; mu held
func (s *Service) startRollover(interval time.Duration) *rolloverTimer {
	if interval <= 0 {
		interval = defaultRolloverCheck
	}
	rt := &rolloverTimer{
		ticker: s.clock.Ticker(interval),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.runRollover(rt)
	return rt
}

func (s *Service) runRollover(rt *rolloverTimer) {
	defer close(rt.done)
	defer rt.ticker.Stop()

	for {
		select {
		case <-rt.quit:
			return
		case <-rt.ticker.C:
			s.checkRollover()
		}
	}
}

// checkRollover switches to the next suffixed file once the active file has
// grown past the configured threshold. The worker is drained before the switch
// so records are never split between files.
func (s *Service) checkRollover() {
	defer func() {
		if p := recover(); p != nil {
			s.diag.failure("rollover aborted", fmt.Errorf("%v", p))
		}
	}()

	s.mu.Lock()
	if s.rolling || s.State() != StateInitialized || s.worker == nil {
		s.mu.Unlock()
		return
	}
	threshold := s.config.RolloverSizeBytes
	size := s.fileSize.Load()
	if threshold <= 0 || size <= threshold {
		s.mu.Unlock()
		return
	}
	s.rolling = true
	old := s.worker
	s.worker = nil
	base := s.basePath
	next := s.suffix + 1
	cfg := s.config
	s.mu.Unlock()

	old.stop(false)
	nextPath := rolloverPath(base, next)
	err := s.prepareRollover(nextPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolling = false

	// A consumer is always restarted. If Close or Init is waiting on this
	// check it drains the new worker like any other.
	if err != nil {
		s.worker = s.newWorker(cfg, s.activePath)
		s.worker.start()
		s.diag.failure("rollover failed, staying on current file", err, "path", nextPath)
		return
	}

	s.suffix = next
	s.activePath = nextPath
	s.fileSize.Store(0)
	s.worker = s.newWorker(cfg, nextPath)
	s.worker.start()
	s.stats.rollovers.Inc()
	s.diag.info("rolled over", "size", size, "threshold", threshold, "path", nextPath)
}

// prepareRollover makes sure the successor file can be created
func (s *Service) prepareRollover(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmtErrorf("failed to create log directory for '%s': %w: %w", path, ErrIO, err)
	}
	return nil
}

// rolloverPath returns "<base>-<n>"
func rolloverPath(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
