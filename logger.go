// FILE: lixenwraith/asynclog/logger.go
package asynclog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Service is the asynchronous logging service. Producers enqueue records
// without blocking; a single worker drains them to the configured sinks.
type Service struct {
	state    atomic.Int32 // State, written under mu
	level    atomic.Int32 // Level, LevelNone disables logging
	queue    *recordQueue
	fileSize atomic.Int64 // bytes in the active file, shared with the file writer

	mu         sync.Mutex
	config     *Config
	worker     *worker
	rollover   *rolloverTimer
	rolling    bool   // a rollover is in progress
	suffix     int    // last used rollover suffix
	basePath   string // configured file path
	activePath string // file currently written, with suffix

	lifeMu  sync.Mutex // serializes ApplyConfig and Close
	flushMu sync.Mutex

	clock         clock.Clock
	consoleWriter io.Writer // overrides console_target when set
	diag          *diagnostics
	stats         *pipelineStats
}

// Option configures collaborators of a Service
type Option func(*Service)

// WithClock sets the clock used for timestamps, flush policy and rollover ticks
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithConsoleWriter sends console output to w instead of the configured target
func WithConsoleWriter(w io.Writer) Option {
	return func(s *Service) {
		s.consoleWriter = w
	}
}

// WithDiagnosticWriter sends self-diagnostics to w instead of stderr
func WithDiagnosticWriter(w io.Writer) Option {
	return func(s *Service) {
		s.diag = newDiagnostics(w)
	}
}

// NewService creates a Service in state Unknown; call Init or ApplyConfig to start it
func NewService(opts ...Option) *Service {
	s := &Service{
		queue:  newRecordQueue(),
		config: DefaultConfig(),
		clock:  clock.New(),
		stats:  newPipelineStats(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diag == nil {
		s.diag = newDiagnostics(os.Stderr)
	}
	return s
}

// Init configures and starts the service. When the service is already
// running the worker is drained and restarted with the new settings.
func (s *Service) Init(level Level, destinations Destination, filePath string, rolloverThresholdBytes int64) error {
	s.mu.Lock()
	cfg := s.config.Clone()
	s.mu.Unlock()

	cfg.Level = level.String()
	cfg.EnableConsole = destinations.Has(ConsoleLog)
	cfg.EnableFile = destinations.Has(FileLog)
	cfg.FilePath = filePath
	cfg.RolloverSizeBytes = rolloverThresholdBytes

	return s.ApplyConfig(cfg)
}

// ApplyConfig validates cfg and (re)starts the service with it
func (s *Service) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("%w: configuration cannot be nil", ErrInvalidConfiguration)
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	cfg = cfg.Clone()

	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.mu.Lock()
	prev := s.State()
	switch prev {
	case StateInitializing, StateClosing:
		s.mu.Unlock()
		return fmtErrorf("%w: cannot initialize while %s", ErrInvalidState, prev)
	}
	s.setState(StateInitializing)
	rt := s.detachRollover()
	s.mu.Unlock()

	if prev == StateInitialized {
		s.diag.info("restarting", "level", cfg.Level, "destinations", cfg.destinations())
		s.stopPipeline(rt, false)
		s.stats.restarts.Inc()
	} else {
		// Nothing queued outside a running generation belongs to this one
		s.stats.discarded.Add(s.queue.discard())
	}

	if err := s.start(cfg); err != nil {
		s.mu.Lock()
		s.setState(StateClosed)
		s.mu.Unlock()
		s.diag.failure("initialization failed", err)
		return err
	}
	return nil
}

// start applies cfg and launches the worker and rollover timer; state is Initializing
func (s *Service) start(cfg *Config) error {
	s.diag.setEnabled(cfg.Diagnostics)

	path := ""
	if cfg.EnableFile {
		path = filepath.Clean(strings.TrimSpace(cfg.FilePath))
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w: %w", dir, ErrIO, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
	s.level.Store(int32(cfg.level()))
	s.suffix = 0
	s.rolling = false
	s.basePath = path
	s.activePath = path
	s.fileSize.Store(0)

	s.worker = s.newWorker(cfg, path)
	s.worker.start()

	if cfg.EnableFile && cfg.RolloverSizeBytes > 0 {
		s.rollover = s.startRollover(cfg.rolloverCheck())
	}

	s.setState(StateInitialized)
	s.diag.debug("initialized", "level", cfg.Level, "destinations", cfg.destinations(), "path", path)
	return nil
}

// newWorker builds a worker for cfg writing to path; mu held
func (s *Service) newWorker(cfg *Config, path string) *worker {
	var cw *consoleWriter
	if cfg.EnableConsole {
		cw = newConsoleWriter(s.consoleTarget(cfg))
	}
	var fw *fileWriter
	if cfg.EnableFile {
		fw = newFileWriter(path, cfg.flushInterval(), s.clock, &s.fileSize)
	}
	return newWorker(s.queue, cw, fw, cfg.idleWait(), s.diag, s.stats)
}

func (s *Service) consoleTarget(cfg *Config) io.Writer {
	if s.consoleWriter != nil {
		return s.consoleWriter
	}
	if cfg.ConsoleTarget == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// SetLogLevel changes the filter level for records logged from now on
func (s *Service) SetLogLevel(level Level) error {
	if level < LevelNone || level > LevelCritical {
		return fmtErrorf("%w: unknown level %d", ErrInvalidConfiguration, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateInitialized {
		return fmtErrorf("%w: cannot set level while %s", ErrNotInitialized, s.State())
	}
	s.level.Store(int32(level))
	s.config.Level = level.String()
	return nil
}

// Close stops the service. Without force every queued record is written
// before Close returns; with force queued records are dropped.
// Close always leaves the service Closed.
func (s *Service) Close(force bool) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.mu.Lock()
	st := s.State()
	if st == StateClosing || st == StateClosed {
		s.mu.Unlock()
		s.diag.warn("close ignored", "error", fmtErrorf("%w: already %s", ErrInvalidState, st))
		return
	}
	s.setState(StateClosing)
	rt := s.detachRollover()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.diag.failure("close failed", fmtErrorf("panic: %v", p))
		}
		s.mu.Lock()
		s.setState(StateClosed)
		s.mu.Unlock()
		s.diag.debug("closed", "force", force)
	}()

	s.stopPipeline(rt, force)

	// Records that raced the worker's exit are not carried into a later Init
	s.stats.discarded.Add(s.queue.discard())
}

// stopPipeline stops the rollover timer, then the worker it may have replaced
func (s *Service) stopPipeline(rt *rolloverTimer, force bool) {
	if rt != nil {
		rt.stop()
	}

	s.mu.Lock()
	w := s.worker
	s.worker = nil
	s.mu.Unlock()

	if w != nil {
		w.stop(force)
		return
	}

	// No consumer to drain into
	s.stats.discarded.Add(s.queue.discard())
}

// detachRollover takes the running rollover timer out of the service; mu held
func (s *Service) detachRollover() *rolloverTimer {
	rt := s.rollover
	s.rollover = nil
	return rt
}

// Flush waits until queued records are written and the file is synced to storage.
// A worker replaced by a rollover while the call waits is followed to its successor.
func (s *Service) Flush(timeout time.Duration) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	deadline := time.Now().Add(timeout)
	for {
		s.mu.Lock()
		w := s.worker
		st := s.State()
		s.mu.Unlock()

		if st != StateInitialized {
			return fmtErrorf("%w: cannot flush while %s", ErrNotInitialized, st)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmtErrorf("timeout waiting for flush (%v)", timeout)
		}

		if w != nil {
			err := w.requestFlush(remaining)
			if !errors.Is(err, errWorkerStopped) {
				return err
			}
		}
		// Rollover in progress
		time.Sleep(defaultIdleWait)
	}
}

// Log enqueues r when its level passes the filter and the service is
// Initialized. It never blocks and never fails.
func (s *Service) Log(r *Record) {
	if r == nil {
		return
	}
	if s.admit(r.Level) {
		s.enqueue(r)
	}
}

// admit applies the level filter and the state gate, counting rejections
func (s *Service) admit(level Level) bool {
	min := Level(s.level.Load())
	if min == LevelNone || level < min {
		s.stats.filtered.Inc()
		return false
	}
	if s.State() != StateInitialized {
		s.stats.rejected.Inc()
		return false
	}
	return true
}

func (s *Service) enqueue(r *Record) {
	s.queue.push(r)
	s.stats.enqueued.Inc()
}

// Enabled reports whether a record of level would currently be accepted
func (s *Service) Enabled(level Level) bool {
	min := Level(s.level.Load())
	return min != LevelNone && level >= min && s.State() == StateInitialized
}

// State returns the current lifecycle state
func (s *Service) State() State {
	return State(s.state.Load())
}

// GetConfig returns a copy of the current configuration
func (s *Service) GetConfig() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

// setState records a transition; mu held
func (s *Service) setState(st State) {
	s.state.Store(int32(st))
}
