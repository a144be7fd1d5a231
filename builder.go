// FILE: lixenwraith/asynclog/builder.go
package asynclog

// Builder provides a fluent API for building service configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Service and starts it with the built configuration.
func (b *Builder) Build() (*Service, error) {
	if b.err != nil {
		return nil, b.err
	}

	svc := NewService(b.opts...)

	// ApplyConfig handles validation and startup
	if err := svc.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return svc, nil
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Level sets the filter level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the filter level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal.String()
	return b
}

// Destinations enables exactly the given sinks.
func (b *Builder) Destinations(d Destination) *Builder {
	b.cfg.EnableConsole = d.Has(ConsoleLog)
	b.cfg.EnableFile = d.Has(FileLog)
	return b
}

// EnableConsole toggles console output.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// File enables file output to path.
func (b *Builder) File(path string) *Builder {
	b.cfg.EnableFile = true
	b.cfg.FilePath = path
	return b
}

// RolloverSizeBytes sets the file size that triggers a rollover, 0 disables.
func (b *Builder) RolloverSizeBytes(size int64) *Builder {
	b.cfg.RolloverSizeBytes = size
	return b
}

// RolloverSizeMB sets the rollover threshold in MB. Convenience.
func (b *Builder) RolloverSizeMB(size int64) *Builder {
	b.cfg.RolloverSizeBytes = size * 1024 * 1024
	return b
}

// RolloverCheckMs sets the rollover check interval.
func (b *Builder) RolloverCheckMs(ms int64) *Builder {
	b.cfg.RolloverCheckMs = ms
	return b
}

// FlushIntervalMs sets the minimum time between file flushes.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// IdleWaitMs sets the worker back-off on an empty queue.
func (b *Builder) IdleWaitMs(ms int64) *Builder {
	b.cfg.IdleWaitMs = ms
	return b
}

// Diagnostics enables self-diagnostic output.
func (b *Builder) Diagnostics(enable bool) *Builder {
	b.cfg.Diagnostics = enable
	return b
}

// WithOptions passes collaborators to the built service.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Example usage:
// svc, err := asynclog.NewBuilder().
//
//	LevelString("debug").
//	File("/var/log/app/app.log").
//	RolloverSizeMB(10).
//	EnableConsole(true).
//	Build()
//
// if err == nil {
//
//	 defer svc.Close(false)
//	 svc.Info("service initialized successfully")
//
// }
