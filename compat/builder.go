package compat

import (
	"fmt"

	"github.com/lixenwraith/asynclog"
)

// Builder creates framework adapters that share one asynclog.Service.
// It can use an existing service or start a new one from a *asynclog.Config.
type Builder struct {
	service *asynclog.Service
	cfg     *asynclog.Config
	opts    []asynclog.Option
	err     error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithService specifies an existing service to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithService(s *asynclog.Service) *Builder {
	if s == nil {
		b.err = fmt.Errorf("asynclog/compat: provided service cannot be nil")
		return b
	}
	b.service = s
	return b
}

// WithConfig provides a configuration for a new service instance.
// If neither WithService nor WithConfig is used, a default service is started.
func (b *Builder) WithConfig(cfg *asynclog.Config, opts ...asynclog.Option) *Builder {
	b.cfg = cfg
	b.opts = opts
	return b
}

// getService resolves the service to be used, creating one if necessary
func (b *Builder) getService() (*asynclog.Service, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.service != nil {
		return b.service, nil
	}

	s := asynclog.NewService(b.opts...)
	cfg := b.cfg
	if cfg == nil {
		cfg = asynclog.DefaultConfig()
	}

	if err := s.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	// Cache the new service for subsequent builds with this builder
	b.service = s
	return s, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	s, err := b.getService()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(s, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	s, err := b.getService()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(s, opts...), nil
}

// GetService returns the underlying service, starting one if needed
func (b *Builder) GetService() (*asynclog.Service, error) {
	return b.getService()
}

// Example usage:
//
//	svc := asynclog.NewService()
//	if err := svc.Init(asynclog.LevelDebug, asynclog.ConsoleLog|asynclog.FileLog, "/var/log/app/app.log", 0); err != nil {
//		panic(err)
//	}
//	defer svc.Close(false)
//
//	builder := compat.NewBuilder().WithService(svc)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
