// Package module wires the background persistence queue and exposes its ports
package module

import (
	"time"

	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/platform/config"
	"insightbff/internal/services/persistq/domain"
	"insightbff/internal/services/persistq/service"
	rdom "insightbff/internal/services/resolver/domain"
)

// Options controls the queue
type Options struct {
	Concurrency int
	Buffer      int
	JobTimeout  time.Duration
}

// FromConfig reads PERSISTQ_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("PERSISTQ_")
	return Options{
		Concurrency: c.MayPositiveInt("CONCURRENCY", 1),
		Buffer:      c.MayPositiveInt("BUFFER", 256),
		JobTimeout:  c.MayDuration("JOB_TIMEOUT", 60*time.Second),
	}
}

// Ports holds the ports exposed by the queue module
type Ports struct {
	Worker   domain.WorkerPort
	Enqueuer domain.EnqueuePort
	Stats    domain.StatsPort
}

// Module is the worker-only queue module
type Module struct {
	ports Ports
}

// New constructs the queue; overrides with non-zero fields win over config
func New(deps modkit.Deps, ensure rdom.EnsurePort, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Concurrency != 0 {
		opts.Concurrency = overrides.Concurrency
	}
	if overrides.Buffer != 0 {
		opts.Buffer = overrides.Buffer
	}
	if overrides.JobTimeout != 0 {
		opts.JobTimeout = overrides.JobTimeout
	}

	q := service.New(ensure, service.Config{
		Concurrency: opts.Concurrency,
		Buffer:      opts.Buffer,
		JobTimeout:  opts.JobTimeout,
	}, deps.Log)
	return &Module{ports: Ports{Worker: q, Enqueuer: q, Stats: q}}
}

// Ports returns the module ports (Worker, Enqueuer, Stats)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "persistq" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
