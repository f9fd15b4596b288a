// Package module wires the cluster text resolver and exposes its ports
package module

import (
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/resolver/domain"
	"insightbff/internal/services/resolver/repo"
	"insightbff/internal/services/resolver/service"
)

// Ports holds the ports exposed by the resolver module
type Ports struct {
	Ensure domain.EnsurePort
	Lookup domain.LookupPort
	Stats  StatsPort
}

// StatsPort reports resolver activity
type StatsPort interface {
	InFlight() int64
	PivotLang() string
}

// Module is the worker-only resolver module
type Module struct {
	ports Ports
}

// New builds the resolver over deps.PG and the text cache translator
func New(deps modkit.Deps, tr domain.Translator, opts Options) *Module {
	if deps.PG == nil {
		panic("resolver module requires a Postgres store")
	}
	svc := service.New(deps.PG, repo.NewPG(), tr, service.Config{
		PivotLang:        opts.PivotLang,
		OriginalBodyTags: opts.OriginalBodyTags,
		ModelTag:         opts.ModelTag,
		StoreTimeout:     opts.StoreTimeout,
		LockTimeout:      opts.LockTimeout,
	}, service.WithLogger(deps.Log.With().Str("component", "resolver").Logger()))
	return &Module{ports: Ports{Ensure: svc, Lookup: svc, Stats: svc}}
}

// Ports returns the module ports (Ensure, Lookup, Stats)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "resolver" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
