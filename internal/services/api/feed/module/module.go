// Package module wires the feed into the API using modkit
package module

import (
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/api/feed/domain"
	feedhttp "insightbff/internal/services/api/feed/http"
	feedrepo "insightbff/internal/services/api/feed/repo"
	feedsvc "insightbff/internal/services/api/feed/service"
)

// Needs are the ports the feed consumes from the resolver and the queue;
// hand them in with modkit.WithPorts
type Needs struct {
	feedsvc.Ports
	PivotLang string
}

// Ports holds the ports exposed by the feed module
type Ports struct {
	Feed domain.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the feed module; it panics when Needs were not injected
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.Build([]modkit.Option{modkit.WithName("feed"), modkit.WithPrefix("/feed")}, opts...)}

	needs, ok := m.InjectedPorts().(Needs)
	if !ok {
		panic("feed module requires modkit.WithPorts(module.Needs{...})")
	}
	svc := feedsvc.New(deps.PG, feedrepo.NewPG(), needs.Ports, feedsvc.Config{
		DefaultLimit:         o.DefaultLimit,
		MaxLimit:             o.MaxLimit,
		StrictMaxLimit:       o.StrictMaxLimit,
		StrictBudget:         o.StrictBudget,
		StrictItemTimeout:    o.StrictItemTimeout,
		StrictRelaxedTimeout: o.StrictRelaxedTimeout,
		Concurrency:          o.Concurrency,
	}, deps.Log.With().Str("component", "feed").Logger())

	m.ports = Ports{Feed: svc}
	m.Bind(func(r httpkit.Router) { feedhttp.Register(r, svc, needs.PivotLang) })
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
