// Package module wires batch translation into the API using modkit
package module

import (
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/api/translate/domain"
	translatehttp "insightbff/internal/services/api/translate/http"
	translatesvc "insightbff/internal/services/api/translate/service"
	rdom "insightbff/internal/services/resolver/domain"
)

// Needs are the resolver ports the module consumes; hand them in with modkit.WithPorts
type Needs struct {
	Ensure    rdom.EnsurePort
	PivotLang string
}

// Ports holds the ports exposed by the translate module
type Ports struct {
	Batch domain.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the translate module; it panics when Needs were not injected
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.Build([]modkit.Option{modkit.WithName("translate"), modkit.WithPrefix("/translate")}, opts...)}

	needs, ok := m.InjectedPorts().(Needs)
	if !ok {
		panic("translate module requires modkit.WithPorts(module.Needs{...})")
	}
	svc := translatesvc.New(needs.Ensure, translatesvc.Config{
		MaxIDs:      o.MaxIDs,
		Concurrency: o.Concurrency,
		ItemTimeout: o.ItemTimeout,
		RPS:         o.RPS,
		Burst:       o.Burst,
	}, deps.Log.With().Str("component", "translate").Logger())

	m.ports = Ports{Batch: svc}
	m.Bind(func(r httpkit.Router) { translatehttp.Register(r, svc, needs.PivotLang) })
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
