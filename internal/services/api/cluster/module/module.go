// Package module wires single cluster reads into the API using modkit
package module

import (
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/api/cluster/domain"
	clusterhttp "insightbff/internal/services/api/cluster/http"
	clusterrepo "insightbff/internal/services/api/cluster/repo"
	clustersvc "insightbff/internal/services/api/cluster/service"
	rdom "insightbff/internal/services/resolver/domain"
)

// Needs are the resolver ports the module consumes; hand them in with modkit.WithPorts
type Needs struct {
	Ensure    rdom.EnsurePort
	PivotLang string
}

// Ports holds the ports exposed by the cluster module
type Ports struct {
	Cluster domain.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the cluster module; it panics when Needs were not injected
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.Build([]modkit.Option{modkit.WithName("cluster"), modkit.WithPrefix("/cluster")}, opts...)}

	needs, ok := m.InjectedPorts().(Needs)
	if !ok {
		panic("cluster module requires modkit.WithPorts(module.Needs{...})")
	}
	svc := clustersvc.New(deps.PG, clusterrepo.NewPG(), needs.Ensure, o.MetaTimeout,
		deps.Log.With().Str("component", "cluster").Logger())

	m.ports = Ports{Cluster: svc}
	m.Bind(func(r httpkit.Router) { clusterhttp.Register(r, svc, needs.PivotLang) })
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
