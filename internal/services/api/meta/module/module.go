// Package module wires meta endpoints into the API
package module

import (
	"time"

	"insightbff/internal/core/version"
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	metahttp "insightbff/internal/services/api/meta/http"
	pqdom "insightbff/internal/services/persistq/domain"
	tcdom "insightbff/internal/services/textcache/domain"
)

// Needs are the optional stats sources shown by /meta/cache
type Needs struct {
	Cache    interface{ Metrics() tcdom.Snapshot }
	Queue    pqdom.StatsPort
	Resolver metahttp.ResolverStats
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs the meta module; stores on deps are probed by /meta/ready
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{
		Base:      modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...),
		startedAt: time.Now(),
	}
	needs, _ := m.InjectedPorts().(Needs)

	m.Bind(func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   m.startedAt,
			Checks: []metahttp.Check{
				{Name: "pg", Seam: deps.PG},
				{Name: "redis", Seam: deps.KV},
				{Name: "clickhouse", Seam: deps.CH},
			},
			Cache:    needs.Cache,
			Queue:    needs.Queue,
			Resolver: needs.Resolver,
		})
	})
	return m
}

// Ports returns nothing; meta is a leaf module
func (m *Module) Ports() any { return nil }
