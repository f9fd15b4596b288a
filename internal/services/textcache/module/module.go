// Package module wires the text cache and exposes its ports
package module

import (
	"insightbff/internal/adapters/llm"
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/modkit/repokit"
	"insightbff/internal/services/textcache/domain"
	"insightbff/internal/services/textcache/repo"
	"insightbff/internal/services/textcache/service"
)

// Ports holds the ports exposed by the text cache module
type Ports struct {
	Translator domain.Translator
	// Events is nil unless ClickHouse is configured
	Events domain.WorkerPort
}

// Module is the worker-only text cache module
type Module struct {
	ports   Ports
	persist string
}

// New builds the cache over provider, picking the persistent tier from options
// and the available stores; a tier whose store is missing degrades to memory only
func New(deps modkit.Deps, provider llm.Provider, opts Options) *Module {
	log := deps.Log.With().Str("component", "textcache").Logger()

	so := []service.Option{service.WithLogger(log)}

	persist := opts.Persist
	switch {
	case persist == PersistPG && deps.PG != nil:
		so = append(so, service.WithStore(repokit.MustBind(repo.NewPG(), deps.PG)))
	case persist == PersistRedis && deps.KV != nil:
		so = append(so, service.WithStore(repo.NewKV(deps.KV, opts.RedisPrefix)))
	default:
		if persist != PersistNone {
			log.Warn().Str("persist", persist).Msg("persistent tier unavailable, using memory only")
		}
		persist = PersistNone
	}

	var events domain.WorkerPort
	if deps.CH != nil {
		sink := repo.NewCHSink(deps.CH, opts.EventsBuffer, opts.EventsBatch, opts.EventsEvery, log)
		so = append(so, service.WithSink(sink))
		events = sink
	}

	svc := service.New(provider, service.Config{
		ProviderTimeout: opts.ProviderTimeout,
		Retries:         opts.Retries,
		RetryBackoff:    opts.RetryBackoff,
		MinLen:          opts.MinLen,
		ChunkThreshold:  opts.ChunkThreshold,
		ChunkMax:        opts.ChunkMax,
		Capacity:        opts.Capacity,
		FallbackMarker:  opts.FallbackMarker,
		Marker:          opts.Marker,
		StoreTimeout:    opts.StoreTimeout,
		MaxTokens:       opts.MaxTokens,
	}, so...)

	return &Module{ports: Ports{Translator: svc, Events: events}, persist: persist}
}

// Ports returns the module ports (Translator, Events)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "textcache" }

// Persist reports the persistent tier actually in use
func (m *Module) Persist() string { return m.persist }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
