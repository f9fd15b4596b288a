// Package api wires the service modules and mounts the versioned HTTP API
package api

import (
	"time"

	"insightbff/internal/adapters/llm"
	"insightbff/internal/modkit"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/modkit/module"
	"insightbff/internal/modkit/swaggerkit"
	"insightbff/internal/platform/config"
	phttp "insightbff/internal/platform/net/http"

	clustermod "insightbff/internal/services/api/cluster/module"
	feedmod "insightbff/internal/services/api/feed/module"
	feedsvc "insightbff/internal/services/api/feed/service"
	metamod "insightbff/internal/services/api/meta/module"
	translatemod "insightbff/internal/services/api/translate/module"
	persistqmod "insightbff/internal/services/persistq/module"
	resolvermod "insightbff/internal/services/resolver/module"
	textcachemod "insightbff/internal/services/textcache/module"
)

// Core is the worker side shared by the API and the CLI: the text cache, the
// cluster resolver and the background queue
type Core struct {
	Text     textcachemod.Ports
	Resolver resolvermod.Ports
	Queue    persistqmod.Ports

	mods []module.Module
}

// NewCore builds the worker modules bottom-up over deps
func NewCore(deps modkit.Deps, provider llm.Provider) Core {
	tc := textcachemod.New(deps, provider, textcachemod.FromConfig(deps.Cfg))
	text := module.MustPortsOf[textcachemod.Ports](tc)

	res := resolvermod.New(deps, text.Translator, resolvermod.FromConfig(deps.Cfg))
	resolver := module.MustPortsOf[resolvermod.Ports](res)

	pq := persistqmod.New(deps, resolver.Ensure, persistqmod.Options{})
	queue := module.MustPortsOf[persistqmod.Ports](pq)

	return Core{Text: text, Resolver: resolver, Queue: queue, mods: []module.Module{tc, res, pq}}
}

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Core           Core
	EnableSwagger  bool
	EnableProfiler bool
}

// OptionsFromConfig reads the CORE_API_* switches
func OptionsFromConfig(cfg config.Conf, deps modkit.Deps, core Core) Options {
	c := cfg.Prefix("CORE_API_")
	return Options{
		Deps:           deps,
		Core:           core,
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
	}
}

// Mount mounts the API modules under /api/v1 with the common middleware stack
func Mount(r phttp.Router, opt Options) []module.Module {
	deps, core := opt.Deps, opt.Core
	c := deps.Cfg.Prefix("CORE_API_")
	pivot := core.Resolver.Stats.PivotLang()

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Needs{
			Cache:    core.Text.Translator,
			Queue:    core.Queue.Stats,
			Resolver: core.Resolver.Stats,
		})),
		feedmod.New(deps, feedmod.FromConfig(deps.Cfg), modkit.WithPorts(feedmod.Needs{
			Ports: feedsvc.Ports{
				Ensure:   core.Resolver.Ensure,
				Lookup:   core.Resolver.Lookup,
				Enqueuer: core.Queue.Enqueuer,
			},
			PivotLang: pivot,
		})),
		clustermod.New(deps, clustermod.FromConfig(deps.Cfg), modkit.WithPorts(clustermod.Needs{
			Ensure:    core.Resolver.Ensure,
			PivotLang: pivot,
		})),
		translatemod.New(deps, translatemod.FromConfig(deps.Cfg), modkit.WithPorts(translatemod.Needs{
			Ensure:    core.Resolver.Ensure,
			PivotLang: pivot,
		})),
	}
	mods = append(mods, core.mods...)

	swaggerkit.Mount(r, opt.EnableSwagger, c.MayString("DOCS_TITLE_SUFFIX", ""))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: c.MayCSV("CORS_ORIGINS", nil),
		Slow:        c.MayDuration("SLOW_REQUEST", 2*time.Second),
		Timeout:     c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxInFlight: c.MayInt("MAX_INFLIGHT", 0),
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			deps.Log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})
	return mods
}
