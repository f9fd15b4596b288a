package modkit

import (
	"net/http"

	"insightbff/internal/modkit/httpkit"
	str "insightbff/internal/platform/strings"
)

// Base carries the mount state every API module shares; embed it and call
// Bind with the module's own route registration
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  any
	extra  []func(httpkit.Router)
	routes func(httpkit.Router)
}

// Build applies Option funcs over the module defaults and returns the shared base
func Build(defaults []Option, opts ...Option) Base {
	var c buildCfg
	for _, o := range append(append([]Option(nil), defaults...), opts...) {
		o(&c)
	}
	return Base{
		name:   c.name,
		prefix: c.prefix,
		mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		ports:  c.ports,
		extra:  append(([]func(httpkit.Router))(nil), c.register...),
	}
}

// Bind sets the module's own route registration
func (b *Base) Bind(routes func(httpkit.Router)) { b.routes = routes }

// MountRoutes mounts the module under its prefix with its middleware
func (b *Base) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, b.Prefix(), b.mw, func(rr httpkit.Router) {
		if b.routes != nil {
			b.routes(rr)
		}
		for _, fn := range b.extra {
			fn(rr)
		}
	})
}

// Name returns the module name
func (b *Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix returns the module route prefix
func (b *Base) Prefix() string { return str.MustPrefix(b.prefix) }

// Middlewares returns the module middlewares
func (b *Base) Middlewares() []func(http.Handler) http.Handler { return b.mw }

// InjectedPorts returns ports handed in through WithPorts
func (b *Base) InjectedPorts() any { return b.ports }
