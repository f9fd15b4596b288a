package httpkit

import (
	"net/http"

	phttp "insightbff/internal/platform/net/http"
)

type route struct {
	verb, path string
	h          phttp.Handler
}

// fakeRouter records registrations instead of serving them
type fakeRouter struct {
	prefixes []string
	mws      int
	routes   []route
}

func (f *fakeRouter) Get(p string, h phttp.Handler)     { f.routes = append(f.routes, route{"GET", p, h}) }
func (f *fakeRouter) Post(p string, h phttp.Handler)    { f.routes = append(f.routes, route{"POST", p, h}) }
func (f *fakeRouter) Options(p string, h phttp.Handler) { f.routes = append(f.routes, route{"OPTIONS", p, h}) }
func (f *fakeRouter) Handle(string, http.Handler)       {}
func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.mws += len(mw)
}
func (f *fakeRouter) Group(fn func(Router)) { fn(f) }
func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}
func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }

func (f *fakeRouter) find(verb, path string) phttp.Handler {
	for _, r := range f.routes {
		if r.verb == verb && r.path == path {
			return r.h
		}
	}
	return nil
}
