package httpkit

import (
	"net/http"

	phttp "insightbff/internal/platform/net/http"
)

// Get registers a no-body handler behind the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON binds and validates the body as T before calling h
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}
