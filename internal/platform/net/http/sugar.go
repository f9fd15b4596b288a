package http

import "net/http"

// PostJSON mounts a handler whose body is bound and validated as T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}
