package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/net/http/bind"

	"github.com/go-chi/chi/v5"
)

// Param returns a trimmed path parameter; an empty value is an invalid argument
func Param(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", perr.WithField(perr.InvalidArgf("%s is required", name), name)
	}
	return v, nil
}

// QueryLang reads ?lang as a canonical BCP-47 tag, def when absent
func QueryLang(r *http.Request, def string) (string, error) {
	return bind.Lang("lang", r.URL.Query().Get("lang"), def)
}

// QueryInt reads a non-negative integer query parameter, def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a non-negative integer", name), name)
	}
	return n, nil
}

// QueryBool reads 1/true/yes/on as true and 0/false/no/off as false
func QueryBool(r *http.Request, name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name))) {
	case "", "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	}
	return false, perr.WithField(perr.InvalidArgf("%s must be a boolean", name), name)
}
