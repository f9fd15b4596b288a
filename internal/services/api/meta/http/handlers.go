// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"reflect"
	"time"

	"insightbff/internal/core/version"
	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/platform/store"
	pqdom "insightbff/internal/services/persistq/domain"
	tcdom "insightbff/internal/services/textcache/domain"
)

// Check is one dependency probed by /ready; a nil seam is reported as skipped
type Check struct {
	Name string
	Seam any
}

// ResolverStats reports resolutions currently running
type ResolverStats interface {
	InFlight() int64
	PivotLang() string
}

// Deps are the handler dependencies; the stats sources are optional
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Checks       []Check
	ReadyTimeout time.Duration
	Cache        interface{ Metrics() tcdom.Snapshot }
	Queue        pqdom.StatsPort
	Resolver     ResolverStats
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/cache", h.cache)
}

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"insight-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
	Now     string `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// CacheResponse reports translation activity
type CacheResponse struct {
	Text      *tcdom.Snapshot `json:"text,omitempty"`
	Queue     *pqdom.Stats    `json:"queue,omitempty"`
	InFlight  int64           `json:"in_flight"            example:"2"`
	PivotLang string          `json:"pivot_lang,omitempty" example:"en"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, 0, len(h.deps.Checks))
	overall := "ok"
	for _, c := range h.deps.Checks {
		rc := probe(ctx, c)
		switch {
		case rc.Status == "fail":
			overall = "fail"
		case rc.Status != "ok" && overall == "ok":
			overall = "degraded"
		}
		checks = append(checks, rc)
	}
	return ReadyResponse{Status: overall, Checks: checks, Now: h.now().UTC().Format(time.RFC3339)}, nil
}

func probe(ctx context.Context, c Check) ReadyCheck {
	if isNil(c.Seam) {
		return ReadyCheck{Name: c.Name, Status: "skipped"}
	}
	p, ok := c.Seam.(store.Pinger)
	if !ok {
		return ReadyCheck{Name: c.Name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: c.Name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: c.Name, Status: "ok"}
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/cache Meta metaCache
// @Summary Text cache counters, queue depth and in-flight resolutions
// @Tags Meta
// @Produce json
// @Success 200 {object} CacheResponse "ok"
// @Router /meta/cache [get]
func (h *handlers) cache(_ *http.Request) (any, error) {
	var out CacheResponse
	if h.deps.Cache != nil {
		s := h.deps.Cache.Metrics()
		out.Text = &s
	}
	if h.deps.Queue != nil {
		s := h.deps.Queue.Stats()
		out.Queue = &s
	}
	if h.deps.Resolver != nil {
		out.InFlight = h.deps.Resolver.InFlight()
		out.PivotLang = h.deps.Resolver.PivotLang()
	}
	return out, nil
}

// isNil catches typed nil pointers stored in an interface
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
