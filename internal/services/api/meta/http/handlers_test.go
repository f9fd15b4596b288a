package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "insightbff/internal/platform/net/http"
	pqdom "insightbff/internal/services/persistq/domain"
	tcdom "insightbff/internal/services/textcache/domain"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type cache struct{}

func (cache) Metrics() tcdom.Snapshot { return tcdom.Snapshot{ProviderCalls: 3, CacheHits: 7} }

type queue struct{}

func (queue) Stats() pqdom.Stats { return pqdom.Stats{Depth: 2, Processed: 5} }

type resolver struct{}

func (resolver) InFlight() int64   { return 1 }
func (resolver) PivotLang() string { return "en" }

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("%s status = %d body=%s", path, rec.Code, rec.Body.String())
	}
	env := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s decode: %v", path, err)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	var nilPinger *struct{ pinger }
	cases := []struct {
		name   string
		checks []Check
		want   string
	}{
		{"all ok", []Check{{"pg", pinger{}}, {"redis", pinger{}}}, "ok"},
		{"skipped is degraded", []Check{{"pg", pinger{}}, {"clickhouse", nil}}, "degraded"},
		{"typed nil is skipped", []Check{{"pg", pinger{}}, {"redis", nilPinger}}, "degraded"},
		{"no ping is degraded", []Check{{"pg", pinger{}}, {"other", struct{}{}}}, "degraded"},
		{"failure wins", []Check{{"pg", pinger{err: errors.New("refused")}}, {"clickhouse", nil}}, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got ReadyResponse
			get(t, Deps{Checks: tc.checks}, "/ready", &got)
			if got.Status != tc.want || len(got.Checks) != len(tc.checks) {
				t.Fatalf("ready = %+v, want %s", got, tc.want)
			}
		})
	}
}

func TestCache(t *testing.T) {
	t.Parallel()

	var got CacheResponse
	get(t, Deps{Cache: cache{}, Queue: queue{}, Resolver: resolver{}}, "/cache", &got)
	if got.Text == nil || got.Text.CacheHits != 7 || got.Queue == nil || got.Queue.Depth != 2 {
		t.Fatalf("cache = %+v", got)
	}
	if got.InFlight != 1 || got.PivotLang != "en" {
		t.Fatalf("resolver stats = %+v", got)
	}

	var empty CacheResponse
	get(t, Deps{}, "/cache", &empty)
	if empty.Text != nil || empty.Queue != nil {
		t.Fatalf("cache without sources = %+v", empty)
	}
}

func TestHealthAndVersion(t *testing.T) {
	t.Parallel()

	var h HealthResponse
	get(t, Deps{ServiceName: "insight-api", StartedAt: time.Now().Add(-time.Minute)}, "/health", &h)
	if !h.OK || h.Service != "insight-api" || h.Uptime < 59 {
		t.Fatalf("health = %+v", h)
	}

	var v map[string]string
	get(t, Deps{}, "/version", &v)
	if v["service"] != "insight-api" || v["version"] == "" {
		t.Fatalf("version = %v", v)
	}
}
