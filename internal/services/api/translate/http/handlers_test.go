package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "insightbff/internal/platform/errors"
	phttp "insightbff/internal/platform/net/http"
	"insightbff/internal/platform/testkit"
	"insightbff/internal/services/api/translate/domain"
	rdom "insightbff/internal/services/resolver/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	lang string
	ids  []string
	err  error
}

func (f *fakeSvc) Batch(_ context.Context, lang string, ids []string) (domain.BatchResult, error) {
	f.lang, f.ids = lang, ids
	if f.err != nil {
		return domain.BatchResult{}, f.err
	}
	return domain.BatchResult{Results: []rdom.Resolved{{ClusterID: "a", Title: "A"}}, Failed: []string{"b"}}, nil
}

func post(s domain.ServicePort, target, body string) *httptest.ResponseRecorder {
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, s, "en")
	req := httptest.NewRequest(stdhttp.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	return rec
}

func TestBatch_OK(t *testing.T) {
	t.Parallel()

	s := &fakeSvc{}
	rec := post(s, "/batch?lang=de", `{"ids":["a","b"]}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if s.lang != "de" || len(s.ids) != 2 {
		t.Fatalf("svc got lang=%q ids=%v", s.lang, s.ids)
	}
	testkit.MustContain(t, rec.Body.String(), `"failed":["b"]`)
}

func TestBatch_DefaultLang(t *testing.T) {
	t.Parallel()

	s := &fakeSvc{}
	if rec := post(s, "/batch", `{"ids":[]}`); rec.Code != stdhttp.StatusOK || s.lang != "en" {
		t.Fatalf("status=%d lang=%q", rec.Code, s.lang)
	}
}

func TestBatch_Errors(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 200)
	cases := []struct {
		name   string
		target string
		body   string
		err    error
		want   int
	}{
		{"malformed json", "/batch", `{"ids":[`, nil, stdhttp.StatusBadRequest},
		{"unknown field", "/batch", `{"ids":[],"extra":1}`, nil, stdhttp.StatusBadRequest},
		{"id too long", "/batch", `{"ids":["` + long + `"]}`, nil, stdhttp.StatusBadRequest},
		{"bad lang", "/batch?lang=%21%21", `{"ids":["a"]}`, nil, stdhttp.StatusUnprocessableEntity},
		{"rate limited", "/batch", `{"ids":["a"]}`, perr.TooManyRequestsf("slow down"), stdhttp.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if rec := post(&fakeSvc{err: tc.err}, tc.target, tc.body); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
