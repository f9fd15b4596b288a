package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "insightbff/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

func TestQueryLang(t *testing.T) {
	cases := []struct {
		url, want string
		code      perr.ErrorCode
	}{
		{"/feed", "en", 0},
		{"/feed?lang=de-ch", "de-CH", 0},
		{"/feed?lang=%3F%3F", "", perr.ErrorCodeInvalidArgument},
	}
	for _, tc := range cases {
		got, err := QueryLang(httptest.NewRequest(http.MethodGet, tc.url, nil), "en")
		if tc.code != 0 {
			if perr.CodeOf(err) != tc.code {
				t.Fatalf("%s: err = %v, want code %v", tc.url, err, tc.code)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%s: got (%q, %v), want %q", tc.url, got, err, tc.want)
		}
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/feed?limit=12&bad=x&neg=-1", nil)
	if n, err := QueryInt(r, "limit", 20); err != nil || n != 12 {
		t.Fatalf("limit = (%d, %v)", n, err)
	}
	if n, err := QueryInt(r, "missing", 20); err != nil || n != 20 {
		t.Fatalf("missing = (%d, %v)", n, err)
	}
	for _, name := range []string{"bad", "neg"} {
		if _, err := QueryInt(r, name, 0); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestQueryBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/feed?strict=1&off=false&junk=maybe", nil)
	if v, err := QueryBool(r, "strict"); err != nil || !v {
		t.Fatalf("strict = (%v, %v)", v, err)
	}
	if v, err := QueryBool(r, "off"); err != nil || v {
		t.Fatalf("off = (%v, %v)", v, err)
	}
	if v, err := QueryBool(r, "absent"); err != nil || v {
		t.Fatalf("absent = (%v, %v)", v, err)
	}
	if _, err := QueryBool(r, "junk"); err == nil {
		t.Fatal("junk should fail")
	}
}

func TestParam(t *testing.T) {
	mux := chi.NewRouter()
	var got string
	var gotErr error
	mux.Get("/cluster/{id}", func(_ http.ResponseWriter, r *http.Request) {
		got, gotErr = Param(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cluster/c-42", nil))
	if gotErr != nil || got != "c-42" {
		t.Fatalf("Param = (%q, %v)", got, gotErr)
	}

	_, err := Param(httptest.NewRequest(http.MethodGet, "/cluster/", nil), "id")
	if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("missing param err = %v", err)
	}
}
