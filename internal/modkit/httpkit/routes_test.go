package httpkit

import (
	"net/http"
	"testing"
)

func noop(next http.Handler) http.Handler { return next }

func TestMountUnder_AppliesMiddleware(t *testing.T) {
	f := &fakeRouter{}
	called := false
	MountUnder(f, "/feed", []func(http.Handler) http.Handler{noop, noop}, func(Router) { called = true })

	if !called || f.mws != 2 || len(f.prefixes) != 1 || f.prefixes[0] != "/feed" {
		t.Fatalf("called=%v mws=%d prefixes=%v", called, f.mws, f.prefixes)
	}
}

func TestMountAPI_Versions(t *testing.T) {
	cases := []struct{ version, want string }{
		{"v1", "/api/v1"},
		{"/v2", "/api/v2"},
	}
	for _, tc := range cases {
		f := &fakeRouter{}
		MountAPI(f, tc.version, nil, func(Router) {})
		if len(f.prefixes) != 1 || f.prefixes[0] != tc.want {
			t.Fatalf("MountAPI(%q) prefixes = %v", tc.version, f.prefixes)
		}
		if f.mws != 0 {
			t.Fatal("no middleware expected")
		}
	}

	f := &fakeRouter{}
	MountAPIV1(f, []func(http.Handler) http.Handler{noop}, func(Router) {})
	if f.prefixes[0] != "/api/v1" || f.mws != 1 {
		t.Fatalf("MountAPIV1 prefixes=%v mws=%d", f.prefixes, f.mws)
	}
}
