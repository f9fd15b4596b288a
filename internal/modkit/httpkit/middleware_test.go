package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func applyStack(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_HealthEndpoint(t *testing.T) {
	root := applyStack(http.NotFoundHandler(), CommonStack(StackOptions{}))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /health to be 200, got %d", rr.Code)
	}
}

func TestCommonStack_RequestReachesHandler(t *testing.T) {
	hit := 0
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit++
		w.WriteHeader(http.StatusNoContent)
	})
	root := applyStack(final, CommonStack(StackOptions{CORSOrigins: []string{"https://reader.example"}}))

	req := httptest.NewRequest(http.MethodGet, "/feed/", nil)
	req.Header.Set("Origin", "https://reader.example")
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)

	if hit != 1 {
		t.Fatalf("expected final handler to be called once, got %d", hit)
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from final handler, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://reader.example" {
		t.Fatalf("cors origin header = %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCommonStack_ThrottleOnlyWhenBounded(t *testing.T) {
	base := len(CommonStack(StackOptions{}))
	if got := len(CommonStack(StackOptions{MaxInFlight: 8})); got != base+1 {
		t.Fatalf("bounded stack = %d, want %d", got, base+1)
	}
}
