package net_test

import (
	"errors"
	"net/http"
	"testing"

	perr "insightbff/internal/platform/errors"
	pnet "insightbff/internal/platform/net"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error -> 200", nil, http.StatusOK},
		{"generic error -> 500", errors.New("boom"), http.StatusInternalServerError},
		{"not found -> 404", perr.NotFoundf("cluster %s", "c1"), http.StatusNotFound},
		{"rate limited -> 429", perr.TooManyRequestsf("slow down"), http.StatusTooManyRequests},
		{"bad lang -> 422", perr.InvalidArgf("lang"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pnet.HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("want %d got %d", tt.want, got)
			}
		})
	}
}
