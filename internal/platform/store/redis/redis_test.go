package redis

import (
	"context"
	"testing"
	"time"
)

func TestOpen_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "http://not-redis"}); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}

func TestOpen_UnreachableServerFailsPing(t *testing.T) {
	t.Parallel()

	// port 1 on loopback refuses immediately
	_, err := Open(context.Background(), Config{URL: "redis://127.0.0.1:1/0", PingTimeout: 500 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping failure for closed port")
	}
}
