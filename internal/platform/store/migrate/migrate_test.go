package migrate

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestDriverURL(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"postgres://u:p@h:5432/db?sslmode=disable", "pgx5://u:p@h:5432/db?sslmode=disable"},
		{"postgresql://h/db", "pgx5://h/db"},
		{"pgx5://h/db", "pgx5://h/db"},
	}
	for _, tc := range cases {
		if got := DriverURL(tc.in); got != tc.want {
			t.Fatalf("DriverURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmbeddedFiles_PairedUpToLatest(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(Files(), "sql")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for v := uint(1); v <= LatestVersion; v++ {
		prefix := fmt.Sprintf("%06d_", v)
		var up, down bool
		for n := range names {
			if !strings.HasPrefix(n, prefix) {
				continue
			}
			up = up || strings.HasSuffix(n, ".up.sql")
			down = down || strings.HasSuffix(n, ".down.sql")
		}
		if !up || !down {
			t.Fatalf("version %d missing up/down pair (up=%v down=%v)", v, up, down)
		}
	}
	if len(names) != int(2*LatestVersion) {
		t.Fatalf("found %d files, want %d; bump LatestVersion with new migrations", len(names), 2*LatestVersion)
	}
}

func TestInitSchema_HasCurrentRowIndex(t *testing.T) {
	t.Parallel()

	b, err := fs.ReadFile(Files(), "sql/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read init: %v", err)
	}
	if !strings.Contains(string(b), "WHERE is_current") {
		t.Fatal("init schema lost the partial unique index on current rows")
	}
}

func TestApply_BadURL(t *testing.T) {
	t.Parallel()

	if _, err := Up("nosuchscheme://x", nopLog()); err == nil {
		t.Fatal("expected error for unknown driver scheme")
	}
}
