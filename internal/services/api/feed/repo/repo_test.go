package repo

import (
	"strings"
	"testing"
)

func TestCandidatesQuery(t *testing.T) {
	t.Parallel()

	sql, args, err := CandidatesQuery(20, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{"FROM clusters c", "LEFT JOIN articles a", "t.is_current", "ORDER BY c.created_at DESC, c.id", "LIMIT 20"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("sql missing %q:\n%s", want, sql)
		}
	}
	if len(args) != 0 {
		t.Fatalf("args = %v", args)
	}

	sql, args, err = CandidatesQuery(0, "world")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sql, "c.category = $1") || !strings.Contains(sql, "LIMIT 1") {
		t.Fatalf("sql = %s", sql)
	}
	if len(args) != 1 || args[0] != "world" {
		t.Fatalf("args = %v", args)
	}
}
