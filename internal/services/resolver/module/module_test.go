package module

import (
	"testing"
	"time"

	"insightbff/internal/modkit"
	"insightbff/internal/platform/config"
	"insightbff/internal/platform/testkit"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("RESOLVER_PIVOT_LANG", "en-us")
	t.Setenv("RESOLVER_ORIGINAL_BODY_TAGS", "raw-body, original-body ,")
	t.Setenv("RESOLVER_STORE_TIMEOUT", "750ms")

	o := FromConfig(config.New())
	if o.PivotLang != "en-US" || o.StoreTimeout != 750*time.Millisecond || o.ModelTag != "llm" {
		t.Fatalf("options = %+v", o)
	}
	if len(o.OriginalBodyTags) != 2 || o.OriginalBodyTags[1] != "original-body" {
		t.Fatalf("tags = %q", o.OriginalBodyTags)
	}
}

func TestNew_RequiresPostgres(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}, nil, Options{}) })
}
