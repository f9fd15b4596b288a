package module

import (
	"time"

	"insightbff/internal/platform/config"
)

// Options controls the resolver
type Options struct {
	PivotLang        string
	OriginalBodyTags []string
	ModelTag         string
	StoreTimeout     time.Duration
	LockTimeout      time.Duration
}

// FromConfig reads RESOLVER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("RESOLVER_")
	return Options{
		PivotLang:        c.MayLang("PIVOT_LANG", "en"),
		OriginalBodyTags: c.MayCSV("ORIGINAL_BODY_TAGS", []string{"original-body"}),
		ModelTag:         c.MayString("MODEL_TAG", "llm"),
		StoreTimeout:     c.MayDuration("STORE_TIMEOUT", 5*time.Second),
		LockTimeout:      c.MayDuration("LOCK_TIMEOUT", 2*time.Second),
	}
}
