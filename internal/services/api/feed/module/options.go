package module

import (
	"time"

	"insightbff/internal/platform/config"
)

// Options tunes feed paging and the strict mode budget
type Options struct {
	DefaultLimit         int
	MaxLimit             int
	StrictMaxLimit       int
	StrictBudget         time.Duration
	StrictItemTimeout    time.Duration
	StrictRelaxedTimeout time.Duration
	Concurrency          int
}

// FromConfig reads FEED_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("FEED_")
	return Options{
		DefaultLimit:         c.MayPositiveInt("DEFAULT_LIMIT", 20),
		MaxLimit:             c.MayPositiveInt("MAX_LIMIT", 50),
		StrictMaxLimit:       c.MayPositiveInt("STRICT_MAX_LIMIT", 10),
		StrictBudget:         c.MayDuration("STRICT_BUDGET", 8*time.Second),
		StrictItemTimeout:    c.MayDuration("STRICT_ITEM_TIMEOUT", 3*time.Second),
		StrictRelaxedTimeout: c.MayDuration("STRICT_RELAXED_TIMEOUT", 6*time.Second),
		Concurrency:          c.MayPositiveInt("STRICT_CONCURRENCY", 4),
	}
}
