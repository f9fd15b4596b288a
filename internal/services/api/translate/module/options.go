package module

import (
	"time"

	"insightbff/internal/platform/config"
)

// Options bounds the batch endpoint
type Options struct {
	MaxIDs      int
	Concurrency int
	ItemTimeout time.Duration
	RPS         float64
	Burst       int
}

// FromConfig reads BATCH_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("BATCH_")
	return Options{
		MaxIDs:      c.MayPositiveInt("MAX_IDS", 50),
		Concurrency: c.MayPositiveInt("CONCURRENCY", 4),
		ItemTimeout: c.MayDuration("ITEM_TIMEOUT", 15*time.Second),
		RPS:         c.MayFloat64("RPS", 2),
		Burst:       c.MayPositiveInt("BURST", 4),
	}
}
