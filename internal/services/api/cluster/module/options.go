package module

import (
	"time"

	"insightbff/internal/platform/config"
)

// Options tunes the cluster endpoint
type Options struct {
	MetaTimeout time.Duration
}

// FromConfig reads CLUSTER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	return Options{MetaTimeout: cfg.Prefix("CLUSTER_").MayDuration("META_TIMEOUT", 2*time.Second)}
}
