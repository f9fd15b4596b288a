// Package config reads service configuration from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"insightbff/internal/core/langtag"
	"insightbff/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "TEXTCACHE_", "FEED_")
// Use New() for global access, or Prefix("FEED_") for module scopes
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// get returns the trimmed value and the fully-qualified key
func (c Conf) get(k string) (string, string) {
	full := c.key(k)
	return strings.TrimSpace(os.Getenv(full)), full
}

func (c Conf) warnDefault(key, value string, def any, what string) {
	logger.Get().Warn().Str("key", key).Str("value", value).Interface("default", def).Msg("invalid " + what + "; using default")
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v, k := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return v
}

// MustDuration panics if the given key is missing or not a valid duration
func (c Conf) MustDuration(key string) time.Duration {
	s := c.MustString(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid duration (e.g., 250ms, 2s, 1h)")
	}
	return d
}

// Require ensures that all given keys are present (non-empty). Panics otherwise
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.MustString(k)
	}
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v, _ := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.warnDefault(k, s, def, "int")
		return def
	}
	return v
}

// MayPositiveInt is MayInt that also rejects zero and negatives
func (c Conf) MayPositiveInt(key string, def int) int {
	v := c.MayInt(key, def)
	if v <= 0 {
		s, k := c.get(key)
		c.warnDefault(k, s, def, "positive int")
		return def
	}
	return v
}

// MayFloat64 returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.warnDefault(k, s, def, "float64")
		return def
	}
	return v
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.warnDefault(k, s, def, "bool")
		return def
	}
	return v
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
// or not positive
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		c.warnDefault(k, s, def, "duration")
		return def
	}
	return d
}

// MayCSV returns the non-empty comma-separated items; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s, _ := c.get(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lowercased value when it is one of allowed, def when empty,
// and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := strings.ToLower(c.MayString(key, def))
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// MayLang returns the canonical BCP-47 form of the value; def if missing or not a tag
func (c Conf) MayLang(key, def string) string {
	s, k := c.get(key)
	if s == "" {
		return def
	}
	tag, err := langtag.Normalize(s)
	if err != nil {
		c.warnDefault(k, s, def, "language tag")
		return def
	}
	return tag
}
