package module

import (
	"time"

	"insightbff/internal/platform/config"
)

// Persistence tiers for the text cache
const (
	PersistPG    = "pg"
	PersistRedis = "redis"
	PersistNone  = "none"
)

// Options controls the text cache
type Options struct {
	ProviderTimeout time.Duration
	Retries         int
	RetryBackoff    time.Duration
	MinLen          int
	ChunkThreshold  int
	ChunkMax        int
	Capacity        int
	FallbackMarker  bool
	Marker          string
	StoreTimeout    time.Duration
	MaxTokens       int // 0 keeps the provider limit

	Persist     string
	RedisPrefix string

	EventsBuffer int
	EventsBatch  int
	EventsEvery  time.Duration
}

// FromConfig reads TEXTCACHE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("TEXTCACHE_")
	return Options{
		ProviderTimeout: c.MayDuration("PROVIDER_TIMEOUT", 20*time.Second),
		Retries:         c.MayInt("RETRIES", 2),
		RetryBackoff:    c.MayDuration("RETRY_BACKOFF", 500*time.Millisecond),
		MinLen:          c.MayPositiveInt("MIN_LEN", 2),
		ChunkThreshold:  c.MayPositiveInt("CHUNK_THRESHOLD", 1800),
		ChunkMax:        c.MayPositiveInt("CHUNK_MAX", 1200),
		Capacity:        c.MayPositiveInt("CAPACITY", 5000),
		FallbackMarker:  c.MayBool("FALLBACK_MARKER", true),
		Marker:          c.MayString("MARKER", " [untranslated]"),
		StoreTimeout:    c.MayDuration("STORE_TIMEOUT", 3*time.Second),
		MaxTokens:       c.MayInt("MAX_TOKENS", 0),
		Persist:         c.MayEnum("PERSIST", PersistPG, PersistPG, PersistRedis, PersistNone),
		RedisPrefix:     c.MayString("REDIS_PREFIX", "tx:"),
		EventsBuffer:    c.MayPositiveInt("EVENTS_BUFFER", 1024),
		EventsBatch:     c.MayPositiveInt("EVENTS_BATCH", 256),
		EventsEvery:     c.MayDuration("EVENTS_EVERY", 2*time.Second),
	}
}
