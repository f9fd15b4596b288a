// Package domain holds the text cache types and ports
package domain

import (
	"context"
	"time"
)

// Fields is the translatable content of a cluster
type Fields struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Details string `json:"details"`
}

// Entry is one persisted translation keyed by content hash
type Entry struct {
	Key  string
	Src  string
	Dst  string
	Text string
}

// PersistentStore is the durable cache tier; Get reports found=false on a miss
type PersistentStore interface {
	Get(ctx context.Context, key string) (text string, found bool, err error)
	Put(ctx context.Context, e Entry) error
}

// Event describes one provider call
type Event struct {
	At       time.Time
	Provider string
	Src      string
	Dst      string
	Chars    int
	Elapsed  time.Duration
	OK       bool
	Combined bool
}

// EventSink receives provider call events; Record must not block
type EventSink interface {
	Record(e Event)
}

// Snapshot is a point-in-time copy of the cache counters
type Snapshot struct {
	ProviderCalls    int64   `json:"provider_calls"`
	ProviderErrors   int64   `json:"provider_errors"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	PersistentHits   int64   `json:"persistent_hits"`
	PersistentWrites int64   `json:"persistent_writes"`
	MemoryEntries    int     `json:"memory_entries"`
	LastLatencyMs    float64 `json:"last_latency_ms"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	TotalLatencyMs   float64 `json:"total_latency_ms"`
}

// Translator is the port other services consume; it never fails outward
type Translator interface {
	TranslateText(ctx context.Context, text, src, dst string) string
	TranslateFields(ctx context.Context, f Fields, src, dst string) Fields
	Metrics() Snapshot
	// Marker is the suffix appended to fallback output, whether or not it is enabled
	Marker() string
}

// WorkerPort is a background loop owned by the process
type WorkerPort interface {
	Run(ctx context.Context) error
}
