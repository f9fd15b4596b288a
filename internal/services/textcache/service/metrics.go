package service

import (
	"sync/atomic"
	"time"

	ptime "insightbff/internal/platform/time"
	"insightbff/internal/services/textcache/domain"
)

type metrics struct {
	providerCalls    atomic.Int64
	providerErrors   atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	persistentHits   atomic.Int64
	persistentWrites atomic.Int64
	lastLatencyNs    atomic.Int64
	totalLatencyNs   atomic.Int64
}

func (m *metrics) observe(d time.Duration, ok bool) {
	m.providerCalls.Add(1)
	if !ok {
		m.providerErrors.Add(1)
	}
	m.lastLatencyNs.Store(int64(d))
	m.totalLatencyNs.Add(int64(d))
}

func (m *metrics) snapshot(entries int) domain.Snapshot {
	calls := m.providerCalls.Load()
	total := time.Duration(m.totalLatencyNs.Load())
	s := domain.Snapshot{
		ProviderCalls:    calls,
		ProviderErrors:   m.providerErrors.Load(),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		PersistentHits:   m.persistentHits.Load(),
		PersistentWrites: m.persistentWrites.Load(),
		MemoryEntries:    entries,
		LastLatencyMs:    ptime.Millis(time.Duration(m.lastLatencyNs.Load())),
		TotalLatencyMs:   ptime.Millis(total),
	}
	if calls > 0 {
		s.AvgLatencyMs = ptime.Millis(total / time.Duration(calls))
	}
	return s
}
