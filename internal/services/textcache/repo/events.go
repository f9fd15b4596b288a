package repo

import (
	"context"
	"sync/atomic"
	"time"

	"insightbff/internal/platform/logger"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/textcache/domain"
)

// EventsTable is the ClickHouse table provider calls are appended to
const EventsTable = "translation_events"

// EventsDDL creates EventsTable; columns follow eventRow
const EventsDDL = `CREATE TABLE IF NOT EXISTS ` + EventsTable + ` (
	at         DateTime64(3, 'UTC'),
	provider   LowCardinality(String),
	src        LowCardinality(String),
	dst        LowCardinality(String),
	chars      UInt32,
	elapsed_ms UInt32,
	ok         UInt8,
	combined   UInt8
) ENGINE = MergeTree
PARTITION BY toYYYYMM(at)
ORDER BY (at, provider)`

// CHSink batches provider events into ClickHouse; Record drops when the buffer is full
type CHSink struct {
	ch      store.Clickhouse
	in      chan domain.Event
	batch   int
	every   time.Duration
	dropped atomic.Int64
	log     logger.Logger
}

// NewCHSink builds a sink; Run must be started for events to be written
func NewCHSink(ch store.Clickhouse, buffer, batch int, every time.Duration, log logger.Logger) *CHSink {
	if buffer <= 0 {
		buffer = 1024
	}
	if batch <= 0 {
		batch = 256
	}
	if every <= 0 {
		every = 2 * time.Second
	}
	return &CHSink{
		ch:    ch,
		in:    make(chan domain.Event, buffer),
		batch: batch,
		every: every,
		log:   log.With().Str("component", "textcache-events").Logger(),
	}
}

// Record enqueues e without blocking
func (s *CHSink) Record(e domain.Event) {
	select {
	case s.in <- e:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded on a full buffer
func (s *CHSink) Dropped() int64 { return s.dropped.Load() }

// EnsureTable creates EventsTable when it does not exist yet
func (s *CHSink) EnsureTable(ctx context.Context) error {
	return s.ch.Exec(ctx, EventsDDL)
}

// Run creates the table, then flushes on size or interval until ctx ends and
// flushes what is left. A failed create is logged and flushing still goes on
func (s *CHSink) Run(ctx context.Context) error {
	dctx, dcancel := context.WithTimeout(ctx, 10*time.Second)
	if err := s.EnsureTable(dctx); err != nil {
		s.log.Warn().Err(err).Str("table", EventsTable).Msg("ensure events table failed")
	}
	dcancel()

	t := time.NewTicker(s.every)
	defer t.Stop()

	rows := make([][]any, 0, s.batch)
	flush := func(fctx context.Context) {
		if len(rows) == 0 {
			return
		}
		if err := s.ch.AppendRows(fctx, EventsTable, rows); err != nil {
			s.log.Warn().Err(err).Int("rows", len(rows)).Msg("translation events dropped")
		}
		rows = rows[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-s.in:
					rows = append(rows, eventRow(e))
				default:
					fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
					flush(fctx)
					cancel()
					return nil
				}
			}
		case e := <-s.in:
			rows = append(rows, eventRow(e))
			if len(rows) >= s.batch {
				flush(ctx)
			}
		case <-t.C:
			flush(ctx)
		}
	}
}

func eventRow(e domain.Event) []any {
	ok := uint8(0)
	if e.OK {
		ok = 1
	}
	combined := uint8(0)
	if e.Combined {
		combined = 1
	}
	return []any{e.At.UTC(), e.Provider, e.Src, e.Dst, uint32(e.Chars), uint32(e.Elapsed.Milliseconds()), ok, combined}
}
