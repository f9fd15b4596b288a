package store

import (
	"context"
	"fmt"
	"time"

	chx "insightbff/internal/platform/store/ch"
	"insightbff/internal/platform/store/pg"
	rdx "insightbff/internal/platform/store/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

// sleep is a seam so tests can skip the ping backoff
var sleep = time.Sleep

// openPG opens the pool, waits for it to answer pings and wraps it with the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	appName := cfg.AppName
	mut := func(pc *pgxpool.Config) {
		if appName != "" {
			pc.ConnConfig.RuntimeParams["application_name"] = appName
		}
		if s.poolMut != nil {
			s.poolMut(pc)
		}
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, mut)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.CH.Tag})
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return newCHAdapter(c), nil
}

func openRedis(ctx context.Context, cfg Config, _ *Store) (KV, error) {
	c, err := rdx.Open(ctx, rdx.Config{URL: cfg.RDS.URL})
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return c, nil
}
