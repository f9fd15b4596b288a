// Package service resolves many clusters in one language under a bounded worker pool
package service

import (
	"context"
	"time"

	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/logger"
	pstrings "insightbff/internal/platform/strings"
	"insightbff/internal/services/api/translate/domain"
	rdom "insightbff/internal/services/resolver/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Service defines the batch service contract
type Service interface {
	domain.ServicePort
}

// Config bounds batch size, parallelism and request rate
type Config struct {
	MaxIDs      int
	Concurrency int
	ItemTimeout time.Duration
	RPS         float64
	Burst       int
}

func (c Config) withDefaults() Config {
	if c.MaxIDs <= 0 {
		c.MaxIDs = 50
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = 15 * time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 2
	}
	if c.Burst <= 0 {
		c.Burst = 4
	}
	return c
}

// Svc implements the batch service
type Svc struct {
	cfg     Config
	ensure  rdom.EnsurePort
	limiter *rate.Limiter
	log     logger.Logger
}

// New constructs a batch service
func New(ensure rdom.EnsurePort, cfg Config, log logger.Logger) *Svc {
	if ensure == nil {
		panic("translate.Service requires an Ensure port")
	}
	cfg = cfg.withDefaults()
	return &Svc{
		cfg:     cfg,
		ensure:  ensure,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		log:     log,
	}
}

// Batch resolves every unique id, capped to MaxIDs. Per item failures land in
// Failed and never fail the call; only an exhausted rate limit does
func (s *Svc) Batch(ctx context.Context, lang string, ids []string) (domain.BatchResult, error) {
	ids = pstrings.UniqueTrimmed(ids)
	if len(ids) > s.cfg.MaxIDs {
		ids = ids[:s.cfg.MaxIDs]
	}
	out := domain.BatchResult{Results: []rdom.Resolved{}, Failed: []string{}}
	if len(ids) == 0 {
		return out, nil
	}
	if !s.limiter.Allow() {
		return domain.BatchResult{}, perr.TooManyRequestsf("batch translate rate limit reached")
	}

	got := make([]*rdom.Resolved, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			ictx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
			defer cancel()
			res, err := s.ensure.EnsureDedup(ictx, id, lang)
			if err != nil {
				s.log.Debug().Err(err).Str("cluster_id", id).Str("lang", lang).Msg("batch item failed")
				return nil
			}
			got[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		if got[i] == nil {
			out.Failed = append(out.Failed, id)
			continue
		}
		out.Results = append(out.Results, *got[i])
	}
	return out, nil
}
