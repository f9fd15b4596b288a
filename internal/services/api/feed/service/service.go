// Package service builds feed pages in a requested language
package service

import (
	"context"
	"time"

	"insightbff/internal/core/langtag"
	"insightbff/internal/modkit/repokit"
	"insightbff/internal/platform/logger"
	ptime "insightbff/internal/platform/time"
	"insightbff/internal/services/api/feed/domain"
	"insightbff/internal/services/api/feed/repo"
	pqdom "insightbff/internal/services/persistq/domain"
	rdom "insightbff/internal/services/resolver/domain"

	"golang.org/x/sync/errgroup"
)

// Service defines the feed service contract
type Service interface {
	domain.ServicePort
}

// Config tunes limits and the strict mode budget
type Config struct {
	DefaultLimit         int
	MaxLimit             int
	StrictMaxLimit       int
	StrictBudget         time.Duration
	StrictItemTimeout    time.Duration
	StrictRelaxedTimeout time.Duration
	Concurrency          int
}

func (c Config) withDefaults() Config {
	if c.MaxLimit <= 0 {
		c.MaxLimit = 50
	}
	if c.DefaultLimit <= 0 || c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = min(20, c.MaxLimit)
	}
	if c.StrictMaxLimit <= 0 || c.StrictMaxLimit > c.MaxLimit {
		c.StrictMaxLimit = min(10, c.MaxLimit)
	}
	if c.StrictBudget <= 0 {
		c.StrictBudget = 8 * time.Second
	}
	if c.StrictItemTimeout <= 0 {
		c.StrictItemTimeout = 3 * time.Second
	}
	if c.StrictRelaxedTimeout <= 0 {
		c.StrictRelaxedTimeout = 6 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return c
}

// Ports are the cross-module collaborators of the feed
type Ports struct {
	Ensure   rdom.EnsurePort
	Lookup   rdom.LookupPort
	Enqueuer pqdom.EnqueuePort
}

// Svc implements the feed service
type Svc struct {
	cfg    Config
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	ports  Ports
	log    logger.Logger
	now    func() time.Time
}

// New constructs a feed service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], ports Ports, cfg Config, log logger.Logger) *Svc {
	if db == nil {
		panic("feed.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("feed.Service requires a non nil Repo binder")
	}
	if ports.Ensure == nil || ports.Lookup == nil || ports.Enqueuer == nil {
		panic("feed.Service requires Ensure, Lookup and Enqueuer ports")
	}
	return &Svc{cfg: cfg.withDefaults(), db: db, binder: binder, ports: ports, log: log, now: time.Now}
}

// List returns a feed page. Best-effort pages are built from persisted rows only,
// queuing background work for the rest, and keep clusters whose read failed as
// pending placeholders; strict pages wait for translations within
// a budget and omit what does not make it
func (s *Svc) List(ctx context.Context, in domain.Input) (domain.Page, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	limit = min(limit, s.cfg.MaxLimit)
	if in.Strict {
		limit = min(limit, s.cfg.StrictMaxLimit)
	}

	cands, err := s.binder.Bind(s.db).Candidates(ctx, limit, in.Category)
	if err != nil {
		return domain.Page{}, err
	}
	if in.Strict {
		return s.strict(ctx, in.Lang, cands), nil
	}
	return s.bestEffort(ctx, in.Lang, cands), nil
}

func (s *Svc) bestEffort(ctx context.Context, lang string, cands []domain.Candidate) domain.Page {
	cards := make([]*domain.Card, len(cands))
	pending := make([]bool, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, c := range cands {
		g.Go(func() error {
			res, isPending, err := s.ports.Lookup.Current(gctx, c.ID, lang)
			if err != nil {
				s.log.Warn().Err(err).Str("cluster_id", c.ID).Msg("feed lookup failed, serving placeholder")
				res, isPending = &rdom.Resolved{ClusterID: c.ID, Lang: langtag.Base(lang)}, true
			}
			if res == nil {
				return nil
			}
			cards[i] = card(c, res, isPending)
			pending[i] = isPending
			return nil
		})
	}
	_ = g.Wait()

	page := domain.Page{Items: make([]domain.Card, 0, len(cands))}
	for i, c := range cards {
		if c == nil {
			continue
		}
		page.Items = append(page.Items, *c)
		if pending[i] {
			page.PendingIDs = append(page.PendingIDs, c.ClusterID)
			if !s.ports.Enqueuer.EnqueueResolve(c.ClusterID, lang) {
				s.log.Warn().Str("cluster_id", c.ClusterID).Str("lang", lang).Msg("background resolve not queued")
			}
		}
	}
	return page
}

func (s *Svc) strict(ctx context.Context, lang string, cands []domain.Candidate) domain.Page {
	bctx, cancel := context.WithTimeout(ctx, s.cfg.StrictBudget)
	defer cancel()
	deadline, _ := bctx.Deadline()

	items := s.resolvePass(bctx, lang, cands, s.cfg.StrictItemTimeout)
	if len(items) == 0 {
		if left := ptime.Remaining(deadline, s.now()); left > 0 {
			items = s.resolvePass(bctx, lang, cands, ptime.Min(s.cfg.StrictRelaxedTimeout, left))
		}
	}
	return domain.Page{Items: items, Strict: true}
}

// resolvePass resolves every candidate under a per-item timeout, keeping feed order
func (s *Svc) resolvePass(ctx context.Context, lang string, cands []domain.Candidate, per time.Duration) []domain.Card {
	cards := make([]*domain.Card, len(cands))
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for i, c := range cands {
		g.Go(func() error {
			ictx, cancel := context.WithTimeout(ctx, per)
			defer cancel()
			res, err := s.ports.Ensure.EnsureDedup(ictx, c.ID, lang)
			if err != nil || res == nil {
				return nil
			}
			cards[i] = card(c, res, false)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.Card, 0, len(cands))
	for _, c := range cards {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func card(c domain.Candidate, res *rdom.Resolved, pending bool) *domain.Card {
	status := domain.StatusReady
	if pending {
		status = domain.StatusPending
	}
	return &domain.Card{
		ClusterID:      c.ID,
		Status:         status,
		Lang:           res.Lang,
		Title:          res.Title,
		Summary:        res.Summary,
		IsTranslated:   res.IsTranslated,
		TranslatedFrom: res.TranslatedFrom,
		Category:       c.Category,
		ImageURL:       c.ImageURL,
		CreatedAt:      c.CreatedAt,
	}
}
