// Package service resolves a single cluster in a requested language
package service

import (
	"context"
	"time"

	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/logger"
	"insightbff/internal/services/api/cluster/domain"
	"insightbff/internal/services/api/cluster/repo"
	rdom "insightbff/internal/services/resolver/domain"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Service defines the cluster service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the cluster service
type Svc struct {
	db          repokit.TxRunner
	binder      repokit.Binder[repo.Repo]
	ensure      rdom.EnsurePort
	metaTimeout time.Duration
	log         logger.Logger
}

// New constructs a cluster service; metaTimeout bounds each enrichment read
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], ensure rdom.EnsurePort, metaTimeout time.Duration, log logger.Logger) *Svc {
	if db == nil {
		panic("cluster.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("cluster.Service requires a non nil Repo binder")
	}
	if ensure == nil {
		panic("cluster.Service requires an Ensure port")
	}
	if metaTimeout <= 0 {
		metaTimeout = 2 * time.Second
	}
	return &Svc{db: db, binder: binder, ensure: ensure, metaTimeout: metaTimeout, log: log}
}

// Get resolves the cluster text synchronously. A cluster without a pivot row is
// not found; resolver read failures are unavailable. Metadata lookups never fail
// the call and fall back to empty values
func (s *Svc) Get(ctx context.Context, id, lang string) (domain.View, error) {
	res, err := s.ensure.EnsureDedup(ctx, id, lang)
	switch {
	case err != nil && perr.IsCode(err, perr.ErrorCodeInvalidArgument):
		return domain.View{}, err
	case err != nil:
		return domain.View{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "cluster %s unavailable", id)
	case res == nil:
		return domain.View{}, perr.NotFoundf("cluster %s not found", id)
	}

	meta := s.meta(ctx, id).UnwrapOr(domain.Meta{})
	return domain.View{
		Resolved:    *res,
		Category:    meta.Category,
		Source:      meta.Source,
		SourceCount: s.sourceCount(ctx, id).UnwrapOr(0),
	}, nil
}

func (s *Svc) meta(ctx context.Context, id string) fn.Result[domain.Meta] {
	m, err := repokit.Bounded(ctx, s.metaTimeout, func(c context.Context) (domain.Meta, error) {
		return s.binder.Bind(s.db).Meta(c, id)
	})
	if err != nil && !perr.IsCode(err, perr.ErrorCodeNotFound) {
		s.log.Warn().Err(err).Str("cluster_id", id).Msg("cluster metadata lookup failed")
	}
	return fn.NewResult(m, err)
}

func (s *Svc) sourceCount(ctx context.Context, id string) fn.Result[int] {
	n, err := repokit.Bounded(ctx, s.metaTimeout, func(c context.Context) (int, error) {
		return s.binder.Bind(s.db).SourceCount(c, id)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("cluster_id", id).Msg("cluster source count failed")
	}
	return fn.NewResult(n, err)
}
