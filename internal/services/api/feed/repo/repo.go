// Package repo selects feed candidates from Postgres
package repo

import (
	"context"

	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/api/feed/domain"

	sq "github.com/Masterminds/squirrel"
)

// Repo is the persistence surface for the feed
type Repo interface {
	// Candidates returns the newest clusters that have content in some language
	Candidates(ctx context.Context, limit int, category string) ([]domain.Candidate, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CandidatesQuery builds the candidate select
func CandidatesQuery(limit int, category string) (string, []any, error) {
	b := psql.
		Select("c.id", "c.category", "c.created_at", "COALESCE(a.image_url, '')").
		From("clusters c").
		LeftJoin("articles a ON a.id = c.rep_article_id").
		Where("EXISTS (SELECT 1 FROM cluster_translations t WHERE t.cluster_id = c.id AND t.is_current)").
		OrderBy("c.created_at DESC", "c.id").
		Limit(uint64(max(limit, 1)))
	if category != "" {
		b = b.Where(sq.Eq{"c.category": category})
	}
	return b.ToSql()
}

func (r *queries) Candidates(ctx context.Context, limit int, category string) ([]domain.Candidate, error) {
	sql, args, err := CandidatesQuery(limit, category)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build feed query")
	}
	out, err := store.Many(ctx, r.q, func(row store.Row) (domain.Candidate, error) {
		var c domain.Candidate
		err := row.Scan(&c.ID, &c.Category, &c.CreatedAt, &c.ImageURL)
		return c, err
	}, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed candidates")
	}
	return out, nil
}
