// Package repo reads cluster metadata from Postgres
package repo

import (
	"context"

	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/api/cluster/domain"
)

// Repo is the persistence surface for cluster metadata
type Repo interface {
	// Meta returns the category and representative article; unknown ids are not found
	Meta(ctx context.Context, id string) (domain.Meta, error)
	// SourceCount returns how many articles belong to the cluster
	SourceCount(ctx context.Context, id string) (int, error)
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

func (r *queries) Meta(ctx context.Context, id string) (domain.Meta, error) {
	const sql = `
		SELECT c.category,
		       COALESCE(a.url, ''), COALESCE(a.source_name, ''), COALESCE(a.image_url, ''),
		       a.published_at
		FROM clusters c
		LEFT JOIN articles a ON a.id = c.rep_article_id
		WHERE c.id = $1
	`
	m, err := store.One(ctx, r.q, func(row store.Row) (domain.Meta, error) {
		var m domain.Meta
		err := row.Scan(&m.Category, &m.Source.URL, &m.Source.Name, &m.Source.ImageURL, &m.Source.PublishedAt)
		return m, err
	}, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Meta{}, err
		}
		return domain.Meta{}, perr.FromPostgres(err, "clusters")
	}
	return m, nil
}

func (r *queries) SourceCount(ctx context.Context, id string) (int, error) {
	n, err := store.Scalar[int](ctx, r.q, `SELECT count(*)::int FROM articles WHERE cluster_id = $1`, id)
	if err != nil {
		return 0, perr.FromPostgres(err, "articles")
	}
	return n, nil
}
