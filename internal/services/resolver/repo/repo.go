// Package repo is the Postgres cluster_translations store
package repo

import (
	"context"
	"errors"

	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/resolver/domain"

	"github.com/google/uuid"
)

type (
	// PG is the Postgres implementation
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind attaches a Queryer
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func scanRow(r store.Row) (domain.Row, error) {
	var (
		row  domain.Row
		hash *string
	)
	err := r.Scan(&row.ID, &row.ClusterID, &row.Lang, &row.Title, &row.Summary, &row.Details,
		&row.IsCurrent, &row.CreatedAt, &row.Model, &hash)
	if hash != nil {
		row.PivotHash = *hash
	}
	return row, err
}

// CurrentRows returns every current row of a cluster, oldest first
func (r *queries) CurrentRows(ctx context.Context, clusterID string) ([]domain.Row, error) {
	const sql = `
		SELECT id, cluster_id, lang, title, summary, details, is_current, created_at, model, pivot_hash
		FROM cluster_translations
		WHERE cluster_id = $1 AND is_current
		ORDER BY created_at, id
	`
	rows, err := store.Many(ctx, r.q, scanRow, sql, clusterID)
	if err != nil {
		return nil, perr.FromPostgres(err, "cluster_translations")
	}
	return rows, nil
}

// Insert writes a new row; a second current row for the same (cluster, lang)
// comes back as a duplicate key error
func (r *queries) Insert(ctx context.Context, row domain.Row) error {
	const sql = `
		INSERT INTO cluster_translations
			(id, cluster_id, lang, title, summary, details, is_current, created_at, model, pivot_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
	`
	if row.ID == uuid.Nil {
		return perr.InvalidArgf("cluster_translations: row id is required")
	}
	_, err := r.q.Exec(ctx, sql, row.ID, row.ClusterID, row.Lang, row.Title, row.Summary, row.Details,
		row.IsCurrent, row.CreatedAt, row.Model, row.PivotHash)
	if err != nil {
		return perr.FromPostgres(err, "cluster_translations")
	}
	return nil
}

// Retire flips one row to non-current; a row already retired is not an error
func (r *queries) Retire(ctx context.Context, id uuid.UUID) error {
	const sql = `UPDATE cluster_translations SET is_current = false WHERE id = $1 AND is_current`
	err := store.ExecOne(ctx, r.q, sql, id)
	if err == nil || errors.Is(err, store.ErrNoRowsAffected) {
		return nil
	}
	return perr.FromPostgres(err, "cluster_translations")
}
