// Package repo provides the persistent tiers and the event sink for the text cache
package repo

import (
	"context"
	"errors"

	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/services/textcache/domain"

	"github.com/jackc/pgx/v5"
)

type (
	// PG is the Postgres translations table
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[domain.PersistentStore] { return PG{} }

// Bind attaches a Queryer
func (PG) Bind(q repokit.Queryer) domain.PersistentStore { return &queries{q: q} }

// Get reads a cached translation by key
func (r *queries) Get(ctx context.Context, key string) (string, bool, error) {
	const sql = `SELECT text FROM translations WHERE key = $1`
	var text string
	if err := r.q.QueryRow(ctx, sql, key).Scan(&text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, perr.FromPostgres(err, "translations")
	}
	return text, true, nil
}

// Put inserts a translation; an existing key is left as is
func (r *queries) Put(ctx context.Context, e domain.Entry) error {
	const sql = `
		INSERT INTO translations (key, src_lang, dst_lang, text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, sql, e.Key, e.Src, e.Dst, e.Text); err != nil {
		return perr.FromPostgres(err, "translations")
	}
	return nil
}
