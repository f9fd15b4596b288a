// Package domain holds the cluster translation types and ports
package domain

import (
	"context"
	"time"

	tcdom "insightbff/internal/services/textcache/domain"

	"github.com/google/uuid"
)

// Row is one cluster_translations row
type Row struct {
	ID        uuid.UUID
	ClusterID string
	Lang      string
	Title     string
	Summary   string
	Details   string
	IsCurrent bool
	CreatedAt time.Time
	Model     string
	PivotHash string
}

// Fields returns the translatable content of the row
func (r Row) Fields() tcdom.Fields {
	return tcdom.Fields{Title: r.Title, Summary: r.Summary, Details: r.Details}
}

// Resolved is cluster text in a requested language
type Resolved struct {
	ClusterID      string `json:"cluster_id"`
	Lang           string `json:"lang"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	Details        string `json:"details"`
	IsTranslated   bool   `json:"is_translated"`
	TranslatedFrom string `json:"translated_from,omitempty"`
}

// Repo reads and writes cluster_translations
type Repo interface {
	// CurrentRows returns every current row of a cluster, oldest first
	CurrentRows(ctx context.Context, clusterID string) ([]Row, error)
	Insert(ctx context.Context, r Row) error
	// Retire flips one row to non-current
	Retire(ctx context.Context, id uuid.UUID) error
}

// Translator is the slice of the text cache the resolver needs
type Translator interface {
	TranslateFields(ctx context.Context, f tcdom.Fields, src, dst string) tcdom.Fields
	Marker() string
}

// EnsurePort resolves cluster text, collapsing concurrent work per (cluster, language)
type EnsurePort interface {
	EnsureDedup(ctx context.Context, clusterID, lang string) (*Resolved, error)
}

// LookupPort reads what is already persisted without translating. pending
// reports that res holds untranslated pivot content; res is nil without a pivot
type LookupPort interface {
	Current(ctx context.Context, clusterID, lang string) (res *Resolved, pending bool, err error)
}
