// Package domain holds the cluster DTOs and ports
package domain

import (
	"context"
	"time"

	rdom "insightbff/internal/services/resolver/domain"
)

// Source is the representative article of a cluster
type Source struct {
	URL         string     `json:"url,omitempty"          example:"https://example.org/a/1"`
	Name        string     `json:"name,omitempty"         example:"Example Times"`
	ImageURL    string     `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Meta is cluster metadata that does not depend on language
type Meta struct {
	Category string
	Source   Source
}

// View is a cluster resolved in a language plus best-effort metadata
type View struct {
	rdom.Resolved
	Category    string `json:"category,omitempty" example:"world"`
	Source      Source `json:"source"`
	SourceCount int    `json:"source_count"       example:"3"`
}

// ServicePort is the interface implemented by the cluster service
type ServicePort interface {
	Get(ctx context.Context, id, lang string) (View, error)
}
