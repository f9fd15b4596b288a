// Package domain holds the feed DTOs and ports
package domain

import (
	"context"
	"time"
)

// Card statuses
const (
	StatusReady   = "ready"
	StatusPending = "pending"
)

// Input selects a feed page
type Input struct {
	Lang     string
	Limit    int
	Strict   bool
	Category string
}

// Card is one cluster in the feed
type Card struct {
	ClusterID      string    `json:"cluster_id"      example:"c-1024"`
	Status         string    `json:"status"          example:"ready"`
	Lang           string    `json:"lang"            example:"de"`
	Title          string    `json:"title"           example:"Sturm trifft Küste"`
	Summary        string    `json:"summary"`
	IsTranslated   bool      `json:"is_translated"`
	TranslatedFrom string    `json:"translated_from,omitempty" example:"en"`
	Category       string    `json:"category,omitempty"        example:"world"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Page is a feed response; PendingIDs travel in a response header
type Page struct {
	Items      []Card   `json:"items"`
	Strict     bool     `json:"strict"`
	PendingIDs []string `json:"-"`
}

// Candidate is a cluster picked for the feed before any language work
type Candidate struct {
	ID        string
	Category  string
	CreatedAt time.Time
	ImageURL  string
}

// ServicePort is the interface implemented by the feed service
type ServicePort interface {
	List(ctx context.Context, in Input) (Page, error)
}
