// Package domain holds the batch translate DTOs and ports
package domain

import (
	"context"

	rdom "insightbff/internal/services/resolver/domain"
)

// BatchInput is the request body of a batch translate call
type BatchInput struct {
	IDs []string `json:"ids" validate:"max=500,dive,max=128"`
}

// BatchResult lists resolved clusters and the ids that did not make it, both in
// request order
type BatchResult struct {
	Results []rdom.Resolved `json:"results"`
	Failed  []string        `json:"failed"`
}

// ServicePort is the interface implemented by the batch service
type ServicePort interface {
	Batch(ctx context.Context, lang string, ids []string) (BatchResult, error)
}
