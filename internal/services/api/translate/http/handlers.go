// Package http provides http transport for batch translation
package http

import (
	stdhttp "net/http"

	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/api/translate/domain"
)

// Register mounts batch endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, pivotLang string) {
	h := &handlers{svc: s, pivot: pivotLang}
	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch)
}

type handlers struct {
	svc   domain.ServicePort
	pivot string
}

// swagger:route POST /translate/batch Translate translateBatch
// @Summary Resolve many clusters in one language
// @Tags Translate
// @Accept json
// @Produce json
// @Param lang query string false "BCP-47 language tag"
// @Param payload body domain.BatchInput true "Cluster ids"
// @Success 200 {object} domain.BatchResult "ok"
// @Failure 400 {object} httpkit.Envelope
// @Failure 422 {object} httpkit.Envelope
// @Failure 429 {object} httpkit.Envelope
// @Router /translate/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	lang, err := httpkit.QueryLang(r, h.pivot)
	if err != nil {
		return nil, err
	}
	return h.svc.Batch(r.Context(), lang, in.IDs)
}
