// Package http provides http transport for single cluster reads
package http

import (
	stdhttp "net/http"

	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/services/api/cluster/domain"
)

// Register mounts cluster endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, pivotLang string) {
	h := &handlers{svc: s, pivot: pivotLang}
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct {
	svc   domain.ServicePort
	pivot string
}

// swagger:route GET /cluster/{id} Cluster clusterGet
// @Summary One cluster in a language, translated on demand
// @Tags Cluster
// @Produce json
// @Param id path string true "Cluster id"
// @Param lang query string false "BCP-47 language tag"
// @Success 200 {object} domain.View "ok"
// @Failure 404 {object} httpkit.Envelope
// @Failure 422 {object} httpkit.Envelope
// @Failure 503 {object} httpkit.Envelope
// @Router /cluster/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := httpkit.Param(r, "id")
	if err != nil {
		return nil, err
	}
	lang, err := httpkit.QueryLang(r, h.pivot)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id, lang)
}
