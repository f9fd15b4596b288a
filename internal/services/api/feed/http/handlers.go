// Package http provides http transport for the feed
package http

import (
	stdhttp "net/http"
	"strings"

	"insightbff/internal/modkit/httpkit"
	"insightbff/internal/platform/net/middleware"
	"insightbff/internal/services/api/feed/domain"
)

// Register mounts feed endpoints on the given router; pivotLang is the
// language served when ?lang is absent
func Register(r httpkit.Router, s domain.ServicePort, pivotLang string) {
	h := &handlers{svc: s, pivot: pivotLang}
	httpkit.Get(r, "/", h.list)
}

type handlers struct {
	svc   domain.ServicePort
	pivot string
}

// swagger:route GET /feed Feed feedList
// @Summary Newest clusters in a language
// @Description Best-effort pages return placeholders for clusters still being
// @Description translated and list them in X-Pending-Ids. Strict pages wait for
// @Description translations and omit what misses the budget.
// @Tags Feed
// @Produce json
// @Param lang query string false "BCP-47 language tag"
// @Param limit query int false "Page size"
// @Param strict query bool false "Wait for translations"
// @Param category query string false "Category filter"
// @Success 200 {object} domain.Page "ok"
// @Header 200 {string} X-Pending-Ids "Comma separated cluster ids being translated"
// @Failure 422 {object} httpkit.Envelope
// @Router /feed [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in, err := input(r, h.pivot)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	resp := httpkit.OK(page)
	if len(page.PendingIDs) > 0 {
		resp = resp.WithHeader(middleware.PendingIDsHeader, strings.Join(page.PendingIDs, ","))
	}
	return resp, nil
}

func input(r *stdhttp.Request, pivot string) (domain.Input, error) {
	lang, err := httpkit.QueryLang(r, pivot)
	if err != nil {
		return domain.Input{}, err
	}
	limit, err := httpkit.QueryInt(r, "limit", 0)
	if err != nil {
		return domain.Input{}, err
	}
	strict, err := httpkit.QueryBool(r, "strict")
	if err != nil {
		return domain.Input{}, err
	}
	return domain.Input{
		Lang:     lang,
		Limit:    limit,
		Strict:   strict,
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}, nil
}
