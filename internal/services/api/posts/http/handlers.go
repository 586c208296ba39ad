// Package http provides http transport for post queries
package http

import (
	stdhttp "net/http"

	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/services/api/posts/domain"
	svc "postfilter/internal/services/api/posts/service"
)

// Register mounts post query endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostBound[domain.FilterInput](r, "/filter", h.filter)
}

type handlers struct{ svc svc.Service }

// @Summary Posts matching a filter tree
// @Description The tree must be fully configured; drafts are rejected with the offending field
// @Tags Posts
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Tree"
// @Success 200 {object} domain.FilterResult "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /posts/filter [post]
func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.Filter(r.Context(), in)
}
