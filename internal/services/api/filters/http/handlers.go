// Package http provides http transport for the filter builder
package http

import (
	stdhttp "net/http"

	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/services/api/filters/domain"
	svc "postfilter/internal/services/api/filters/service"
)

// Register mounts filter builder endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/fields", h.fields)
	httpkit.PostBound[domain.FiltersInput](r, "/validate", h.validate)
	httpkit.PostBound[domain.EditInput](r, "/edit", h.edit)
	httpkit.PostBound[domain.SQLInput](r, "/sql", h.sql)
}

type handlers struct{ svc svc.Service }

// @Summary Fields, operators and value shapes the builder offers
// @Tags Filters
// @Produce json
// @Success 200 {object} domain.Fields "ok"
// @Router /filters/fields [get]
func (h *handlers) fields(r *stdhttp.Request) (any, error) {
	return h.svc.Fields(r.Context())
}

// @Summary Check a tree without running it
// @Tags Filters
// @Accept json
// @Produce json
// @Param payload body domain.FiltersInput true "Tree"
// @Success 200 {object} domain.Validation "verdict"
// @Router /filters/validate [post]
func (h *handlers) validate(r *stdhttp.Request, in domain.FiltersInput) (any, error) {
	return h.svc.Validate(r.Context(), in)
}

// @Summary Apply one edit to a tree
// @Tags Filters
// @Accept json
// @Produce json
// @Param payload body domain.EditInput true "Tree and intent"
// @Success 200 {object} domain.Edited "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /filters/edit [post]
func (h *handlers) edit(r *stdhttp.Request, in domain.EditInput) (any, error) {
	return h.svc.Edit(r.Context(), in)
}

// @Summary Render the WHERE clause for a tree
// @Tags Filters
// @Accept json
// @Produce json
// @Param payload body domain.SQLInput true "Tree and dialect"
// @Success 200 {object} domain.SQL "ok"
// @Failure 400 {object} httpkit.Envelope
// @Router /filters/sql [post]
func (h *handlers) sql(r *stdhttp.Request, in domain.SQLInput) (any, error) {
	return h.svc.SQL(r.Context(), in)
}
