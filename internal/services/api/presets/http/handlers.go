// Package http provides http transport for filter presets
package http

import (
	stdhttp "net/http"

	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/services/api/presets/domain"
	svc "postfilter/internal/services/api/presets/service"
)

// Register mounts preset endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.PostBound[domain.SaveInput](r, "/", h.save)
	httpkit.Get(r, "/{id}", h.load)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc svc.Service }

// @Summary List saved filter presets
// @Tags Presets
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Success 200 {array} domain.Preset "ok"
// @Failure 401 {object} httpkit.Envelope
// @Router /presets [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), owner)
}

// @Summary Save the current filter tree under a name
// @Tags Presets
// @Accept json
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param payload body domain.SaveInput true "Preset"
// @Success 201 {object} domain.Saved "created"
// @Failure 400 {object} httpkit.Envelope
// @Router /presets [post]
func (h *handlers) save(r *stdhttp.Request, in domain.SaveInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Save(r.Context(), owner, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary Load a preset as an editable filter tree
// @Tags Presets
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param id path int true "Preset id"
// @Success 200 {object} domain.Loaded "ok"
// @Failure 404 {object} httpkit.Envelope
// @Router /presets/{id} [get]
func (h *handlers) load(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Load(r.Context(), owner, id)
}

// @Summary Delete a preset
// @Tags Presets
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param id path int true "Preset id"
// @Success 200 {object} domain.Deleted "ok"
// @Router /presets/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Remove(r.Context(), owner, id)
}
