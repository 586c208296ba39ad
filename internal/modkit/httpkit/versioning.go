package httpkit

import "net/http"

// MountAPIV1 mounts a subrouter under /api/v1, applies mw, then lets mount register routes
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
