// Package swaggerkit serves the Swagger UI and the patched OpenAPI document
package swaggerkit

import (
	"encoding/json"
	"net/http"

	phttp "postfilter/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// apiBase is where the versioned API is mounted
const apiBase = "/api/v1"

// Mount serves /api/docs when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
		phttp.JSON(w, http.StatusInternalServerError, map[string]string{"error": "spec parse error"})
		return
	}
	patchSpec(spec, apiBase)
	w.Header().Set("Cache-Control", "no-store")
	phttp.JSON(w, http.StatusOK, spec)
}
