package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "postfilter/internal/platform/net/http"
	"postfilter/internal/platform/net/middleware"
)

// slowRequest raises access log lines to warn
const slowRequest = 500 * time.Millisecond

// CommonStack is the middleware every /api/v1 route runs behind
// ownerHeader is allowed through CORS so browsers can send it
func CommonStack(ownerHeader string) []func(http.Handler) http.Handler {
	cors := middleware.CORSOptions{}
	if ownerHeader != "" {
		cors.ExtraHeaders = []string{ownerHeader}
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(slowRequest),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(cors),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// RootStack runs on the bare mux ahead of every route, docs and pprof included
func RootStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{middleware.Heartbeat("/health")}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
