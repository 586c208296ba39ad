package middleware

import (
	"net/http"

	"postfilter/internal/platform/logger"
	pnet "postfilter/internal/platform/net"
)

// AuthPort resolves the owner of a request
type AuthPort interface {
	Parse(r *http.Request) (owner string, err error)
}

// Auth stores the resolved owner on the context and tags request logs with it
// a nil port lets every request through unauthenticated
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			owner, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithOwner(r.Context(), owner)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
