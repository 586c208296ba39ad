package httpkit

import (
	"net/http"
	"strings"

	perrs "postfilter/internal/platform/errors"
	pnet "postfilter/internal/platform/net"
)

// DefaultOwnerHeader carries the owner id when no header is configured
const DefaultOwnerHeader = "X-Owner-ID"

// HeaderPort resolves the owner from a header an upstream gateway has already authenticated
type HeaderPort struct {
	header string
}

// NewHeaderPort reads header, or DefaultOwnerHeader when empty
func NewHeaderPort(header string) *HeaderPort {
	if strings.TrimSpace(header) == "" {
		header = DefaultOwnerHeader
	}
	return &HeaderPort{header: http.CanonicalHeaderKey(strings.TrimSpace(header))}
}

// Header names the header the port reads
func (p *HeaderPort) Header() string { return p.header }

// Parse returns the trimmed owner id
func (p *HeaderPort) Parse(r *http.Request) (string, error) {
	owner := strings.TrimSpace(r.Header.Get(p.header))
	if owner == "" {
		return "", perrs.Unauthorizedf("missing %s header", p.header)
	}
	return owner, nil
}

// Owner returns the owner the auth middleware resolved
func Owner(r *http.Request) (string, error) {
	owner := pnet.Owner(r.Context())
	if owner == "" {
		return "", perrs.Unauthorizedf("missing owner")
	}
	return owner, nil
}
