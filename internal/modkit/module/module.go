// Package module defines the contract the API mounts and how modules find each other's ports
package module

import phttp "postfilter/internal/platform/net/http"

// Module is mounted once under the versioned API router
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
