package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perrs "postfilter/internal/platform/errors"
	phttp "postfilter/internal/platform/net/http"
)

// Param returns a named path parameter, empty when absent
func Param(r *http.Request, key string) string {
	return strings.TrimSpace(phttp.URLParam(r, key))
}

// ParamInt64 parses a positive integer path parameter
func ParamInt64(r *http.Request, key string) (int64, error) {
	raw := Param(r, key)
	if raw == "" {
		return 0, perrs.WithField(perrs.InvalidArgf("missing path parameter %s", key), key)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, perrs.WithField(perrs.InvalidArgf("%s must be a positive integer", key), key)
	}
	return n, nil
}
