package httpkit

import "net/http"

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, Call(h)) }

// Delete mounts a body-less handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) { r.Delete(path, Call(h)) }

// PostBound mounts a validated JSON handler under POST
func PostBound[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, Bound(h))
}
