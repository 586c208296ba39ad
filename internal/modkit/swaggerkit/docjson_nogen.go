//go:build !swag

package swaggerkit

// docReader returns a skeleton when the docs package was not generated
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"Postfilter API","version":"0.0.0"},"paths":{}}`
}
