//go:build swag

package swaggerkit

import docs "postfilter/internal/services/api/docs"

// docReader returns the document swag generated into the docs package
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
