//go:build tools

// Package tools pins the generator that writes internal/services/api/docs for the swag build tag
package tools

import _ "github.com/swaggo/swag/v2/cmd/swag"
