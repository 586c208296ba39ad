// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyOwner ctxKey = "owner"

// WithOwner records the authenticated owner; presets are scoped to it
func WithOwner(ctx context.Context, owner string) context.Context {
	if owner == "" {
		return ctx
	}
	return context.WithValue(ctx, keyOwner, owner)
}

// Owner returns the owner on the context, or ""
func Owner(ctx context.Context) string {
	v, _ := ctx.Value(keyOwner).(string)
	return v
}

// RequestID returns the id chi's RequestID middleware stored, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
