// Package domain holds DTOs for presets http and service contracts
package domain

import (
	"encoding/json"

	"postfilter/internal/core/filtertree"
)

// SaveInput is the body for storing a new preset
type SaveInput struct {
	Name    string          `json:"name"    validate:"required,max=120" example:"Release notes this quarter"`
	Filters json.RawMessage `json:"filters" validate:"required" swaggertype:"object"`
}

// Preset is a listed preset; filters are echoed exactly as stored
type Preset struct {
	ID        int64              `json:"id"         example:"12"`
	Name      string             `json:"name"       example:"Release notes this quarter"`
	Filters   filtertree.Payload `json:"filters"    swaggertype:"object"`
	CreatedAt string             `json:"created_at" example:"2025-09-03T13:00:00Z"`
}

// Loaded is a preset decoded into an editable tree
type Loaded struct {
	ID        int64                `json:"id"         example:"12"`
	Name      string               `json:"name"       example:"Release notes this quarter"`
	Filters   filtertree.WireGroup `json:"filters"`
	CreatedAt string               `json:"created_at" example:"2025-09-03T13:00:00Z"`
}

// Saved is returned after a successful save
type Saved struct {
	ID int64 `json:"id" example:"12"`
}

// Deleted reports whether a preset was removed
type Deleted struct {
	Deleted bool `json:"deleted" example:"true"`
}
