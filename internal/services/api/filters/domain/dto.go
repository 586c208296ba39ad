// Package domain holds DTOs for the filter builder endpoints
package domain

import (
	"encoding/json"

	"postfilter/internal/core/filtertree"
)

// Fields describes what the builder may offer
type Fields struct {
	Fields   []filtertree.Field                             `json:"fields"`
	Shapes   map[filtertree.Operator]filtertree.ValueShape `json:"shapes"`
	MaxDepth int                                            `json:"max_depth" example:"8"`
}

// FiltersInput carries a tree in either wire encoding
type FiltersInput struct {
	Filters json.RawMessage `json:"filters" validate:"required" swaggertype:"object"`
}

// ConditionState reports the lifecycle state of one condition
type ConditionState struct {
	Group string `json:"group" example:"/0"`
	Index int    `json:"index" example:"1"`
	State string `json:"state" example:"field_selected"`
}

// Validation is the verdict for a submitted tree
// Valid means the payload decoded; Submittable means it can also be queried
type Validation struct {
	Valid       bool                  `json:"valid"`
	Submittable bool                  `json:"submittable"`
	Field       string                `json:"field,omitempty" example:"groups[0].conditions[1].values"`
	Error       string                `json:"error,omitempty"`
	Conditions  int                   `json:"conditions"      example:"3"`
	Depth       int                   `json:"depth"           example:"2"`
	States      []ConditionState      `json:"states,omitempty"`
	Filters     *filtertree.WireGroup `json:"filters,omitempty"`
}

// EditInput applies one intent to tree; an absent tree starts from the empty root
type EditInput struct {
	Tree   json.RawMessage   `json:"tree,omitempty" swaggertype:"object"`
	Intent filtertree.Intent `json:"intent"`
}

// Edited is the tree after an intent
type Edited struct {
	Filters     filtertree.WireGroup `json:"filters"`
	Submittable bool                 `json:"submittable"`
	States      []ConditionState     `json:"states"`
}

// SQLInput asks for the WHERE clause a tree renders to
type SQLInput struct {
	Filters json.RawMessage `json:"filters" validate:"required" swaggertype:"object"`
	Dialect string          `json:"dialect,omitempty" validate:"omitempty,oneof=postgres pg clickhouse ch" example:"postgres"`
}

// SQL is a rendered WHERE clause with its bound arguments
type SQL struct {
	Dialect string `json:"dialect" example:"postgres"`
	Where   string `json:"where"   example:"title ILIKE '%' || $1 || '%'"`
	Args    []any  `json:"args"`
}
