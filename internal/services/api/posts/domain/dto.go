// Package domain holds DTOs for the post query endpoints
package domain

import "encoding/json"

// FilterInput is a submitted tree plus an optional page size
type FilterInput struct {
	Filters json.RawMessage `json:"filters"         validate:"required" swaggertype:"object"`
	Limit   int             `json:"limit,omitempty" validate:"omitempty,min=1,max=1000" example:"50"`
}

// Post is one matching row
type Post struct {
	ID        int64    `json:"id"         example:"42"`
	Title     string   `json:"title"      example:"Release notes"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at" example:"2024-03-01T09:30:00Z"`
}

// FilterResult is the answer to one submission
type FilterResult struct {
	SubmissionID string `json:"submission_id" example:"5f0c6a3e-8e0b-4c1e-9d7e-2f1b6f0f8f55"`
	Backend      string `json:"backend"       example:"postgres"`
	Count        int    `json:"count"         example:"1"`
	Posts        []Post `json:"posts"`
}
