package domain

import "context"

// ServicePort defines the service contract for the filter builder
type ServicePort interface {
	Fields(ctx context.Context) (Fields, error)
	Validate(ctx context.Context, in FiltersInput) (Validation, error)
	Edit(ctx context.Context, in EditInput) (Edited, error)
	SQL(ctx context.Context, in SQLInput) (SQL, error)
}
