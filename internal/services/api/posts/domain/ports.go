package domain

import "context"

// ServicePort defines the service contract for post queries
type ServicePort interface {
	Filter(ctx context.Context, in FilterInput) (FilterResult, error)
}
