package domain

import "context"

// ServicePort defines the service contract for presets; every call is scoped to owner
type ServicePort interface {
	List(ctx context.Context, owner string) ([]Preset, error)
	Save(ctx context.Context, owner string, in SaveInput) (Saved, error)
	Load(ctx context.Context, owner string, id int64) (Loaded, error)
	Remove(ctx context.Context, owner string, id int64) (Deleted, error)
}
