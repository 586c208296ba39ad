// Package service contains preset workflows
package service

import (
	"context"
	"time"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/core/presetgw"
	"postfilter/internal/modkit/repokit"
	"postfilter/internal/platform/logger"
	"postfilter/internal/services/api/presets/domain"
	"postfilter/internal/services/api/presets/repo"
)

// Service defines the service contract for presets
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
	gw   *presetgw.Gateway
}

// New creates a new presets service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], codec *filtertree.Codec) *Svc {
	if db == nil {
		panic("presets.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("presets.Service requires a non nil Repo binder")
	}
	r := binder.Bind(db)
	return &Svc{Repo: r, gw: presetgw.New(pgStore{repo: r, db: db, binder: binder}, codec)}
}

// EnsureSchema creates the presets table when missing
func (s *Svc) EnsureSchema(ctx context.Context) error { return s.Repo.EnsureSchema(ctx) }

// List returns the owner's presets with filters as stored
func (s *Svc) List(ctx context.Context, owner string) ([]domain.Preset, error) {
	ps, err := s.gw.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Preset, 0, len(ps))
	for _, p := range ps {
		out = append(out, domain.Preset{
			ID:        p.ID,
			Name:      p.Name,
			Filters:   p.Filters,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// Save validates the submitted tree and stores it under owner
func (s *Svc) Save(ctx context.Context, owner string, in domain.SaveInput) (domain.Saved, error) {
	tree, err := s.gw.Codec().Decode(filtertree.PayloadFromJSON(in.Filters))
	if err != nil {
		return domain.Saved{}, err
	}
	id, err := s.gw.Save(ctx, owner, in.Name, tree)
	if err != nil {
		return domain.Saved{}, err
	}
	logger.C(ctx).Info().Int64("preset_id", id).Int("conditions", tree.CountConditions()).Msg("preset saved")
	return domain.Saved{ID: id}, nil
}

// Load decodes one preset into an editable tree
func (s *Svc) Load(ctx context.Context, owner string, id int64) (domain.Loaded, error) {
	p, tree, err := s.gw.Load(ctx, owner, id)
	if err != nil {
		return domain.Loaded{}, err
	}
	return domain.Loaded{
		ID:        p.ID,
		Name:      p.Name,
		Filters:   filtertree.ToWire(tree),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// Remove deletes one of the owner's presets
func (s *Svc) Remove(ctx context.Context, owner string, id int64) (domain.Deleted, error) {
	ok, err := s.gw.Remove(ctx, owner, id)
	if err != nil {
		return domain.Deleted{}, err
	}
	return domain.Deleted{Deleted: ok}, nil
}
