package service

import (
	"context"
	"encoding/json"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/core/presetgw"
	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/services/api/presets/repo"
)

// pgStore adapts the presets repo to the gateway Store port
// reads use repo; writes bind a fresh repo inside a transaction on db
type pgStore struct {
	repo   repo.Repo
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
}

// inTx runs fn on a repo bound to one transaction; begin and commit failures are mapped like query errors
func (s pgStore) inTx(ctx context.Context, op string, fn func(r repo.Repo) error) error {
	err := s.db.Tx(ctx, func(q repokit.Queryer) error { return fn(s.binder.Bind(q)) })
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.FromPostgres(err, op)
}

var _ presetgw.Store = pgStore{}

func (s pgStore) List(ctx context.Context, owner string) ([]presetgw.Preset, error) {
	rows, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]presetgw.Preset, 0, len(rows))
	for _, r := range rows {
		out = append(out, presetgw.Preset{
			ID:        r.ID,
			Name:      r.Name,
			Filters:   filtertree.PayloadFromJSON(r.Filters),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s pgStore) Save(ctx context.Context, owner, name string, filters filtertree.WireGroup) (int64, error) {
	raw, err := json.Marshal(filters)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.inTx(ctx, "save preset", func(r repo.Repo) error {
		id, err = r.Insert(ctx, owner, name, raw)
		return err
	})
	return id, err
}

func (s pgStore) Remove(ctx context.Context, owner string, id int64) (bool, error) {
	var ok bool
	err := s.inTx(ctx, "delete preset", func(r repo.Repo) error {
		var err error
		ok, err = r.Delete(ctx, owner, id)
		return err
	})
	return ok, err
}
