// Package repo provides postgres access for filter presets
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL for the presets table
func Schema() string { return schemaSQL }

// Repo defines the repository contract for presets
type Repo interface {
	EnsureSchema(ctx context.Context) error
	List(ctx context.Context, owner string) ([]RowPreset, error)
	Insert(ctx context.Context, owner, name string, filters json.RawMessage) (int64, error)
	Delete(ctx context.Context, owner string, id int64) (bool, error)
}

// RowPreset is a preset row; Filters is the raw jsonb value
type RowPreset struct {
	ID        int64
	Name      string
	Filters   json.RawMessage
	CreatedAt time.Time
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "ensure filter_presets schema")
	}
	return nil
}

func (r *queries) List(ctx context.Context, owner string) ([]RowPreset, error) {
	const sql = `
select id, name, filters, created_at
from filter_presets
where owner_id = $1
order by created_at desc, id desc
`
	rows, err := r.q.Query(ctx, sql, owner)
	if err != nil {
		return nil, perr.FromPostgres(err, "list presets")
	}
	defer rows.Close()
	var out []RowPreset
	for rows.Next() {
		var rp RowPreset
		var raw []byte
		if err := rows.Scan(&rp.ID, &rp.Name, &raw, &rp.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan preset")
		}
		rp.Filters = json.RawMessage(raw)
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list presets")
	}
	return out, nil
}

func (r *queries) Insert(ctx context.Context, owner, name string, filters json.RawMessage) (int64, error) {
	const sql = `
insert into filter_presets (owner_id, name, filters)
values ($1, $2, $3::jsonb)
returning id
`
	var id int64
	if err := r.q.QueryRow(ctx, sql, owner, name, string(filters)).Scan(&id); err != nil {
		return 0, perr.FromPostgres(err, "save preset")
	}
	return id, nil
}

func (r *queries) Delete(ctx context.Context, owner string, id int64) (bool, error) {
	const sql = `delete from filter_presets where owner_id = $1 and id = $2`
	tag, err := r.q.Exec(ctx, sql, owner, id)
	if err != nil {
		return false, perr.FromPostgres(err, "delete preset")
	}
	return tag.RowsAffected() > 0, nil
}
