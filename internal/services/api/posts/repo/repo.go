// Package repo reads posts from postgres or clickhouse with a prepared WHERE clause
package repo

import (
	"context"
	"strconv"
	"time"

	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/store"
)

// Repo defines the repository contract for posts
// where and args come from filtersql in the dialect of the implementation
type Repo interface {
	Find(ctx context.Context, where string, args []any, limit int) ([]RowPost, error)
}

// RowPost is a post row
type RowPost struct {
	ID        int64
	Title     string
	Tags      []string
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

func (r *queries) Find(ctx context.Context, where string, args []any, limit int) ([]RowPost, error) {
	rows, err := r.q.Query(ctx, selectSQL(where, limit), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "filter posts")
	}
	out, err := scanPosts(rows)
	if err != nil {
		return nil, perr.FromPostgres(err, "scan posts")
	}
	return out, nil
}

// selectSQL is shared by both dialects; limit is an int so it is inlined
func selectSQL(where string, limit int) string {
	return `
select id, title, tags, created_at
from posts
where ` + where + `
order by created_at desc, id desc
limit ` + strconv.Itoa(limit)
}

func scanPosts(rows store.Rows) ([]RowPost, error) {
	defer rows.Close()
	out := make([]RowPost, 0, 16)
	for rows.Next() {
		var p RowPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Tags, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
