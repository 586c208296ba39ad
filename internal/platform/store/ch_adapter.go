package store

import (
	"context"

	"postfilter/internal/platform/store/ch"
)

// chSeam is *ch.CH with driver rows narrowed to Rows
type chSeam struct{ *ch.CH }

var (
	_ Clickhouse = chSeam{}
	_ Pinger     = chSeam{}
)

func (c chSeam) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := c.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
