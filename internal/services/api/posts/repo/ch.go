package repo

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/google/uuid"

	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/store"
)

//go:embed schema.sql
var schemaPG string

//go:embed schema_ch.sql
var schemaCH string

// SubmissionsTable receives one row per filter submission
const SubmissionsTable = "filter_submissions"

// NewCH constructs a binder that reads posts from ClickHouse; the bound Queryer is unused
func NewCH(ch store.Clickhouse) repokit.Binder[Repo] {
	if ch == nil {
		panic("posts.NewCH requires a non nil Clickhouse")
	}
	return &chBinder{ch: ch}
}

type chBinder struct{ ch store.Clickhouse }

// Bind returns the ClickHouse Repo
func (b *chBinder) Bind(_ repokit.Queryer) Repo { return &chStore{ch: b.ch} }

type chStore struct{ ch store.Clickhouse }

// Find runs the query; where must use ? placeholders
func (s *chStore) Find(ctx context.Context, where string, args []any, limit int) ([]RowPost, error) {
	rows, err := s.ch.Query(ctx, selectSQL(where, limit), args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "filter posts (clickhouse)")
	}
	out, err := scanPosts(rows)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan posts (clickhouse)")
	}
	return out, nil
}

// Submission is one audit row for a query
type Submission struct {
	ID         uuid.UUID
	At         time.Time
	Backend    string
	Filters    string // canonical wire JSON
	Where      string
	Conditions int
	Depth      int
	Matched    int
	Elapsed    time.Duration
}

// SubmissionLog records submissions for later analysis
type SubmissionLog interface {
	Record(ctx context.Context, s Submission) error
}

// NewSubmissionLog writes submissions to ClickHouse
func NewSubmissionLog(ch store.Clickhouse) SubmissionLog {
	if ch == nil {
		panic("posts.NewSubmissionLog requires a non nil Clickhouse")
	}
	return chLog{ch: ch}
}

type chLog struct{ ch store.Clickhouse }

func (l chLog) Record(ctx context.Context, s Submission) error {
	row := []any{
		s.ID, s.At.UTC(), s.Backend, s.Filters, s.Where,
		uint16(s.Conditions), uint8(s.Depth), uint32(s.Matched), uint32(s.Elapsed.Milliseconds()),
	}
	if err := l.ch.Insert(ctx, SubmissionsTable, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "record filter submission")
	}
	return nil
}

// EnsureSchema creates the posts table in postgres
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaPG); err != nil {
		return perr.FromPostgres(err, "ensure posts schema")
	}
	return nil
}

// EnsureSchemaCH creates the posts replica and the submissions table in clickhouse
func EnsureSchemaCH(ctx context.Context, ch store.Clickhouse) error {
	for _, stmt := range statements(schemaCH) {
		if err := ch.Exec(ctx, stmt); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "ensure clickhouse schema")
		}
	}
	return nil
}

// statements splits a DDL file on ';' and drops comment-only chunks
func statements(sql string) []string {
	var out []string
	for _, chunk := range strings.Split(sql, ";") {
		var keep []string
		for _, line := range strings.Split(chunk, "\n") {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
				keep = append(keep, line)
			}
		}
		if len(keep) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(keep, "\n")))
		}
	}
	return out
}
