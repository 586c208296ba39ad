package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"postfilter/internal/core/filtersql"
	"postfilter/internal/core/filtertree"
	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/store"
	"postfilter/internal/platform/testkit"
	"postfilter/internal/services/api/posts/domain"
	"postfilter/internal/services/api/posts/repo"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (fakeDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error    { return fn(fakeDB{}) }

type fakeRepo struct {
	where string
	args  []any
	limit int
	calls int
	rows  []repo.RowPost
	err   error
}

func (f *fakeRepo) Find(_ context.Context, where string, args []any, limit int) ([]repo.RowPost, error) {
	f.calls++
	f.where, f.args, f.limit = where, args, limit
	return f.rows, f.err
}

type fakeLog struct {
	got []repo.Submission
	err error
}

func (f *fakeLog) Record(_ context.Context, s repo.Submission) error {
	f.got = append(f.got, s)
	return f.err
}

var fixedID = uuid.MustParse("5f0c6a3e-8e0b-4c1e-9d7e-2f1b6f0f8f55")

func newSvc(fr *fakeRepo, fl *fakeLog, d filtersql.Dialect) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	opts := Options{
		Dialect:      d,
		DefaultLimit: 100,
		NewID:        func() uuid.UUID { return fixedID },
	}
	if fl != nil {
		opts.Submissions = fl
	}
	return New(fakeDB{}, binder, opts)
}

func TestSvc_FilterRendersAndMaps(t *testing.T) {
	t.Parallel()
	fr := &fakeRepo{rows: []repo.RowPost{
		{ID: 1, Title: "Release 1.2", Tags: []string{"go"}, CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{ID: 2, Title: "Release 1.1"},
	}}
	fl := &fakeLog{}
	s := newSvc(fr, fl, filtersql.Postgres)

	payload := `{"operator":"AND","conditions":[{"field":"title","operator":"contains","values":["release"]}],"groups":[]}`
	out, err := s.Filter(context.Background(), domain.FilterInput{Filters: json.RawMessage(payload), Limit: 10})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if fr.where != `title ILIKE '%' || $1 || '%'` || len(fr.args) != 1 || fr.limit != 10 {
		t.Fatalf("repo got where=%q args=%v limit=%d", fr.where, fr.args, fr.limit)
	}
	if out.Count != 2 || out.Backend != "postgres" || out.SubmissionID != fixedID.String() {
		t.Fatalf("result = %+v", out)
	}
	if out.Posts[0].CreatedAt != "2024-03-01T09:30:00Z" || out.Posts[1].Tags == nil {
		t.Fatalf("posts = %+v", out.Posts)
	}
	if len(fl.got) != 1 || fl.got[0].Matched != 2 || fl.got[0].Conditions != 1 || fl.got[0].ID != fixedID {
		t.Fatalf("submission = %+v", fl.got)
	}
	if fl.got[0].Filters != payload {
		t.Fatalf("logged filters = %s", fl.got[0].Filters)
	}
}

func TestSvc_FilterLimitIsCapped(t *testing.T) {
	t.Parallel()
	fr := &fakeRepo{}
	s := newSvc(fr, nil, filtersql.ClickHouse)
	empty := json.RawMessage(`{"operator":"AND","conditions":[]}`)

	if _, err := s.Filter(context.Background(), domain.FilterInput{Filters: empty, Limit: 1000}); err != nil {
		t.Fatal(err)
	}
	if fr.limit != 100 || fr.where != "TRUE" {
		t.Fatalf("limit=%d where=%q", fr.limit, fr.where)
	}
}

func TestSvc_FilterRejectsBeforeQuery(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"draft":       `{"operator":"AND","conditions":[{"field":"title","operator":"","values":[""]}]}`,
		"bad date":    `{"operator":"AND","conditions":[{"field":"createdAt","operator":"before","values":["03/01/2024"]}]}`,
		"not a tree":  `[1,2,3]`,
		"bad logical": `{"operator":"NOT","conditions":[]}`,
	}
	for name, payload := range cases {
		fr := &fakeRepo{}
		_, err := newSvc(fr, nil, filtersql.Postgres).Filter(context.Background(), domain.FilterInput{Filters: json.RawMessage(payload)})
		if !filtertree.IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
		if fr.calls != 0 {
			t.Fatalf("%s: store was queried", name)
		}
	}
}

func TestSvc_StoreAndLogFailures(t *testing.T) {
	t.Parallel()
	empty := json.RawMessage(`{"operator":"OR","conditions":[]}`)

	fr := &fakeRepo{err: perr.Wrap(errors.New("conn refused"), perr.ErrorCodeDB, "filter posts")}
	fl := &fakeLog{}
	if _, err := newSvc(fr, fl, filtersql.Postgres).Filter(context.Background(), domain.FilterInput{Filters: empty}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("store failure err = %v", err)
	}
	if len(fl.got) != 0 {
		t.Fatalf("failed queries should not be recorded")
	}

	fl = &fakeLog{err: errors.New("ch down")}
	if _, err := newSvc(&fakeRepo{}, fl, filtersql.Postgres).Filter(context.Background(), domain.FilterInput{Filters: empty}); err != nil {
		t.Fatalf("log failure should not fail the request: %v", err)
	}
}

func TestNew_Panics(t *testing.T) {
	t.Parallel()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return &fakeRepo{} })
	testkit.MustPanic(t, func() { New(nil, binder, Options{}) })
	testkit.MustPanic(t, func() { New(fakeDB{}, nil, Options{}) })
}
