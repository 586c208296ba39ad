package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/core/presetgw"
	"postfilter/internal/modkit/repokit"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/store"
	"postfilter/internal/platform/testkit"
	"postfilter/internal/services/api/presets/domain"
	"postfilter/internal/services/api/presets/repo"
)

// fakeDB satisfies repokit.TxRunner; the fake repo never touches it
type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (fakeDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error    { return fn(fakeDB{}) }

// memRepo stores raw jsonb bytes the way postgres would hand them back
type memRepo struct {
	rows   map[string][]repo.RowPreset
	nextID int64
	err    error
}

func (m *memRepo) EnsureSchema(context.Context) error { return m.err }

func (m *memRepo) List(_ context.Context, owner string) ([]repo.RowPreset, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[owner], nil
}

func (m *memRepo) Insert(_ context.Context, owner, name string, filters json.RawMessage) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	m.rows[owner] = append(m.rows[owner], repo.RowPreset{
		ID: m.nextID, Name: name, Filters: filters,
		CreatedAt: time.Date(2025, 9, 3, 13, 0, 0, 0, time.UTC),
	})
	return m.nextID, nil
}

func (m *memRepo) Delete(_ context.Context, owner string, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i, r := range m.rows[owner] {
		if r.ID == id {
			m.rows[owner] = append(m.rows[owner][:i:i], m.rows[owner][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newSvc(t *testing.T) (*Svc, *memRepo) {
	t.Helper()
	mr := &memRepo{rows: map[string][]repo.RowPreset{}}
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return mr })
	return New(fakeDB{}, binder, nil), mr
}

const titleTree = `{"operator":"AND","conditions":[{"field":"title","operator":"contains","values":["release"]}],"groups":[]}`

func TestSvc_SaveLoadRemove(t *testing.T) {
	t.Parallel()
	s, _ := newSvc(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "u1", domain.SaveInput{Name: "releases", Filters: json.RawMessage(titleTree)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := s.List(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}
	if list[0].CreatedAt != "2025-09-03T13:00:00Z" {
		t.Fatalf("created_at = %q", list[0].CreatedAt)
	}

	loaded, err := s.Load(ctx, "u1", saved.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Filters.Operator != "AND" || len(loaded.Filters.Conditions) != 1 || loaded.Filters.Conditions[0].Values[0] != "release" {
		t.Fatalf("loaded filters = %+v", loaded.Filters)
	}

	del, err := s.Remove(ctx, "u1", saved.ID)
	if err != nil || !del.Deleted {
		t.Fatalf("Remove = %+v, %v", del, err)
	}
	if _, err := s.Load(ctx, "u1", saved.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Load after remove = %v", err)
	}
}

func TestSvc_SaveAcceptsDoubleEncodedFilters(t *testing.T) {
	t.Parallel()
	s, mr := newSvc(t)
	quoted, _ := json.Marshal(titleTree)

	if _, err := s.Save(context.Background(), "u1", domain.SaveInput{Name: "q", Filters: quoted}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(mr.rows["u1"][0].Filters, &stored); err != nil {
		t.Fatalf("stored filters should be a JSON object: %v", err)
	}
}

func TestSvc_SaveRejectsDraftTree(t *testing.T) {
	t.Parallel()
	s, mr := newSvc(t)
	draft := `{"operator":"AND","conditions":[{"field":"","operator":"","values":[""]}]}`

	_, err := s.Save(context.Background(), "u1", domain.SaveInput{Name: "d", Filters: json.RawMessage(draft)})
	if !filtertree.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(mr.rows["u1"]) != 0 {
		t.Fatalf("draft reached the repo")
	}
}

func TestSvc_ListEchoesUndecodableRows(t *testing.T) {
	t.Parallel()
	s, mr := newSvc(t)
	mr.rows["u1"] = []repo.RowPreset{{ID: 9, Name: "old", Filters: json.RawMessage(`{"operator":"XOR"}`)}}

	list, err := s.List(context.Background(), "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}
	if _, err := s.Load(context.Background(), "u1", 9); !filtertree.IsValidation(err) {
		t.Fatalf("Load should fail validation, got %v", err)
	}
}

func TestSvc_RepoErrorsSurfaceAsRemote(t *testing.T) {
	t.Parallel()
	s, mr := newSvc(t)
	mr.err = errors.New("pool closed")

	_, err := s.List(context.Background(), "u1")
	if !presetgw.IsRemote(err) || !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("List err = %v", err)
	}
}

// txDB counts transactions and hands fn a marker Queryer so binds can be traced
type txDB struct {
	fakeDB
	txs      int
	beginErr error
}

type txQueryer struct{ fakeDB }

func (d *txDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	if d.beginErr != nil {
		return d.beginErr
	}
	d.txs++
	return fn(txQueryer{})
}

func TestSvc_WritesRunInTransaction(t *testing.T) {
	t.Parallel()
	mr := &memRepo{rows: map[string][]repo.RowPreset{}}
	var inTx int
	binder := repokit.BindFunc[repo.Repo](func(q repokit.Queryer) repo.Repo {
		if _, ok := q.(txQueryer); ok {
			inTx++
		}
		return mr
	})
	db := &txDB{}
	s := New(db, binder, nil)
	ctx := context.Background()

	saved, err := s.Save(ctx, "u1", domain.SaveInput{Name: "releases", Filters: json.RawMessage(titleTree)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Remove(ctx, "u1", saved.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if db.txs != 2 || inTx != 2 {
		t.Fatalf("txs = %d, tx binds = %d", db.txs, inTx)
	}

	db.beginErr = errors.New("begin refused")
	_, err = s.Save(ctx, "u1", domain.SaveInput{Name: "again", Filters: json.RawMessage(titleTree)})
	if !presetgw.IsRemote(err) || !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("Save err = %v (code %v)", err, perr.CodeOf(err))
	}
}

func TestNew_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return &memRepo{} })
	testkit.MustPanic(t, func() { New(nil, binder, nil) })
	testkit.MustPanic(t, func() { New(fakeDB{}, nil, nil) })
}
