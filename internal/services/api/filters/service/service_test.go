package service

import (
	"context"
	"encoding/json"
	"testing"

	"postfilter/internal/core/filtertree"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/platform/testkit"
	"postfilter/internal/services/api/filters/domain"
)

func newSvc() *Svc { return New(filtertree.NewCodec(nil, 3)) }

func TestSvc_FieldsMirrorsRegistry(t *testing.T) {
	t.Parallel()
	out, err := newSvc().Fields(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Fields) != 3 || out.Fields[0].Key != "createdAt" || out.MaxDepth != 3 {
		t.Fatalf("fields = %+v", out)
	}
	if out.Shapes[filtertree.OpBetween].Arity != 2 {
		t.Fatalf("between shape = %+v", out.Shapes[filtertree.OpBetween])
	}
}

func TestSvc_Validate(t *testing.T) {
	t.Parallel()
	s := newSvc()
	cases := []struct {
		name        string
		payload     string
		valid       bool
		submittable bool
		field       string
	}{
		{"empty tree", `{"operator":"AND","conditions":[],"groups":[]}`, true, true, ""},
		{"configured", `{"operator":"OR","conditions":[{"field":"tags","operator":"contains","values":["go"]}]}`, true, true, ""},
		{"draft", `{"operator":"AND","conditions":[{"field":"title","operator":"","values":[""]}]}`, true, false, "conditions[0].operator"},
		{"bad operator", `{"operator":"XOR","conditions":[]}`, false, false, "operator"},
		{"double encoded", `"{\"operator\":\"AND\",\"conditions\":[]}"`, true, true, ""},
	}
	for _, tc := range cases {
		v, err := s.Validate(context.Background(), domain.FiltersInput{Filters: json.RawMessage(tc.payload)})
		if err != nil {
			t.Fatalf("%s: unexpected request error %v", tc.name, err)
		}
		if v.Valid != tc.valid || v.Submittable != tc.submittable {
			t.Fatalf("%s: valid=%v submittable=%v (%s)", tc.name, v.Valid, v.Submittable, v.Error)
		}
		if tc.field != "" && v.Field != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, v.Field, tc.field)
		}
		if tc.valid && v.Filters == nil {
			t.Fatalf("%s: decoded tree should be echoed", tc.name)
		}
	}
}

func TestSvc_EditFromEmptyRoot(t *testing.T) {
	t.Parallel()
	s := newSvc()
	ctx := context.Background()

	out, err := s.Edit(ctx, domain.EditInput{Intent: filtertree.Intent{Kind: filtertree.IntentAddCondition}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(out.Filters.Conditions) != 1 || out.Submittable {
		t.Fatalf("after add = %+v", out)
	}
	if len(out.States) != 1 || out.States[0].State != "empty" || out.States[0].Group != "/" {
		t.Fatalf("states = %+v", out.States)
	}

	tree, _ := json.Marshal(out.Filters)
	out, err = s.Edit(ctx, domain.EditInput{Tree: tree, Intent: filtertree.Intent{Kind: filtertree.IntentUpdateField, Value: "title"}})
	if err != nil {
		t.Fatalf("update field: %v", err)
	}
	if out.States[0].State != "field_selected" {
		t.Fatalf("state = %q", out.States[0].State)
	}
}

func TestSvc_EditRejections(t *testing.T) {
	t.Parallel()
	s := newSvc()
	ctx := context.Background()

	_, err := s.Edit(ctx, domain.EditInput{
		Tree:   json.RawMessage(`{"operator":"NAND","conditions":[]}`),
		Intent: filtertree.Intent{Kind: filtertree.IntentAddCondition},
	})
	if e, ok := perr.As(err); !ok || e.Field() != "tree.operator" {
		t.Fatalf("bad tree err = %v", err)
	}

	one := json.RawMessage(`{"operator":"AND","conditions":[{"field":"","operator":"","values":[""]}]}`)
	_, err = s.Edit(ctx, domain.EditInput{Tree: one, Intent: filtertree.Intent{Kind: filtertree.IntentUpdateField, Value: "author"}})
	if !filtertree.IsValidation(err) {
		t.Fatalf("unknown field should be a ValidationError, got %v", err)
	}

	deep := json.RawMessage(`{"operator":"AND","conditions":[],"groups":[{"operator":"AND","conditions":[],"groups":[{"operator":"AND","conditions":[]}]}]}`)
	_, err = s.Edit(ctx, domain.EditInput{Tree: deep, Intent: filtertree.Intent{Kind: filtertree.IntentAddGroup, Path: []int{0, 0}}})
	if !filtertree.IsValidation(err) {
		t.Fatalf("depth limit should be enforced, got %v", err)
	}
}

func TestSvc_SQL(t *testing.T) {
	t.Parallel()
	s := newSvc()
	payload := json.RawMessage(`{"operator":"AND","conditions":[{"field":"title","operator":"equals","values":["x"]}]}`)

	out, err := s.SQL(context.Background(), domain.SQLInput{Filters: payload, Dialect: "ch"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Dialect != "clickhouse" || out.Where != "title = ?" || len(out.Args) != 1 {
		t.Fatalf("sql = %+v", out)
	}

	out, err = s.SQL(context.Background(), domain.SQLInput{Filters: json.RawMessage(`{"operator":"AND","conditions":[]}`)})
	if err != nil || out.Where != "TRUE" || out.Args == nil {
		t.Fatalf("empty tree sql = %+v, %v", out, err)
	}

	draft := json.RawMessage(`{"operator":"AND","conditions":[{"field":"","operator":"","values":[""]}]}`)
	if _, err := s.SQL(context.Background(), domain.SQLInput{Filters: draft}); !filtertree.IsValidation(err) {
		t.Fatalf("draft should not render, got %v", err)
	}
}

func TestNew_PanicsWithoutCodec(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil) })
}
