package filtertree

import (
	"testing"

	"postfilter/internal/platform/testkit"
)

func TestRegistry_DefaultTable(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()

	cases := []struct {
		field string
		want  []Operator
	}{
		{"createdAt", []Operator{OpBetween, OpBefore, OpAfter}},
		{"title", []Operator{OpContains, OpEquals}},
		{"tags", []Operator{OpContains}},
		{"", nil},
		{"author", nil},
	}
	for _, c := range cases {
		got := reg.OperatorsFor(c.field)
		if len(got) != len(c.want) {
			t.Fatalf("OperatorsFor(%q) = %v, want %v", c.field, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("OperatorsFor(%q)[%d] = %q, want %q", c.field, i, got[i], c.want[i])
			}
		}
	}
}

func TestRegistry_EveryListedOperatorHasShape(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()
	for _, f := range reg.Fields() {
		for _, op := range reg.OperatorsFor(f.Key) {
			s, ok := reg.ValueShapeFor(op)
			if !ok {
				t.Fatalf("operator %q on %q has no shape", op, f.Key)
			}
			if s.Arity != 1 && s.Arity != 2 {
				t.Fatalf("operator %q arity = %d", op, s.Arity)
			}
			if s.Kind != f.Kind {
				t.Fatalf("operator %q kind %q does not match field %q kind %q", op, s.Kind, f.Key, f.Kind)
			}
		}
	}
	if s, _ := reg.ValueShapeFor(OpBetween); s.Arity != 2 || s.Kind != KindDate {
		t.Fatalf("between shape = %+v", s)
	}
}

func TestRegistry_CopiesDoNotLeak(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()
	ops := reg.OperatorsFor("title")
	ops[0] = "hijacked"
	if reg.OperatorsFor("title")[0] != OpContains {
		t.Fatalf("OperatorsFor returned the internal slice")
	}
	fields := reg.Fields()
	fields[0].Operators[0] = "hijacked"
	if reg.Fields()[0].Operators[0] != OpBetween {
		t.Fatalf("Fields returned internal operator slices")
	}
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	t.Parallel()
	var reg *Registry
	if len(reg.OperatorsFor("title")) != 0 || reg.Known("title") || reg.Allows("title", OpContains) {
		t.Fatalf("nil registry should know nothing")
	}
	if _, ok := reg.ValueShapeFor(OpContains); ok {
		t.Fatalf("nil registry should have no shapes")
	}
}

func TestNewRegistry_PanicsOnMissingShape(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() {
		NewRegistry([]Field{{Key: "x", Operators: []Operator{"gt"}}}, map[Operator]ValueShape{})
	})
	testkit.MustPanic(t, func() {
		NewRegistry(nil, map[Operator]ValueShape{"gt": {Arity: 3}})
	})
	testkit.MustPanic(t, func() {
		NewRegistry([]Field{{Key: ""}}, nil)
	})
}
