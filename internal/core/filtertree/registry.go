// Package filtertree holds the recursive filter expression model: the field
// operator registry, the tree values, the copy-on-write editor and the wire codec
package filtertree

// Operator names a comparison relation applicable to a field
type Operator string

// Operators known to the default registry
const (
	OpBetween  Operator = "between"
	OpBefore   Operator = "before"
	OpAfter    Operator = "after"
	OpContains Operator = "contains"
	OpEquals   Operator = "equals"
)

// ValueKind is the shape of a single value slot
type ValueKind string

// Value kinds
const (
	KindText ValueKind = "text"
	KindDate ValueKind = "date"
)

// ValueShape is how many value slots an operator takes and what goes in them
type ValueShape struct {
	Arity int       `json:"arity" example:"2"`
	Kind  ValueKind `json:"kind"  example:"date"`
}

// Field describes one filterable attribute of a post
type Field struct {
	Key       string     `json:"key"       example:"createdAt"`
	Label     string     `json:"label"     example:"Created at"`
	Kind      ValueKind  `json:"kind"      example:"date"`
	Operators []Operator `json:"operators"`
}

// Registry is the static field -> operator -> value shape table
// the zero value knows no fields; use DefaultRegistry or NewRegistry
type Registry struct {
	fields []Field
	byKey  map[string]int
	shapes map[Operator]ValueShape
}

// NewRegistry builds a registry from fields and operator shapes
// panics when a field lists an operator with no shape, since that table is programmer input
func NewRegistry(fields []Field, shapes map[Operator]ValueShape) *Registry {
	r := &Registry{
		fields: make([]Field, 0, len(fields)),
		byKey:  make(map[string]int, len(fields)),
		shapes: make(map[Operator]ValueShape, len(shapes)),
	}
	for op, s := range shapes {
		if s.Arity < 1 || s.Arity > 2 {
			panic("filtertree: operator " + string(op) + " has unsupported arity")
		}
		r.shapes[op] = s
	}
	for _, f := range fields {
		if f.Key == "" {
			panic("filtertree: field key is required")
		}
		for _, op := range f.Operators {
			if _, ok := r.shapes[op]; !ok {
				panic("filtertree: field " + f.Key + " lists operator " + string(op) + " with no value shape")
			}
		}
		f.Operators = append([]Operator(nil), f.Operators...)
		r.byKey[f.Key] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

var defaultRegistry = NewRegistry(
	[]Field{
		{Key: "createdAt", Label: "Created at", Kind: KindDate, Operators: []Operator{OpBetween, OpBefore, OpAfter}},
		{Key: "title", Label: "Title", Kind: KindText, Operators: []Operator{OpContains, OpEquals}},
		{Key: "tags", Label: "Tag", Kind: KindText, Operators: []Operator{OpContains}},
	},
	map[Operator]ValueShape{
		OpBetween:  {Arity: 2, Kind: KindDate},
		OpBefore:   {Arity: 1, Kind: KindDate},
		OpAfter:    {Arity: 1, Kind: KindDate},
		OpContains: {Arity: 1, Kind: KindText},
		OpEquals:   {Arity: 1, Kind: KindText},
	},
)

// DefaultRegistry returns the post field table
func DefaultRegistry() *Registry { return defaultRegistry }

// OperatorsFor returns the ordered operators legal for field, empty for unknown fields
func (r *Registry) OperatorsFor(field string) []Operator {
	if r == nil {
		return nil
	}
	i, ok := r.byKey[field]
	if !ok {
		return nil
	}
	return append([]Operator(nil), r.fields[i].Operators...)
}

// ValueShapeFor returns the value shape of op
func (r *Registry) ValueShapeFor(op Operator) (ValueShape, bool) {
	if r == nil {
		return ValueShape{}, false
	}
	s, ok := r.shapes[op]
	return s, ok
}

// Known reports whether field is a registry key
func (r *Registry) Known(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byKey[field]
	return ok
}

// Allows reports whether op is legal for field
func (r *Registry) Allows(field string, op Operator) bool {
	for _, o := range r.OperatorsFor(field) {
		if o == op {
			return true
		}
	}
	return false
}

// Fields returns the known fields in display order
func (r *Registry) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	for i, f := range r.fields {
		f.Operators = append([]Operator(nil), f.Operators...)
		out[i] = f
	}
	return out
}

// Shapes returns a copy of the operator shape table
func (r *Registry) Shapes() map[Operator]ValueShape {
	if r == nil {
		return map[Operator]ValueShape{}
	}
	out := make(map[Operator]ValueShape, len(r.shapes))
	for k, v := range r.shapes {
		out[k] = v
	}
	return out
}
