// Package service contains the filter builder workflows
package service

import (
	"context"

	"postfilter/internal/core/filtersql"
	"postfilter/internal/core/filtertree"
	perr "postfilter/internal/platform/errors"
	"postfilter/internal/services/api/filters/domain"
)

// Service defines the service contract for the filter builder
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	codec  *filtertree.Codec
	editor *filtertree.Editor
	cols   map[string]filtersql.Column
}

// New creates a filter builder service; the editor shares the codec's registry and depth limit
func New(codec *filtertree.Codec) *Svc {
	if codec == nil {
		panic("filters.Service requires a non nil Codec")
	}
	return &Svc{
		codec:  codec,
		editor: filtertree.NewEditor(codec.Registry(), filtertree.WithMaxDepth(codec.MaxDepth())),
		cols:   filtersql.DefaultColumns(),
	}
}

// Codec returns the codec trees are checked with
func (s *Svc) Codec() *filtertree.Codec { return s.codec }

// Editor returns the editor intents are applied with
func (s *Svc) Editor() *filtertree.Editor { return s.editor }

// Fields lists the registry in display order
func (s *Svc) Fields(context.Context) (domain.Fields, error) {
	reg := s.codec.Registry()
	return domain.Fields{Fields: reg.Fields(), Shapes: reg.Shapes(), MaxDepth: s.codec.MaxDepth()}, nil
}

// Validate reports whether a payload decodes and whether it can be queried
// rejections are part of the verdict, not request errors
func (s *Svc) Validate(_ context.Context, in domain.FiltersInput) (domain.Validation, error) {
	tree, err := s.codec.Decode(filtertree.PayloadFromJSON(in.Filters))
	if err != nil {
		return reject(domain.Validation{}, err)
	}
	wire := filtertree.ToWire(tree)
	out := domain.Validation{
		Valid:      true,
		Conditions: tree.CountConditions(),
		Depth:      tree.Depth(),
		States:     s.states(tree),
		Filters:    &wire,
	}
	if err := s.codec.Submittable(tree); err != nil {
		return reject(out, err)
	}
	out.Submittable = true
	return out, nil
}

// Edit applies one intent; an invalid intent is a request error and the tree is not echoed
func (s *Svc) Edit(_ context.Context, in domain.EditInput) (domain.Edited, error) {
	root := filtertree.Empty()
	if len(in.Tree) > 0 && string(in.Tree) != "null" {
		t, err := s.codec.Decode(filtertree.PayloadFromJSON(in.Tree))
		if err != nil {
			return domain.Edited{}, perr.WithField(err, underTree(fieldOf(err)))
		}
		root = t
	}
	next, err := s.editor.Apply(root, in.Intent)
	if err != nil {
		return domain.Edited{}, err
	}
	return domain.Edited{
		Filters:     filtertree.ToWire(next),
		Submittable: s.codec.Submittable(next) == nil,
		States:      s.states(next),
	}, nil
}

// SQL renders the WHERE clause a tree would be queried with
func (s *Svc) SQL(_ context.Context, in domain.SQLInput) (domain.SQL, error) {
	d, err := filtersql.ParseDialect(in.Dialect)
	if err != nil {
		return domain.SQL{}, err
	}
	tree, err := s.codec.Decode(filtertree.PayloadFromJSON(in.Filters))
	if err != nil {
		return domain.SQL{}, err
	}
	where, args, err := filtersql.New(d, filtersql.WithCodec(s.codec), filtersql.WithColumns(s.cols)).Where(tree)
	if err != nil {
		return domain.SQL{}, err
	}
	if args == nil {
		args = []any{}
	}
	return domain.SQL{Dialect: d.String(), Where: where, Args: args}, nil
}

func (s *Svc) states(g filtertree.Group) []domain.ConditionState {
	out := make([]domain.ConditionState, 0, g.CountConditions())
	reg := s.codec.Registry()
	g.EachCondition(func(at filtertree.Path, i int, c filtertree.Condition) bool {
		out = append(out, domain.ConditionState{Group: at.String(), Index: i, State: filtertree.StateOf(reg, c).String()})
		return true
	})
	return out
}

// reject folds a ValidationError into the verdict and passes anything else through
func reject(v domain.Validation, err error) (domain.Validation, error) {
	if !filtertree.IsValidation(err) {
		return domain.Validation{}, err
	}
	v.Field = fieldOf(err)
	v.Error = err.Error()
	return v, nil
}

func fieldOf(err error) string {
	if e, ok := perr.As(err); ok {
		return e.Field()
	}
	return ""
}

func underTree(field string) string {
	if field == "" {
		return "tree"
	}
	return "tree." + field
}
