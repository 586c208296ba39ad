package filtertree

import "time"

// DefaultMaxDepth bounds nesting when no limit is configured
const DefaultMaxDepth = 8

// dateLayout is the only accepted date value format
const dateLayout = "2006-01-02"

// Editor applies single user intents to a tree
// every operation returns a new root and leaves its input untouched; on a
// validation failure the input root comes back unchanged next to the error
// subtrees off the edited path are shared between the old and new roots, so
// callers treat trees as immutable values and Clone before mutating in place
type Editor struct {
	reg      *Registry
	maxDepth int
}

// EditorOption configures an Editor
type EditorOption func(*Editor)

// WithMaxDepth caps the number of group levels, root included; n < 1 keeps the default
func WithMaxDepth(n int) EditorOption {
	return func(e *Editor) {
		if n >= 1 {
			e.maxDepth = n
		}
	}
}

// NewEditor builds an editor over reg; a nil reg uses DefaultRegistry
func NewEditor(reg *Registry, opts ...EditorOption) *Editor {
	if reg == nil {
		reg = DefaultRegistry()
	}
	e := &Editor{reg: reg, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Registry returns the registry the editor validates against
func (e *Editor) Registry() *Registry { return e.reg }

// MaxDepth returns the nesting limit
func (e *Editor) MaxDepth() int { return e.maxDepth }

// SetGroupOperator replaces the logical operator of the group at path
func (e *Editor) SetGroupOperator(root Group, path Path, op LogicalOp) (Group, error) {
	if !op.Valid() {
		return root, invalid(where(path, "operator"), "logical operator must be AND or OR, got %q", op)
	}
	return e.update(root, path, func(g Group) (Group, error) {
		g.Op = op
		return g, nil
	})
}

// AddCondition appends a blank condition to the group at path
func (e *Editor) AddCondition(root Group, path Path) (Group, error) {
	return e.update(root, path, func(g Group) (Group, error) {
		conds := make([]Condition, len(g.Conditions), len(g.Conditions)+1)
		copy(conds, g.Conditions)
		g.Conditions = append(conds, NewCondition())
		return g, nil
	})
}

// RemoveCondition drops the condition at index keeping the order of the rest
func (e *Editor) RemoveCondition(root Group, path Path, index int) (Group, error) {
	return e.update(root, path, func(g Group) (Group, error) {
		if index < 0 || index >= len(g.Conditions) {
			return g, invalid(where(path, condAt(index)), "no condition at index %d", index)
		}
		conds := make([]Condition, 0, len(g.Conditions)-1)
		conds = append(conds, g.Conditions[:index]...)
		g.Conditions = append(conds, g.Conditions[index+1:]...)
		return g, nil
	})
}

// UpdateField sets the field and resets operator and values, since operator
// legality depends on the field
func (e *Editor) UpdateField(root Group, path Path, index int, field string) (Group, error) {
	if field != "" && !e.reg.Known(field) {
		return root, invalid(where(path, condAt(index), "field"), "unknown field %q", field)
	}
	return e.updateCondition(root, path, index, func(c Condition) (Condition, error) {
		return Condition{Field: field, Values: []string{""}}, nil
	})
}

// UpdateOperator sets an operator legal for the condition's field and reshapes values
func (e *Editor) UpdateOperator(root Group, path Path, index int, op Operator) (Group, error) {
	return e.updateCondition(root, path, index, func(c Condition) (Condition, error) {
		at := where(path, condAt(index), "operator")
		if c.Field == "" {
			return c, invalid(at, "select a field before an operator")
		}
		if !e.reg.Allows(c.Field, op) {
			return c, invalid(at, "operator %q is not allowed for field %q", op, c.Field)
		}
		shape, _ := e.reg.ValueShapeFor(op)
		return Condition{Field: c.Field, Operator: op, Values: make([]string, shape.Arity)}, nil
	})
}

// UpdateValue sets one value slot of a configured condition
func (e *Editor) UpdateValue(root Group, path Path, index, slot int, value string) (Group, error) {
	return e.updateCondition(root, path, index, func(c Condition) (Condition, error) {
		at := where(path, condAt(index), "values")
		switch StateOf(e.reg, c) {
		case StateConfigured:
		case StateInvalid:
			return c, invalid(at, "condition %q %q is not valid for this registry", c.Field, c.Operator)
		default:
			return c, invalid(at, "condition has no operator selected")
		}
		shape, _ := e.reg.ValueShapeFor(c.Operator)
		if slot < 0 || slot >= shape.Arity {
			return c, invalid(at, "value slot %d out of range for %q (arity %d)", slot, c.Operator, shape.Arity)
		}
		if err := checkValue(shape.Kind, value, at); err != nil {
			return c, err
		}
		out := c.Clone()
		out.Values[slot] = value
		return out, nil
	})
}

// AddGroup appends an empty AND subgroup to the group at path
func (e *Editor) AddGroup(root Group, path Path) (Group, error) {
	if level := len(path) + 2; level > e.maxDepth {
		return root, invalid(where(path, "groups"), "nesting limit of %d levels reached", e.maxDepth)
	}
	return e.update(root, path, func(g Group) (Group, error) {
		groups := make([]Group, len(g.Groups), len(g.Groups)+1)
		copy(groups, g.Groups)
		g.Groups = append(groups, Empty())
		return g, nil
	})
}

// RemoveGroup drops the subgroup at index keeping the order of its siblings
func (e *Editor) RemoveGroup(root Group, path Path, index int) (Group, error) {
	return e.update(root, path, func(g Group) (Group, error) {
		if index < 0 || index >= len(g.Groups) {
			return g, invalid(where(path.Child(index)), "no group at index %d", index)
		}
		groups := make([]Group, 0, len(g.Groups)-1)
		groups = append(groups, g.Groups[:index]...)
		g.Groups = append(groups, g.Groups[index+1:]...)
		return g, nil
	})
}

// update rebuilds the spine from root to path, copying only the groups it passes through
func (e *Editor) update(root Group, path Path, fn func(Group) (Group, error)) (Group, error) {
	out, err := rebuild(root, path, 0, fn)
	if err != nil {
		return root, err
	}
	return out, nil
}

func rebuild(g Group, path Path, depth int, fn func(Group) (Group, error)) (Group, error) {
	if depth == len(path) {
		return fn(g)
	}
	i := path[depth]
	if i < 0 || i >= len(g.Groups) {
		return g, invalid(where(path[:depth+1]), "no group at %s", path[:depth+1])
	}
	child, err := rebuild(g.Groups[i], path, depth+1, fn)
	if err != nil {
		return g, err
	}
	groups := make([]Group, len(g.Groups))
	copy(groups, g.Groups)
	groups[i] = child
	g.Groups = groups
	return g, nil
}

func (e *Editor) updateCondition(root Group, path Path, index int, fn func(Condition) (Condition, error)) (Group, error) {
	return e.update(root, path, func(g Group) (Group, error) {
		if index < 0 || index >= len(g.Conditions) {
			return g, invalid(where(path, condAt(index)), "no condition at index %d", index)
		}
		c, err := fn(g.Conditions[index])
		if err != nil {
			return g, err
		}
		conds := make([]Condition, len(g.Conditions))
		copy(conds, g.Conditions)
		conds[index] = c
		g.Conditions = conds
		return g, nil
	})
}

// checkValue enforces the value kind; empty slots are always allowed while editing
func checkValue(kind ValueKind, v, at string) error {
	if v == "" || kind != KindDate {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return invalid(at, "date value %q must look like YYYY-MM-DD", v)
	}
	return nil
}
