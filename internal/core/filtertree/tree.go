package filtertree

import (
	"strconv"
	"strings"
)

// LogicalOp combines the children of a group
type LogicalOp string

// Logical operators
const (
	And LogicalOp = "AND"
	Or  LogicalOp = "OR"
)

// Valid reports whether op is AND or OR
func (op LogicalOp) Valid() bool { return op == And || op == Or }

// Condition is a single field/operator/values leaf test
type Condition struct {
	Field    string
	Operator Operator
	Values   []string
}

// Group combines conditions and nested groups under one logical operator
// groups own their children exclusively; there are no back references
type Group struct {
	Op         LogicalOp
	Conditions []Condition
	Groups     []Group
}

// Empty returns the canonical empty tree
func Empty() Group { return Group{Op: And} }

// NewCondition returns the blank condition appended by AddCondition
func NewCondition() Condition { return Condition{Values: []string{""}} }

// Path addresses a group by subgroup indices from the root; empty means root
type Path []int

// Child returns a new path one level below p
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// String renders p as "/0/2", the root as "/"
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// State is the lifecycle of a condition, recomputed from its fields
type State int

// Condition states
const (
	StateEmpty State = iota
	StateFieldSelected
	StateConfigured
	// StateInvalid is unreachable through the editor or the decoder
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFieldSelected:
		return "field_selected"
	case StateConfigured:
		return "configured"
	default:
		return "invalid"
	}
}

// StateOf computes the state of c against reg
func StateOf(reg *Registry, c Condition) State {
	if c.Field == "" {
		if c.Operator == "" {
			return StateEmpty
		}
		return StateInvalid
	}
	if !reg.Known(c.Field) {
		return StateInvalid
	}
	if c.Operator == "" {
		return StateFieldSelected
	}
	if !reg.Allows(c.Field, c.Operator) {
		return StateInvalid
	}
	shape, _ := reg.ValueShapeFor(c.Operator)
	if len(c.Values) != shape.Arity {
		return StateInvalid
	}
	return StateConfigured
}

// Equal reports structural equality; nil and empty slices compare equal
func (c Condition) Equal(o Condition) bool {
	if c.Field != o.Field || c.Operator != o.Operator || len(c.Values) != len(o.Values) {
		return false
	}
	for i := range c.Values {
		if c.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two trees
func (g Group) Equal(o Group) bool {
	if g.Op != o.Op || len(g.Conditions) != len(o.Conditions) || len(g.Groups) != len(o.Groups) {
		return false
	}
	for i := range g.Conditions {
		if !g.Conditions[i].Equal(o.Conditions[i]) {
			return false
		}
	}
	for i := range g.Groups {
		if !g.Groups[i].Equal(o.Groups[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing no slices with g
func (g Group) Clone() Group {
	out := Group{Op: g.Op}
	if g.Conditions != nil {
		out.Conditions = make([]Condition, len(g.Conditions))
		for i, c := range g.Conditions {
			out.Conditions[i] = c.Clone()
		}
	}
	if g.Groups != nil {
		out.Groups = make([]Group, len(g.Groups))
		for i, sg := range g.Groups {
			out.Groups[i] = sg.Clone()
		}
	}
	return out
}

// Clone returns a copy of c with its own values slice
func (c Condition) Clone() Condition {
	c.Values = append([]string(nil), c.Values...)
	return c
}

// IsEmpty reports whether g has no conditions and no subgroups
func (g Group) IsEmpty() bool { return len(g.Conditions) == 0 && len(g.Groups) == 0 }

// Depth is the number of group levels, 1 for a root without subgroups
func (g Group) Depth() int {
	d := 0
	for _, sg := range g.Groups {
		if sd := sg.Depth(); sd > d {
			d = sd
		}
	}
	return d + 1
}

// At returns the group addressed by p
func (g Group) At(p Path) (Group, bool) {
	cur := g
	for _, i := range p {
		if i < 0 || i >= len(cur.Groups) {
			return Group{}, false
		}
		cur = cur.Groups[i]
	}
	return cur, true
}

// Walk visits groups depth first, parents before children, in index order
// returning false from fn stops the walk
func (g Group) Walk(fn func(at Path, g Group) bool) {
	g.walk(nil, fn)
}

func (g Group) walk(at Path, fn func(Path, Group) bool) bool {
	if !fn(at, g) {
		return false
	}
	for i, sg := range g.Groups {
		if !sg.walk(at.Child(i), fn) {
			return false
		}
	}
	return true
}

// EachCondition visits every condition, a group's own conditions before its subgroups
// returning false from fn stops the walk
func (g Group) EachCondition(fn func(at Path, index int, c Condition) bool) {
	g.Walk(func(at Path, grp Group) bool {
		for i, c := range grp.Conditions {
			if !fn(at, i, c) {
				return false
			}
		}
		return true
	})
}

// CountConditions returns the number of conditions in the whole tree
func (g Group) CountConditions() int {
	n := 0
	g.EachCondition(func(Path, int, Condition) bool { n++; return true })
	return n
}
