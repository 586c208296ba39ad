package filtertree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Codec maps trees to and from the wire form
type Codec struct {
	reg      *Registry
	maxDepth int
}

// NewCodec builds a codec over reg; nil reg uses DefaultRegistry and maxDepth < 1 uses DefaultMaxDepth
func NewCodec(reg *Registry, maxDepth int) *Codec {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Codec{reg: reg, maxDepth: maxDepth}
}

// Registry returns the registry the codec validates against
func (c *Codec) Registry() *Registry { return c.reg }

// MaxDepth returns the nesting limit Decode enforces
func (c *Codec) MaxDepth() int { return c.maxDepth }

// Submittable reports the first reason g cannot be sent to the query service
// every condition must be configured; empty groups are fine
func (c *Codec) Submittable(g Group) error {
	if d := g.Depth(); d > c.maxDepth {
		return invalid("groups", "tree nests %d levels, limit is %d", d, c.maxDepth)
	}
	var err error
	g.Walk(func(at Path, grp Group) bool {
		if !grp.Op.Valid() {
			err = invalid(where(at, "operator"), "logical operator must be AND or OR, got %q", grp.Op)
			return false
		}
		for i, cond := range grp.Conditions {
			loc := where(at, condAt(i))
			switch StateOf(c.reg, cond) {
			case StateEmpty:
				err = invalid(loc+".field", "condition has no field selected")
			case StateFieldSelected:
				err = invalid(loc+".operator", "condition on %q has no operator selected", cond.Field)
			case StateInvalid:
				err = invalid(loc, "condition on %q is not valid", cond.Field)
			case StateConfigured:
				shape, _ := c.reg.ValueShapeFor(cond.Operator)
				for _, v := range cond.Values {
					if err = checkValue(shape.Kind, v, loc+".values"); err != nil {
						break
					}
				}
			}
			if err != nil {
				return false
			}
		}
		return true
	})
	return err
}

// Encode maps a submittable tree to its wire form and rejects anything incomplete
func (c *Codec) Encode(g Group) (WireGroup, error) {
	if err := c.Submittable(g); err != nil {
		return WireGroup{}, err
	}
	return ToWire(g), nil
}

// Marshal encodes g and renders it as JSON text
func (c *Codec) Marshal(g Group) ([]byte, error) {
	w, err := c.Encode(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// ToWire maps any tree, drafts included, to the wire form without validating it
func ToWire(g Group) WireGroup {
	w := WireGroup{
		Operator:   string(g.Op),
		Conditions: make([]WireCondition, len(g.Conditions)),
		Groups:     make([]WireGroup, len(g.Groups)),
	}
	for i, cond := range g.Conditions {
		w.Conditions[i] = WireCondition{
			Field:    cond.Field,
			Operator: string(cond.Operator),
			Values:   append(make([]string, 0, len(cond.Values)), cond.Values...),
		}
	}
	for i, sg := range g.Groups {
		w.Groups[i] = ToWire(sg)
	}
	return w
}

// Decode parses and validates an untrusted payload
// every failure, structural or semantic, is a ValidationError
func (c *Codec) Decode(p Payload) (Group, error) {
	switch x := p.(type) {
	case TextPayload:
		v, err := parseText(string(x))
		if err != nil {
			return Group{}, err
		}
		// stores sometimes double encode; allow exactly one more level of text
		if s, ok := v.(string); ok {
			if v, err = parseText(s); err != nil {
				return Group{}, err
			}
		}
		return c.decodeValue(v)
	case StructuredPayload:
		return c.decodeValue(x.Value)
	case nil:
		return Group{}, invalid("", "empty filter payload")
	default:
		return Group{}, invalid("", "unsupported payload %T", p)
	}
}

func (c *Codec) decodeValue(v any) (Group, error) {
	switch x := v.(type) {
	case WireGroup:
		return c.fromWire(x, nil)
	case *WireGroup:
		if x == nil {
			return Group{}, invalid("", "empty filter payload")
		}
		return c.fromWire(*x, nil)
	case map[string]any:
		w, err := wireFromMap(x, nil)
		if err != nil {
			return Group{}, err
		}
		return c.fromWire(w, nil)
	case json.RawMessage:
		return c.Decode(TextPayload(x))
	case []byte:
		return c.Decode(TextPayload(x))
	case nil:
		return Group{}, invalid("", "empty filter payload")
	default:
		return Group{}, invalid("", "filter payload must be an object, got %s", kindOf(v))
	}
}

func parseText(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, invalid("", "empty filter payload")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalid("", "filter payload is not valid JSON: %v", err)
	}
	if dec.More() {
		return nil, invalid("", "filter payload has trailing data")
	}
	return v, nil
}

// wireFromMap checks the shape of a generic JSON group
func wireFromMap(m map[string]any, at Path) (WireGroup, error) {
	var w WireGroup

	opRaw, ok := m["operator"]
	if !ok || opRaw == nil {
		return w, invalid(where(at, "operator"), "group is missing its logical operator")
	}
	op, ok := opRaw.(string)
	if !ok {
		return w, invalid(where(at, "operator"), "logical operator must be a string, got %s", kindOf(opRaw))
	}
	w.Operator = op

	condsRaw, ok := m["conditions"].([]any)
	if !ok {
		return w, invalid(where(at, "conditions"), "conditions must be an array, got %s", kindOf(m["conditions"]))
	}
	w.Conditions = make([]WireCondition, 0, len(condsRaw))
	for i, cr := range condsRaw {
		loc := where(at, condAt(i))
		cm, ok := cr.(map[string]any)
		if !ok {
			return w, invalid(loc, "condition must be an object, got %s", kindOf(cr))
		}
		wc, err := conditionFromMap(cm, loc)
		if err != nil {
			return w, err
		}
		w.Conditions = append(w.Conditions, wc)
	}

	groupsRaw, present := m["groups"]
	if present && groupsRaw != nil {
		gs, ok := groupsRaw.([]any)
		if !ok {
			return w, invalid(where(at, "groups"), "groups must be an array, got %s", kindOf(groupsRaw))
		}
		w.Groups = make([]WireGroup, 0, len(gs))
		for i, gr := range gs {
			child := at.Child(i)
			gm, ok := gr.(map[string]any)
			if !ok {
				return w, invalid(where(child), "group must be an object, got %s", kindOf(gr))
			}
			sg, err := wireFromMap(gm, child)
			if err != nil {
				return w, err
			}
			w.Groups = append(w.Groups, sg)
		}
	}
	return w, nil
}

func conditionFromMap(m map[string]any, loc string) (WireCondition, error) {
	var wc WireCondition
	field, err := optString(m, "field", loc)
	if err != nil {
		return wc, err
	}
	op, err := optString(m, "operator", loc)
	if err != nil {
		return wc, err
	}
	wc.Field, wc.Operator = field, op

	vals, ok := m["values"].([]any)
	if !ok {
		return wc, invalid(loc+".values", "values must be an array, got %s", kindOf(m["values"]))
	}
	wc.Values = make([]string, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return wc, invalid(fmt.Sprintf("%s.values[%d]", loc, i), "value must be a string, got %s", kindOf(v))
		}
		wc.Values = append(wc.Values, s)
	}
	return wc, nil
}

func optString(m map[string]any, key, loc string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(loc+"."+key, "%s must be a string, got %s", key, kindOf(v))
	}
	return s, nil
}

// fromWire applies the registry rules to a structurally sound wire group
func (c *Codec) fromWire(w WireGroup, at Path) (Group, error) {
	if level := len(at) + 1; level > c.maxDepth {
		return Group{}, invalid(where(at), "tree nests deeper than %d levels", c.maxDepth)
	}
	op := LogicalOp(w.Operator)
	if w.Operator == "" {
		return Group{}, invalid(where(at, "operator"), "group is missing its logical operator")
	}
	if !op.Valid() {
		return Group{}, invalid(where(at, "operator"), "logical operator must be AND or OR, got %q", w.Operator)
	}

	g := Group{Op: op}
	if len(w.Conditions) > 0 {
		g.Conditions = make([]Condition, 0, len(w.Conditions))
	}
	for i, wc := range w.Conditions {
		cond, err := c.conditionFromWire(wc, where(at, condAt(i)))
		if err != nil {
			return Group{}, err
		}
		g.Conditions = append(g.Conditions, cond)
	}
	if len(w.Groups) > 0 {
		g.Groups = make([]Group, 0, len(w.Groups))
	}
	for i, ws := range w.Groups {
		sg, err := c.fromWire(ws, at.Child(i))
		if err != nil {
			return Group{}, err
		}
		g.Groups = append(g.Groups, sg)
	}
	return g, nil
}

// conditionFromWire accepts drafts as well as configured conditions so a saved
// work in progress loads back into the editor
func (c *Codec) conditionFromWire(wc WireCondition, loc string) (Condition, error) {
	cond := Condition{
		Field:    wc.Field,
		Operator: Operator(wc.Operator),
		Values:   append(make([]string, 0, len(wc.Values)), wc.Values...),
	}
	switch {
	case cond.Field == "" && cond.Operator != "":
		return Condition{}, invalid(loc+".operator", "operator %q set without a field", cond.Operator)
	case cond.Field != "" && !c.reg.Known(cond.Field):
		return Condition{}, invalid(loc+".field", "unknown field %q", cond.Field)
	case cond.Operator == "":
		if len(cond.Values) != 1 {
			return Condition{}, invalid(loc+".values", "condition without an operator takes 1 value, got %d", len(cond.Values))
		}
		return cond, nil
	case !c.reg.Allows(cond.Field, cond.Operator):
		return Condition{}, invalid(loc+".operator", "operator %q is not allowed for field %q", cond.Operator, cond.Field)
	}
	shape, _ := c.reg.ValueShapeFor(cond.Operator)
	if len(cond.Values) != shape.Arity {
		return Condition{}, invalid(loc+".values", "operator %q takes %d value(s), got %d", cond.Operator, shape.Arity, len(cond.Values))
	}
	for _, v := range cond.Values {
		if err := checkValue(shape.Kind, v, loc+".values"); err != nil {
			return Condition{}, err
		}
	}
	return cond, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
