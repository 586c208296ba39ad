package filtertree

// IntentKind names a single user edit
type IntentKind string

// Intent kinds, one per editor operation
const (
	IntentSetGroupOperator IntentKind = "set_group_operator"
	IntentAddCondition     IntentKind = "add_condition"
	IntentRemoveCondition  IntentKind = "remove_condition"
	IntentUpdateField      IntentKind = "update_field"
	IntentUpdateOperator   IntentKind = "update_operator"
	IntentUpdateValue      IntentKind = "update_value"
	IntentAddGroup         IntentKind = "add_group"
	IntentRemoveGroup      IntentKind = "remove_group"
)

// Intent is a serializable edit request
// Value carries the logical operator, field, operator or value depending on Kind
type Intent struct {
	Kind  IntentKind `json:"kind"            validate:"required,oneof=set_group_operator add_condition remove_condition update_field update_operator update_value add_group remove_group" example:"update_field"` //nolint:lll
	Path  []int      `json:"path,omitempty"  validate:"omitempty,dive,min=0" example:"0"`
	Index int        `json:"index,omitempty" validate:"min=0" example:"0"`
	Slot  int        `json:"slot,omitempty"  validate:"min=0" example:"0"`
	Value string     `json:"value,omitempty" validate:"max=1000" example:"title"`
}

// Apply dispatches in to the matching editor operation
func (e *Editor) Apply(root Group, in Intent) (Group, error) {
	p := Path(in.Path)
	switch in.Kind {
	case IntentSetGroupOperator:
		return e.SetGroupOperator(root, p, LogicalOp(in.Value))
	case IntentAddCondition:
		return e.AddCondition(root, p)
	case IntentRemoveCondition:
		return e.RemoveCondition(root, p, in.Index)
	case IntentUpdateField:
		return e.UpdateField(root, p, in.Index, in.Value)
	case IntentUpdateOperator:
		return e.UpdateOperator(root, p, in.Index, Operator(in.Value))
	case IntentUpdateValue:
		return e.UpdateValue(root, p, in.Index, in.Slot, in.Value)
	case IntentAddGroup:
		return e.AddGroup(root, p)
	case IntentRemoveGroup:
		return e.RemoveGroup(root, p, in.Index)
	default:
		return root, invalid("kind", "unknown intent %q", in.Kind)
	}
}
