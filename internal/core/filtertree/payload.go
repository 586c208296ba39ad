package filtertree

import (
	"bytes"
	"encoding/json"
)

// WireGroup is the serialized group exchanged with the query service and the preset store
type WireGroup struct {
	Operator   string          `json:"operator"   example:"AND"`
	Conditions []WireCondition `json:"conditions"`
	Groups     []WireGroup     `json:"groups"`
}

// WireCondition is the serialized condition
type WireCondition struct {
	Field    string   `json:"field"    example:"title"`
	Operator string   `json:"operator" example:"contains"`
	Values   []string `json:"values"`
}

// Payload is a stored or submitted tree in one of two encodings
// the preset store may hand back either, so Decode resolves them in one place
type Payload interface{ isPayload() }

// TextPayload is a tree serialized as JSON text
type TextPayload string

// StructuredPayload is a tree that was already parsed, either a generic JSON
// value (map[string]any) or a WireGroup
type StructuredPayload struct{ Value any }

func (TextPayload) isPayload()       {}
func (StructuredPayload) isPayload() {}

// MarshalJSON renders the wrapped value as is, so a listed preset echoes what the store held
func (p StructuredPayload) MarshalJSON() ([]byte, error) { return json.Marshal(p.Value) }

// PayloadOf classifies a loosely typed value, such as a jsonb column scanned into any
// strings and byte slices are text, everything else is treated as already structured
func PayloadOf(v any) Payload {
	switch x := v.(type) {
	case Payload:
		return x
	case string:
		return TextPayload(x)
	case []byte:
		return TextPayload(string(x))
	case json.RawMessage:
		return TextPayload(string(x))
	default:
		return StructuredPayload{Value: v}
	}
}

// PayloadFromJSON classifies a raw JSON column or request field
// a JSON string literal is text holding the tree; anything else is parsed once and passed on structured
func PayloadFromJSON(raw json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return TextPayload(s)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		// let Decode report the syntax problem
		return TextPayload(string(trimmed))
	}
	return StructuredPayload{Value: v}
}
