package swaggerkit

import "strings"

// envelopeSchema mirrors the error envelope the platform writes
var envelopeSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope; field names the offending filter path on validation errors",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// defaultResponses are added to every operation that does not declare them
var defaultResponses = map[string]map[string]any{
	"400": {
		"status_code": 400,
		"status":      "Bad Request",
		"code":        8,
		"error":       "between needs exactly 2 values",
		"field":       "groups[0].conditions[1].values",
	},
	"500": {
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "internal error",
	},
}

// patchSpec lifts the generated document to OAS 3.0.3 under base and documents the error envelope
func patchSpec(spec map[string]any, base string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	// the UI cannot render 3.1 yet
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": base}}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = envelopeSchema
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			for code, example := range defaultResponses {
				if _, ok := resps[code]; ok {
					continue
				}
				resps[code] = map[string]any{
					"description": example["status"],
					"content": map[string]any{
						"application/json": map[string]any{
							"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": example,
						},
					},
				}
			}
		}
	}
}

// child returns m[key] as an object, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
