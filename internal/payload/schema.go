package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildPayloadJSONSchema returns the wire contract of StructuredPayload as a
// JSON-Schema map. The rules engine validates incoming payloads against the
// same schema.
func BuildPayloadJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":            map[string]any{"type": "string"},
			"original_name":   map[string]any{"type": "string"},
			"normalized_name": map[string]any{"type": "string"},
			"quantity":        map[string]any{"type": "integer", "minimum": 1},
			"price":           map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
			"confidence":      map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"sku_code":        map[string]any{"type": []any{"string", "null"}},
			"sku_match_score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"is_darnitsa":     map[string]any{"type": "boolean"},
		},
		"required": []any{"name", "quantity", "price", "confidence", "sku_code", "sku_match_score", "is_darnitsa"},
	}
	confidence := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"mean":                  map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"min":                   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"max":                   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"token_count":           map[string]any{"type": "integer", "minimum": 0},
			"auto_accept_candidate": map[string]any{"type": "boolean"},
		},
		"required": []any{"mean", "min", "max", "token_count", "auto_accept_candidate"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"merchant":               map[string]any{"type": []any{"string", "null"}},
			"merchant_raw":           map[string]any{"type": []any{"string", "null"}},
			"purchase_ts":            map[string]any{"type": []any{"string", "null"}},
			"total":                  map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
			"line_items":             map[string]any{"type": "array", "items": lineItem},
			"confidence":             confidence,
			"manual_review_required": map[string]any{"type": "boolean"},
			"anomalies":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"merchant", "purchase_ts", "total", "line_items", "confidence", "manual_review_required", "anomalies"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
