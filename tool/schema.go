package tool

import (
	"encoding/json"
	"fmt"
)

// Schema is the JSON-Schema subset used to describe tool parameters:
// required fields plus primitive property types. It matches the schemas the
// model providers accept for function calling.
type Schema struct {
	Type                 string         `json:"type"`
	Properties           map[string]any `json:"properties,omitempty"`
	Required             []string       `json:"required,omitempty"`
	AdditionalProperties *bool          `json:"additionalProperties,omitempty"`
}

// ObjectSchema builds an object schema from property definitions and a
// required-field list, disallowing additional properties.
func ObjectSchema(properties map[string]any, required ...string) Schema {
	f := false
	return Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &f,
	}
}

// StringProperty describes a string-typed parameter.
func StringProperty(description string) map[string]any {
	p := map[string]any{"type": "string"}
	if description != "" {
		p["description"] = description
	}
	return p
}

// NumberProperty describes a number-typed parameter.
func NumberProperty(description string) map[string]any {
	p := map[string]any{"type": "number"}
	if description != "" {
		p["description"] = description
	}
	return p
}

// IntegerProperty describes an integer-typed parameter.
func IntegerProperty(description string) map[string]any {
	p := map[string]any{"type": "integer"}
	if description != "" {
		p["description"] = description
	}
	return p
}

// Parameters returns the schema as the generic map shape the llm package
// sends to providers.
func (s Schema) Parameters() map[string]any {
	params := map[string]any{"type": s.Type}
	if s.Type == "" {
		params["type"] = "object"
	}
	if s.Properties != nil {
		params["properties"] = s.Properties
	}
	if s.Required != nil {
		params["required"] = s.Required
	}
	if s.AdditionalProperties != nil {
		params["additionalProperties"] = *s.AdditionalProperties
	}
	return params
}

// Validate checks args against the schema: all required fields present,
// properties match their declared primitive types.
func (s Schema) Validate(args map[string]any) error {
	for _, field := range s.Required {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required field %q", field)
		}
	}

	for key, value := range args {
		propDef, ok := s.Properties[key]
		if !ok {
			if s.AdditionalProperties != nil && !*s.AdditionalProperties {
				return fmt.Errorf("unexpected field %q", key)
			}
			continue
		}
		expected := expectedType(propDef)
		if expected == "" {
			continue
		}
		if err := checkType(value, expected); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

func expectedType(definition any) string {
	if def, ok := definition.(map[string]any); ok {
		if t, ok := def["type"].(string); ok {
			return t
		}
	}
	return ""
}

func checkType(value any, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if isNumber(value) {
			return nil
		}
	case "integer":
		if isInteger(value) {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]any); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]any); ok {
			return nil
		}
	case "null":
		if value == nil {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s, got %T", expected, value)
}

func isNumber(value any) bool {
	switch v := value.(type) {
	case float32, float64, int, int32, int64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	}
	return false
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == float64(int64(v))
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}
	return false
}
