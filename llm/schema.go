package llm

// Schema is the JSON-Schema subset accepted for tool parameters:
// object/string/number/integer/boolean/array type trees with optional
// enum, required, and nested properties. Adapters must translate it
// without losing Required, Enum, or nested Properties.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ObjectSchema builds an object schema from its properties and required list.
func ObjectSchema(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// StringSchema builds a string schema, optionally constrained to enum values.
func StringSchema(description string, enum ...string) *Schema {
	return &Schema{Type: "string", Description: description, Enum: enum}
}

// AsMap converts the schema tree to a generic map, the shape most vendor
// SDKs accept for free-form JSON schema fields.
func (s *Schema) AsMap() map[string]interface{} {
	if s == nil {
		return nil
	}
	m := map[string]interface{}{"type": s.Type}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.AsMap()
		}
		m["properties"] = props
	}
	if s.Items != nil {
		m["items"] = s.Items.AsMap()
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}
