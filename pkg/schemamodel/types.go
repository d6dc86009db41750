package schemamodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// PropertyType enumerates the JSON Schema types the form editor handles.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeNumber  PropertyType = "number"
	TypeInteger PropertyType = "integer"
	TypeBoolean PropertyType = "boolean"
)

// SchemaTypeObject is the only top-level type a form schema may declare.
const SchemaTypeObject = "object"

// SupportedTypes lists the property types in the order editors offer them.
func SupportedTypes() []PropertyType {
	return []PropertyType{TypeString, TypeNumber, TypeInteger, TypeBoolean}
}

// Supported reports whether the type is one the editor can coerce.
func (t PropertyType) Supported() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return true
	default:
		return false
	}
}

// JSONSchemaProperty is a single entry in a schema's properties mapping.
type JSONSchemaProperty struct {
	Title       string       `json:"title"`
	Type        PropertyType `json:"type"`
	Description string       `json:"description"`
}

// Properties is the id -> property mapping of a JSON Schema. JSON objects are
// unordered, but the mapping remembers insertion order (and document order
// when decoded) so callers iterate it the way it was written.
type Properties struct {
	keys   []string
	values map[string]JSONSchemaProperty
}

// NewProperties returns an empty mapping.
func NewProperties() Properties {
	return Properties{values: make(map[string]JSONSchemaProperty)}
}

// Set inserts or replaces a property. Replacing keeps the original position.
func (p *Properties) Set(id string, prop JSONSchemaProperty) {
	if p.values == nil {
		p.values = make(map[string]JSONSchemaProperty)
	}
	if _, exists := p.values[id]; !exists {
		p.keys = append(p.keys, id)
	}
	p.values[id] = prop
}

// Get returns the property stored under id.
func (p Properties) Get(id string) (JSONSchemaProperty, bool) {
	prop, ok := p.values[id]
	return prop, ok
}

// Has reports whether id is a key of the mapping.
func (p Properties) Has(id string) bool {
	_, ok := p.values[id]
	return ok
}

// Keys returns the ids in insertion order.
func (p Properties) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of properties.
func (p Properties) Len() int {
	return len(p.keys)
}

// Each calls fn for every property in insertion order.
func (p Properties) Each(fn func(id string, prop JSONSchemaProperty)) {
	for _, id := range p.keys {
		fn(id, p.values[id])
	}
}

// Equal compares two mappings including key order.
func (p Properties) Equal(other Properties) bool {
	if len(p.keys) != len(other.keys) {
		return false
	}
	for idx, id := range p.keys {
		if other.keys[idx] != id {
			return false
		}
		if p.values[id] != other.values[id] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the properties as a JSON object in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, id := range p.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.values[id])
		if err != nil {
			return nil, fmt.Errorf("schemamodel: encode property %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the document's key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("schemamodel: properties is not valid JSON")
	}
	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		*p = NewProperties()
		return nil
	}
	if !result.IsObject() {
		return errors.New("schemamodel: properties must be an object")
	}

	out := NewProperties()
	var decodeErr error
	result.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if !value.IsObject() {
			decodeErr = fmt.Errorf("schemamodel: property %q must be an object", id)
			return false
		}
		var prop JSONSchemaProperty
		if err := json.Unmarshal([]byte(value.Raw), &prop); err != nil {
			decodeErr = fmt.Errorf("schemamodel: decode property %q: %w", id, err)
			return false
		}
		out.Set(id, prop)
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}
	*p = out
	return nil
}

// JSONSchema is a flat, object-typed JSON Schema document.
type JSONSchema struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Required   []string   `json:"required"`
}

// MarshalJSON always emits the required list, even when empty.
func (s JSONSchema) MarshalJSON() ([]byte, error) {
	type plain JSONSchema
	out := plain(s)
	if out.Type == "" {
		out.Type = SchemaTypeObject
	}
	if out.Required == nil {
		out.Required = []string{}
	}
	return json.Marshal(out)
}

// ParseJSONSchema decodes a stored schema string.
func ParseJSONSchema(raw string) (JSONSchema, error) {
	var out JSONSchema
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return JSONSchema{}, fmt.Errorf("schemamodel: parse schema: %w", err)
	}
	if out.Properties.values == nil {
		out.Properties = NewProperties()
	}
	return out, nil
}

// SchemaModelProperty is one row of the form editor.
type SchemaModelProperty struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        PropertyType `json:"type"`
	Required    bool         `json:"required"`
}

// SchemaModel is the ordered, editor-friendly view of a JSON Schema. Order is
// the display order chosen by the user.
type SchemaModel struct {
	Properties []SchemaModelProperty `json:"properties"`
}
