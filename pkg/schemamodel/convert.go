package schemamodel

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ModelFromSchema lists the schema's properties in mapping order. Titles fall
// back to the property id.
func ModelFromSchema(s JSONSchema) SchemaModel {
	required := mapset.NewThreadUnsafeSet[string](s.Required...)

	out := SchemaModel{Properties: make([]SchemaModelProperty, 0, s.Properties.Len())}
	s.Properties.Each(func(id string, prop JSONSchemaProperty) {
		title := prop.Title
		if title == "" {
			title = id
		}
		out.Properties = append(out.Properties, SchemaModelProperty{
			ID:          id,
			Title:       title,
			Description: prop.Description,
			Type:        prop.Type,
			Required:    required.Contains(id),
		})
	})
	return out
}

// ModelFromSchemaString parses a stored schema and converts it to a model.
func ModelFromSchemaString(raw string) (SchemaModel, error) {
	s, err := ParseJSONSchema(raw)
	if err != nil {
		return SchemaModel{}, err
	}
	return ModelFromSchema(s), nil
}

// TitleToName turns a human title into a property id: trimmed, lowercased,
// spaces become underscores and anything outside [a-z0-9_.] is dropped.
func TitleToName(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SchemaFromModel serializes the model into a JSON Schema. Property keys are
// the explicit id when set, otherwise derived from the title. The first
// property with an unusable title aborts the conversion.
func SchemaFromModel(m SchemaModel) (JSONSchema, error) {
	for _, prop := range m.Properties {
		if err := validateTitle(prop.Title); err != nil {
			return JSONSchema{}, err
		}
	}

	out := JSONSchema{
		Type:       SchemaTypeObject,
		Properties: NewProperties(),
		Required:   []string{},
	}
	required := mapset.NewThreadUnsafeSet[string]()
	for _, prop := range m.Properties {
		id := propertyID(prop)
		out.Properties.Set(id, JSONSchemaProperty{
			Title:       prop.Title,
			Type:        prop.Type,
			Description: prop.Description,
		})
		if prop.Required && required.Add(id) {
			out.Required = append(out.Required, id)
		}
	}
	return out, nil
}

// ValueSchema describes the values a model accepts, keyed by property id.
// Titles are not checked: a model loaded from a stored schema always carries
// ids, whatever its titles normalise to. Properties without an id fall back to
// the title-derived name.
func ValueSchema(m SchemaModel) JSONSchema {
	out := EmptySchema()
	required := mapset.NewThreadUnsafeSet[string]()
	for _, prop := range m.Properties {
		id := propertyID(prop)
		if id == "" || out.Properties.Has(id) {
			continue
		}
		out.Properties.Set(id, JSONSchemaProperty{
			Title:       prop.Title,
			Type:        prop.Type,
			Description: prop.Description,
		})
		if prop.Required && required.Add(id) {
			out.Required = append(out.Required, id)
		}
	}
	return out
}

// ResolveIDs returns a copy of the model in which every property without an
// id gets the name SchemaFromModel would derive from its title.
func (m SchemaModel) ResolveIDs() SchemaModel {
	out := SchemaModel{Properties: make([]SchemaModelProperty, len(m.Properties))}
	for idx, prop := range m.Properties {
		prop.ID = propertyID(prop)
		out.Properties[idx] = prop
	}
	return out
}

func propertyID(prop SchemaModelProperty) string {
	if prop.ID != "" {
		return prop.ID
	}
	return TitleToName(prop.Title)
}

func validateTitle(title string) error {
	if title == "" {
		return NewValidationError("Property is empty. Please provide a name.")
	}
	if TitleToName(title) == "" {
		return NewValidationError("Property name only contains special characters. Must be alphanumeric. Provided name with issues: " + title)
	}
	return nil
}

// EmptySchemaModel returns a model with no properties.
func EmptySchemaModel() SchemaModel {
	return SchemaModel{Properties: []SchemaModelProperty{}}
}

// EmptySchema returns the schema of an empty model.
func EmptySchema() JSONSchema {
	return JSONSchema{
		Type:       SchemaTypeObject,
		Properties: NewProperties(),
		Required:   []string{},
	}
}

// ExampleSchemaModel seeds a new editor. The property has no id so one is
// derived from its title on save.
func ExampleSchemaModel() SchemaModel {
	return SchemaModel{
		Properties: []SchemaModelProperty{
			{
				Title:       "Example Property",
				Description: "Replace this with your own property",
				Type:        TypeString,
				Required:    true,
			},
		},
	}
}
