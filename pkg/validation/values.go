package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

// OpenAPISchema builds the kin-openapi equivalent of a flat form schema.
// Unknown properties are disallowed. Unsupported property types map to an
// untyped schema so they do not mask other problems.
func OpenAPISchema(s schemamodel.JSONSchema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}

	s.Properties.Each(func(id string, prop schemamodel.JSONSchemaProperty) {
		var child *openapi3.Schema
		switch prop.Type {
		case schemamodel.TypeString:
			child = openapi3.NewStringSchema()
		case schemamodel.TypeNumber:
			child = openapi3.NewFloat64Schema()
		case schemamodel.TypeInteger:
			child = openapi3.NewIntegerSchema()
		case schemamodel.TypeBoolean:
			child = openapi3.NewBoolSchema()
		default:
			child = openapi3.NewSchema()
		}
		child.Title = prop.Title
		child.Description = prop.Description
		out.Properties[id] = openapi3.NewSchemaRef("", child)
	})
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

// ValidateValues checks coerced values against the schema. All violations are
// returned together as a *schemamodel.ValidationError.
func ValidateValues(ctx context.Context, s schemamodel.JSONSchema, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := make(map[string]any, len(values))
	for key, value := range values {
		doc[key] = normalizeNumber(value)
	}

	err := OpenAPISchema(s).VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var details []string
	for _, item := range flattenErrors(err) {
		details = append(details, describeSchemaError(item))
	}
	return schemamodel.NewValidationError(schemamodel.MismatchMessage, details...)
}

func normalizeNumber(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func flattenErrors(err error) []error {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []error
		for _, item := range multi {
			out = append(out, flattenErrors(item)...)
		}
		return out
	}
	return []error{err}
}

func describeSchemaError(err error) string {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return err.Error()
	}
	reason := strings.TrimSpace(schemaErr.Reason)
	if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
		return strings.Join(pointer, ".") + ": " + reason
	}
	return reason
}
