package schemamodel

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// MismatchMessage summarises a failed coercion; the details list every field.
const MismatchMessage = "The data did not match the required JSON schema."

type emptyValueError struct {
	id string
}

func (e emptyValueError) Error() string {
	return "Empty string provided for non-string property: " + e.id
}

// CoerceOption configures TypedJSONFromSchemaModel.
type CoerceOption func(*coerceOptions)

type coerceOptions struct {
	omitEmptyOptional bool
}

// OmitEmptyOptional treats an empty string for an optional non-string
// property as "no value provided": the key is dropped and no error recorded.
// Without it the empty string is rejected like any other invalid value.
func OmitEmptyOptional() CoerceOption {
	return func(opts *coerceOptions) {
		opts.omitEmptyOptional = true
	}
}

// TypedJSONFromSchemaModel converts raw form values into JSON-typed values
// using the model's property types. Every problem found is reported in one
// *ValidationError; no partial result is returned on failure.
func TypedJSONFromSchemaModel(m SchemaModel, raw map[string]string, options ...CoerceOption) (map[string]any, error) {
	opts := coerceOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	byID := make(map[string]SchemaModelProperty, len(m.Properties))
	order := make([]string, 0, len(m.Properties))
	for _, prop := range m.Properties {
		if _, seen := byID[prop.ID]; seen {
			continue
		}
		byID[prop.ID] = prop
		order = append(order, prop.ID)
	}

	var errs error
	for _, id := range sortedKeys(raw) {
		if _, ok := byID[id]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("Property not allowed in JSON schema: %s", id))
		}
	}

	parsed := make(map[string]any, len(raw))
	for _, id := range order {
		value, present := raw[id]
		if !present {
			continue
		}
		prop := byID[id]
		if value == "" && !prop.Required && prop.Type != TypeString && opts.omitEmptyOptional {
			continue
		}
		typed, err := CoerceValue(prop, value)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		parsed[id] = typed
	}

	for _, id := range order {
		if !byID[id].Required {
			continue
		}
		value, ok := parsed[id]
		if !ok || value == "" {
			errs = multierr.Append(errs, fmt.Errorf("Required property not provided: %s", id))
		}
	}

	if errs != nil {
		details := make([]string, 0, len(multierr.Errors(errs)))
		for _, err := range multierr.Errors(errs) {
			details = append(details, err.Error())
		}
		return nil, NewValidationError(MismatchMessage, details...)
	}
	return parsed, nil
}

// CoerceValue converts a single raw value according to the property's type.
// Strings pass through unchanged, including the empty string.
func CoerceValue(prop SchemaModelProperty, raw string) (any, error) {
	switch prop.Type {
	case TypeString:
		return raw, nil
	case TypeNumber, TypeInteger, TypeBoolean:
		if raw == "" {
			return nil, emptyValueError{id: prop.ID}
		}
	default:
		return nil, fmt.Errorf("Unsupported property type: %s for property %s. It is not yet supported by the form editor", prop.Type, prop.ID)
	}

	switch prop.Type {
	case TypeBoolean:
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, fmt.Errorf("Boolean property must be 'true' or 'false': %s", prop.ID)
		}
	case TypeInteger:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || !d.IsInteger() {
			return nil, fmt.Errorf("Property %s must be an integer, got: %s", prop.ID, raw)
		}
		if whole := d.IntPart(); decimal.NewFromInt(whole).Equal(d) {
			return whole, nil
		}
		f, _ := d.Float64()
		return f, nil
	default:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("Property %s must be a number, got: %s", prop.ID, raw)
		}
		f, _ := d.Float64()
		return f, nil
	}
}

// IsEmptyValue reports whether err came from an empty non-string value.
func IsEmptyValue(err error) bool {
	var target emptyValueError
	return errors.As(err, &target)
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
