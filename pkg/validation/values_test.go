package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

func personSchema(t *testing.T) schemamodel.JSONSchema {
	t.Helper()
	s, err := schemamodel.SchemaFromModel(schemamodel.SchemaModel{
		Properties: []schemamodel.SchemaModelProperty{
			{ID: "name", Title: "Name", Type: schemamodel.TypeString, Required: true},
			{ID: "age", Title: "Age", Type: schemamodel.TypeInteger, Required: true},
			{ID: "height", Title: "Height", Type: schemamodel.TypeNumber},
			{ID: "is_active", Title: "Active", Type: schemamodel.TypeBoolean},
		},
	})
	if err != nil {
		t.Fatalf("schema from model: %v", err)
	}
	return s
}

func TestOpenAPISchema(t *testing.T) {
	out := OpenAPISchema(personSchema(t))
	if err := out.Validate(context.Background()); err != nil {
		t.Fatalf("expected generated schema to validate: %v", err)
	}
	if len(out.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(out.Properties))
	}
	if got := out.Properties["age"].Value.Title; got != "Age" {
		t.Fatalf("expected title Age, got %q", got)
	}
	if len(out.Required) != 2 {
		t.Fatalf("expected 2 required properties, got %v", out.Required)
	}
}

func TestValidateValues(t *testing.T) {
	s := personSchema(t)
	model := schemamodel.ModelFromSchema(s)

	typed, err := schemamodel.TypedJSONFromSchemaModel(model, map[string]string{
		"name":      "John Doe",
		"age":       "30",
		"height":    "1.75",
		"is_active": "true",
	})
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if err := ValidateValues(context.Background(), s, typed); err != nil {
		t.Fatalf("expected coerced values to validate: %v", err)
	}
}

func TestValidateValues_Violations(t *testing.T) {
	err := ValidateValues(context.Background(), personSchema(t), map[string]any{
		"name":  "John Doe",
		"age":   1.5,
		"extra": "x",
	})
	var verr *schemamodel.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	joined := strings.Join(verr.Details, "\n")
	for _, fragment := range []string{"age", "extra"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("expected a detail mentioning %q, got:\n%s", fragment, joined)
		}
	}
}

func TestValidateValues_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ValidateValues(ctx, personSchema(t), map[string]any{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
