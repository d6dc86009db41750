package formschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	internalLoader "github.com/goliatone/go-formschema/internal/loader"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/schemamodel"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// LoadModel fetches a stored JSON Schema, checks that the editor can represent
// it and returns the ordered model.
func LoadModel(ctx context.Context, src schema.Source, options ...schema.LoaderOption) (schemamodel.SchemaModel, error) {
	raw, err := loadJSON(ctx, src, options...)
	if err != nil {
		return schemamodel.SchemaModel{}, err
	}
	return ModelFromDocument(ctx, raw)
}

// ModelFromDocument validates a JSON Schema payload and converts it.
func ModelFromDocument(ctx context.Context, raw []byte) (schemamodel.SchemaModel, error) {
	if result := validation.ValidateJSONSchema(ctx, raw); !result.Valid {
		return schemamodel.SchemaModel{}, result.Err()
	}
	return schemamodel.ModelFromSchemaString(string(raw))
}

// LoadEditorModel fetches a serialized SchemaModel (JSON or YAML).
func LoadEditorModel(ctx context.Context, src schema.Source, options ...schema.LoaderOption) (schemamodel.SchemaModel, error) {
	raw, err := loadJSON(ctx, src, options...)
	if err != nil {
		return schemamodel.SchemaModel{}, err
	}
	var m schemamodel.SchemaModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return schemamodel.SchemaModel{}, fmt.Errorf("formschema: decode model %s: %w", src.Location(), err)
	}
	return m, nil
}

// SaveSchema serializes the model to the JSON Schema stored by the API layer.
// Titles are checked and ids derived from them as written; markup is then
// stripped from the stored titles and descriptions. A title that is nothing
// but markup is rejected as empty.
func SaveSchema(m schemamodel.SchemaModel) ([]byte, error) {
	if _, err := schemamodel.SchemaFromModel(m); err != nil {
		return nil, err
	}
	s, err := schemamodel.SchemaFromModel(m.ResolveIDs().Sanitize())
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

// SubmitInput coerces raw form values and checks the result against the
// model's value schema. Titles play no part in submission.
func SubmitInput(ctx context.Context, m schemamodel.SchemaModel, raw map[string]string, options ...schemamodel.CoerceOption) (map[string]any, error) {
	typed, err := schemamodel.TypedJSONFromSchemaModel(m, raw, options...)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateValues(ctx, schemamodel.ValueSchema(m), typed); err != nil {
		return nil, err
	}
	return typed, nil
}

func loadJSON(ctx context.Context, src schema.Source, options ...schema.LoaderOption) ([]byte, error) {
	if src == nil {
		return nil, errors.New("formschema: source is required")
	}
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("formschema: load %s: %w", src.Location(), err)
	}
	return doc.JSON(), nil
}
