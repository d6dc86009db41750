package schemamodel_test

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

func ExampleSchemaFromModel() {
	m := schemamodel.SchemaModel{
		Properties: []schemamodel.SchemaModelProperty{
			{Title: "Full Name", Type: schemamodel.TypeString, Required: true},
			{Title: "Age", Type: schemamodel.TypeInteger},
		},
	}
	s, err := schemamodel.SchemaFromModel(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := json.Marshal(s)
	fmt.Println(string(out))
	// Output: {"type":"object","properties":{"full_name":{"title":"Full Name","type":"string","description":""},"age":{"title":"Age","type":"integer","description":""}},"required":["full_name"]}
}

func ExampleTypedJSONFromSchemaModel() {
	m := schemamodel.SchemaModel{
		Properties: []schemamodel.SchemaModelProperty{
			{ID: "age", Title: "Age", Type: schemamodel.TypeInteger, Required: true},
			{ID: "active", Title: "Active", Type: schemamodel.TypeBoolean},
		},
	}
	_, err := schemamodel.TypedJSONFromSchemaModel(m, map[string]string{"age": "3.5", "active": "yes"})
	for _, msg := range schemamodel.AsValidationError(err).Messages() {
		fmt.Println(msg)
	}
	// Output:
	// Property age must be an integer, got: 3.5
	// Boolean property must be 'true' or 'false': active
	// Required property not provided: age
}
