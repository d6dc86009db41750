// Package schemamodel maps flat, object-typed JSON Schema documents to an
// ordered SchemaModel that form editors can work with, and coerces string form
// input into JSON-typed values using that model.
//
// JSON Schema keeps properties in an unordered mapping; the model keeps them
// in a list so the display order chosen by the user survives edits. The
// schema is a derived serialization target: SchemaFromModel produces it and
// ModelFromSchema reads it back in the order the properties were written.
//
// Only the string, number, integer and boolean property types are handled.
// Nested objects, arrays, enums and $ref are not representable.
package schemamodel
